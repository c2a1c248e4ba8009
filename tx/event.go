// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-auction/meter"
)

// Event represents a domain event emitted by a module.
// Topics[0] is the event signature, the remaining topics are indexed values.
type Event struct {
	// address of the module that emitted the event
	Address meter.Address
	// list of topics provided by the module.
	Topics []meter.Bytes32
	// supplied by the module, usually rlp-encoded event fields
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Receipt is the outcome of one executed transaction.
type Receipt struct {
	TxID      meter.Bytes32
	Seq       uint64
	Origin    meter.Address
	Op        uint32
	Timestamp uint64
	Digest    meter.Bytes32
	Output    []byte
	Events    Events
	Transfers Transfers
}
