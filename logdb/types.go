// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// MaxTopics is the number of topic columns kept per event.
const MaxTopics = 4

//Event represents tx.Event that can be stored in db.
type Event struct {
	Seq      uint64
	Index    uint32
	TxTime   uint64
	TxID     meter.Bytes32
	TxOrigin meter.Address
	Op       uint32
	Address  meter.Address // module that emitted the event
	Topics   [MaxTopics]*meter.Bytes32
	Data     []byte
}

//newEvent converts tx.Event to Event.
func newEvent(r *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		Seq:      r.Seq,
		Index:    index,
		TxTime:   r.Timestamp,
		TxID:     r.TxID,
		TxOrigin: r.Origin,
		Op:       r.Op,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// ToTxEvent converts back to the emitted form.
func (e *Event) ToTxEvent() *tx.Event {
	ev := &tx.Event{Address: e.Address, Data: e.Data}
	for _, t := range e.Topics {
		if t != nil {
			ev.Topics = append(ev.Topics, *t)
		}
	}
	return ev
}

//Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	Seq       uint64
	Index     uint32
	TxTime    uint64
	TxID      meter.Bytes32
	TxOrigin  meter.Address
	Op        uint32
	Sender    meter.Address
	Recipient meter.Address
	Amount    *big.Int
}

//newTransfer converts tx.Transfer to Transfer.
func newTransfer(r *tx.Receipt, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		Seq:       r.Seq,
		Index:     index,
		TxTime:    r.Timestamp,
		TxID:      r.TxID,
		TxOrigin:  r.Origin,
		Op:        r.Op,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount,
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.Address
	Topics  [MaxTopics]*meter.Bytes32
}

//EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	TxOrigin  *meter.Address //who send transaction
	Sender    *meter.Address //who transferred value
	Recipient *meter.Address //who recieved value
}

type TransferFilter struct {
	TxID        *meter.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}
