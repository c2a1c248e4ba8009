// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/tx"
)

// EventMessage is the decoded, json friendly form of one auction event.
type EventMessage struct {
	Seq       uint64          `json:"seq"`
	TxID      meter.Bytes32   `json:"txID"`
	Origin    meter.Address   `json:"origin"`
	Timestamp uint64          `json:"timestamp"`
	Index     int             `json:"index"`
	Name      string          `json:"name"`
	ListingID meter.ListingID `json:"listingID"`
	Data      interface{}     `json:"data"`
}

// MessagesOf decodes the auction events of a receipt. Events that do not
// decode are skipped.
func MessagesOf(r *tx.Receipt) []*EventMessage {
	msgs := make([]*EventMessage, 0, len(r.Events))
	for i, e := range r.Events {
		ev, err := auction.DecodeEvent(e)
		if err != nil {
			continue
		}
		msgs = append(msgs, &EventMessage{
			Seq:       r.Seq,
			TxID:      r.TxID,
			Origin:    r.Origin,
			Timestamp: r.Timestamp,
			Index:     i,
			Name:      auction.EventName(e.Topics[0]),
			ListingID: auction.EventListingID(ev),
			Data:      ev,
		})
	}
	return msgs
}
