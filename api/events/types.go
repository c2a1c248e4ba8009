// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
)

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
}

// FilteredEvent only comes from one module
type FilteredEvent struct {
	Address meter.Address    `json:"address"`
	Topics  []*meter.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Name    string           `json:"name,omitempty"`
	Decoded interface{}      `json:"decoded,omitempty"`
	Meta    utils.LogMeta    `json:"meta"`
}

//convert a logdb.Event into a json format Event
func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: utils.LogMeta{
			Seq:      event.Seq,
			TxID:     event.TxID,
			TxOrigin: event.TxOrigin,
			TxTime:   event.TxTime,
			Op:       meter.GetOpName(event.Op),
		},
	}
	fe.Topics = make([]*meter.Bytes32, 0)
	for i := 0; i < logdb.MaxTopics; i++ {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	if decoded, err := auction.DecodeEvent(event.ToTxEvent()); err == nil {
		fe.Name = auction.EventName(*event.Topics[0])
		fe.Decoded = decoded
	}
	return &fe
}

func (e *FilteredEvent) String() string {
	return fmt.Sprintf(`
		Event(
			address: 	   %v,
			name:          %v,
			topics:        %v,
			data:          %v,
			meta: (seq      %v,
				txID     %v,
				txOrigin %v,
				txTime   %v)
			)`,
		e.Address,
		e.Name,
		e.Topics,
		e.Data,
		e.Meta.Seq,
		e.Meta.TxID,
		e.Meta.TxOrigin,
		e.Meta.TxTime,
	)
}

type EventCriteria struct {
	Address *meter.Address `json:"address"`
	// ListingID matches events of one listing, overriding topic1.
	ListingID *meter.ListingID `json:"listingID"`
	TopicSet
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	if len(filter.CriteriaSet) > 0 {
		criterias := make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, criteria := range filter.CriteriaSet {
			var topics [logdb.MaxTopics]*meter.Bytes32
			topics[0] = criteria.Topic0
			topics[1] = criteria.Topic1
			topics[2] = criteria.Topic2
			topics[3] = criteria.Topic3
			if criteria.ListingID != nil {
				t := auction.ListingTopic(*criteria.ListingID)
				topics[1] = &t
			}
			criterias[i] = &logdb.EventCriteria{
				Address: criteria.Address,
				Topics:  topics,
			}
		}
		f.CriteriaSet = criterias
	}
	return f
}
