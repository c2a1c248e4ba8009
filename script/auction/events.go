// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
)

// Event signatures, topic 0 of every auction event.
var (
	AuctionInitializedSig = meter.Blake2b([]byte("AuctionInitialized(string,address,uint64,uint64,uint32)"))
	BidPlacedSig          = meter.Blake2b([]byte("BidPlaced(string,address,uint64,uint64,uint64,bool)"))
	AuctionEndedSig       = meter.Blake2b([]byte("AuctionEnded(string,address,uint64,uint64,uint64,bytes32)"))
	WithdrawnSig          = meter.Blake2b([]byte("Withdrawn(string,address,address,uint64)"))
	ListingPausedSig      = meter.Blake2b([]byte("ListingPaused(string,bool)"))
)

var errUnknownEvent = errors.New("unknown auction event")

type AuctionInitialized struct {
	ListingID meter.ListingID
	Owner     meter.Address
	Minimum   uint64
	EndTime   uint64
	Mode      meter.SettlementMode
}

type BidPlaced struct {
	ListingID meter.ListingID
	Bidder    meter.Address
	Amount    uint64 // net amount credited
	Fee       uint64
	EndTime   uint64
	Extended  bool
}

type AuctionEnded struct {
	ListingID     meter.ListingID
	Winner        meter.Address
	Amount        uint64
	OwnerEarnings uint64
	Fee           uint64
	TokenID       meter.Bytes32
}

type Withdrawn struct {
	ListingID meter.ListingID
	Bidder    meter.Address
	Recipient meter.Address
	Amount    uint64
}

type ListingPaused struct {
	ListingID meter.ListingID
	Paused    bool
}

// ListingTopic is the indexed topic of a listing id.
func ListingTopic(id meter.ListingID) meter.Bytes32 {
	return meter.Blake2b(id.Bytes())
}

// AddressTopic is the indexed topic of an address.
func AddressTopic(addr meter.Address) meter.Bytes32 {
	return meter.BytesToBytes32(addr.Bytes())
}

func emit(env *setypes.ScriptEnv, sig meter.Bytes32, id meter.ListingID, who *meter.Address, ev interface{}) {
	data, err := rlp.EncodeToBytes(ev)
	if err != nil {
		log.Error("encode event failed", "err", err)
		return
	}
	topics := []meter.Bytes32{sig, ListingTopic(id)}
	if who != nil {
		topics = append(topics, AddressTopic(*who))
	}
	env.AddEvent(meter.AuctionModuleAddr, topics, data)
}

// EventName returns the name of an auction event signature.
func EventName(sig meter.Bytes32) string {
	switch sig {
	case AuctionInitializedSig:
		return "AuctionInitialized"
	case BidPlacedSig:
		return "BidPlaced"
	case AuctionEndedSig:
		return "AuctionEnded"
	case WithdrawnSig:
		return "Withdrawn"
	case ListingPausedSig:
		return "ListingPaused"
	}
	return ""
}

// DecodeEvent decodes an auction event into its typed form.
func DecodeEvent(e *tx.Event) (interface{}, error) {
	if e.Address != meter.AuctionModuleAddr || len(e.Topics) == 0 {
		return nil, errUnknownEvent
	}
	var ev interface{}
	switch e.Topics[0] {
	case AuctionInitializedSig:
		ev = &AuctionInitialized{}
	case BidPlacedSig:
		ev = &BidPlaced{}
	case AuctionEndedSig:
		ev = &AuctionEnded{}
	case WithdrawnSig:
		ev = &Withdrawn{}
	case ListingPausedSig:
		ev = &ListingPaused{}
	default:
		return nil, errUnknownEvent
	}
	if err := rlp.DecodeBytes(e.Data, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// EventListingID returns the listing an event belongs to.
func EventListingID(ev interface{}) meter.ListingID {
	switch e := ev.(type) {
	case *AuctionInitialized:
		return e.ListingID
	case *BidPlaced:
		return e.ListingID
	case *AuctionEnded:
		return e.ListingID
	case *Withdrawn:
		return e.ListingID
	case *ListingPaused:
		return e.ListingID
	}
	return ""
}
