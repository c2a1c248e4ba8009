// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// AuctionBody is the payload of an auction transaction. Fields unused by an
// opcode are left zero.
type AuctionBody struct {
	Opcode    uint32
	Version   uint32
	ListingID meter.ListingID
	Owner     meter.Address // init: listing owner, defaults to the caller
	Bidder    meter.Address // init/bid: bidder credited, defaults to the caller
	Recipient meter.Address // withdraw: refund recipient, defaults to the caller
	Amount    uint64        // init/bid: gross amount paid by the caller
	Minimum   uint64
	EndTime   uint64
	Mode      meter.SettlementMode
	Paused    bool
	Address   meter.Address // governance: recipient, contract or authority
	BuyerFee  uint64
	SellerFee uint64
	Window    uint64
	Extension uint64
	Hook      []byte // end: passed through to the mint hook
	Timestamp uint64
	Nonce     uint64
}

func (ab *AuctionBody) ToString() string {
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, ListingID=%v, Owner=%v, Bidder=%v, Recipient=%v, Amount=%v, Minimum=%v, EndTime=%v, Mode=%v, Paused=%v, Address=%v, BuyerFee=%v, SellerFee=%v, Window=%v, Extension=%v, Timestamp=%v, Nonce=%v",
		ab.Opcode, ab.Version, ab.ListingID, ab.Owner, ab.Bidder, ab.Recipient, ab.Amount, ab.Minimum, ab.EndTime, ab.Mode, ab.Paused, ab.Address, ab.BuyerFee, ab.SellerFee, ab.Window, ab.Extension, ab.Timestamp, ab.Nonce)
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	return meter.GetOpName(op)
}

func AuctionEncodeBytes(ab *AuctionBody) []byte {
	auctionBytes, err := rlp.EncodeToBytes(ab)
	if err != nil {
		log.Error("rlp encode failed", "error", err)
		return []byte{}
	}
	return auctionBytes
}

func AuctionDecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}

// orDefault returns addr, or def when addr is zero.
func orDefault(addr, def meter.Address) meter.Address {
	if addr.IsZero() {
		return def
	}
	return addr
}
