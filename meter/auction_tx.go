// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"time"
)

// Bid is one accepted bid in a listing's history. Amount is the net amount
// credited to the bidder's escrow.
type Bid struct {
	TxID      Bytes32
	Bidder    Address
	Amount    uint64
	Timestamp uint64
}

func (b *Bid) ToString() string {
	return fmt.Sprintf("Bid(bidder=%v, amount=%v, time=%v, tx=%v)",
		b.Bidder, b.Amount, time.Unix(int64(b.Timestamp), 0).UTC().Format(time.RFC3339), b.TxID.AbbrevString())
}

func (b *Bid) ID() Bytes32 {
	return RlpHash(b.TxID, b.Bidder, b.Amount, b.Timestamp)
}

func NewBid(txID Bytes32, bidder Address, amount uint64, ts uint64) *Bid {
	return &Bid{
		TxID:      txID,
		Bidder:    bidder,
		Amount:    amount,
		Timestamp: ts,
	}
}

// BalanceEntry is the escrow held for one bidder on one listing.
type BalanceEntry struct {
	Amount      uint64
	LastBidTime uint64
}

func (e *BalanceEntry) IsEmpty() bool {
	return e == nil || e.Amount == 0
}
