// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gonum/stat"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/tx"
	"github.com/shopspring/decimal"
)

// feePercent renders a per-mille rate as a percentage.
func feePercent(rate uint64) string {
	return decimal.New(int64(rate), -1).String()
}

type Params struct {
	FeeRecipient       meter.Address `json:"feeRecipient"`
	BuyerFeeRate       uint64        `json:"buyerFeeRate"`
	BuyerFeePercent    string        `json:"buyerFeePercent"`
	SellerFeeRate      uint64        `json:"sellerFeeRate"`
	SellerFeePercent   string        `json:"sellerFeePercent"`
	SnipingWindow      uint64        `json:"snipingWindow"`
	TimeExtension      uint64        `json:"timeExtension"`
	NFTContract        meter.Address `json:"nftContract"`
	SettlementContract meter.Address `json:"settlementContract"`
	Authority          meter.Address `json:"authority"`
}

func convertParams(s *params.Settings) *Params {
	return &Params{
		FeeRecipient:       s.FeeRecipient,
		BuyerFeeRate:       s.BuyerFeeRate,
		BuyerFeePercent:    feePercent(s.BuyerFeeRate),
		SellerFeeRate:      s.SellerFeeRate,
		SellerFeePercent:   feePercent(s.SellerFeeRate),
		SnipingWindow:      s.SnipingWindow,
		TimeExtension:      s.TimeExtension,
		NFTContract:        s.NFTContract,
		SettlementContract: s.SettlementContract,
		Authority:          s.Authority,
	}
}

type Listing struct {
	ListingID     meter.ListingID `json:"listingID"`
	Owner         meter.Address   `json:"owner"`
	Mode          string          `json:"mode"`
	MinimumBid    uint64          `json:"minimumBid"`
	HighestBid    uint64          `json:"highestBid"`
	HighestBidder meter.Address   `json:"highestBidder"`
	CreateTime    uint64          `json:"createTime"`
	EndTime       uint64          `json:"endTime"`
	Remaining     uint64          `json:"remaining"`
	WinTime       uint64          `json:"winTime"`
	FeesAccrued   uint64          `json:"feesAccrued"`
	TotalAmount   uint64          `json:"totalAmount"`
	Ended         bool            `json:"ended"`
	Paused        bool            `json:"paused"`
	TokenID       *meter.Bytes32  `json:"tokenID,omitempty"`
	BidCount      int             `json:"bidCount"`
	BidderCount   int             `json:"bidderCount"`
}

func convertListing(a *meter.Auction, now uint64) *Listing {
	l := &Listing{
		ListingID:     a.ListingID,
		Owner:         a.Owner,
		Mode:          a.Mode.String(),
		MinimumBid:    a.MinimumBid,
		HighestBid:    a.HighestBid,
		HighestBidder: a.HighestBidder,
		CreateTime:    a.CreateTime,
		EndTime:       a.EndTime,
		Remaining:     a.Remaining(now),
		WinTime:       a.WinTime,
		FeesAccrued:   a.FeesAccrued,
		TotalAmount:   a.TotalAmount,
		Ended:         a.Ended,
		Paused:        a.Paused,
		BidCount:      len(a.Bids),
		BidderCount:   len(a.Bidders),
	}
	if !a.TokenID.IsZero() {
		id := a.TokenID
		l.TokenID = &id
	}
	return l
}

type Bid struct {
	TxID      meter.Bytes32 `json:"txID"`
	Bidder    meter.Address `json:"bidder"`
	Amount    uint64        `json:"amount"`
	Timestamp uint64        `json:"timestamp"`
}

func convertBids(bids []*meter.Bid) []*Bid {
	res := make([]*Bid, 0, len(bids))
	for _, b := range bids {
		res = append(res, &Bid{b.TxID, b.Bidder, b.Amount, b.Timestamp})
	}
	return res
}

type Bidder struct {
	Amount      uint64 `json:"amount"`
	LastBidTime uint64 `json:"lastBidTime"`
	Pending     uint64 `json:"pendingWithdrawal"`
	Leading     bool   `json:"leading"`
}

type UserBid struct {
	ListingID   meter.ListingID `json:"listingID"`
	Amount      uint64          `json:"amount"`
	LastBidTime uint64          `json:"lastBidTime"`
	Leading     bool            `json:"leading"`
	Ended       bool            `json:"ended"`
}

func convertUserBids(bids []*auction.UserBid) []*UserBid {
	res := make([]*UserBid, 0, len(bids))
	for _, b := range bids {
		res = append(res, &UserBid{b.ListingID, b.Amount, b.LastBidTime, b.Leading, b.Ended})
	}
	return res
}

// Stats summarizes the bid history of a listing.
type Stats struct {
	Count   int    `json:"count"`
	Bidders int    `json:"bidders"`
	Min     uint64 `json:"min"`
	Max     uint64 `json:"max"`
	Mean    string `json:"mean"`
	Median  string `json:"median"`
	StdDev  string `json:"stdDev"`
}

func computeStats(a *meter.Auction) *Stats {
	s := &Stats{Count: len(a.Bids), Bidders: len(a.Bidders), Mean: "0", Median: "0", StdDev: "0"}
	if len(a.Bids) == 0 {
		return s
	}
	xs := make([]float64, 0, len(a.Bids))
	s.Min = a.Bids[0].Amount
	for _, b := range a.Bids {
		xs = append(xs, float64(b.Amount))
		if b.Amount < s.Min {
			s.Min = b.Amount
		}
		if b.Amount > s.Max {
			s.Max = b.Amount
		}
	}
	sort.Float64s(xs)
	s.Mean = decimal.NewFromFloat(stat.Mean(xs, nil)).Round(2).String()
	s.Median = decimal.NewFromFloat(stat.Quantile(0.5, stat.Empirical, xs, nil)).Round(2).String()
	if len(xs) > 1 {
		s.StdDev = decimal.NewFromFloat(stat.StdDev(xs, nil)).Round(2).String()
	}
	return s
}

type RawTx struct {
	Raw string `json:"raw"`
}

type Transfer struct {
	Sender    meter.Address `json:"sender"`
	Recipient meter.Address `json:"recipient"`
	Amount    string        `json:"amount"`
}

type Receipt struct {
	TxID      meter.Bytes32           `json:"txID"`
	Seq       uint64                  `json:"seq"`
	Origin    meter.Address           `json:"origin"`
	Op        string                  `json:"op"`
	Timestamp uint64                  `json:"timestamp"`
	Digest    meter.Bytes32           `json:"digest"`
	Output    string                  `json:"output"`
	Events    []*runtime.EventMessage `json:"events"`
	Transfers []*Transfer             `json:"transfers"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	res := &Receipt{
		TxID:      r.TxID,
		Seq:       r.Seq,
		Origin:    r.Origin,
		Op:        meter.GetOpName(r.Op),
		Timestamp: r.Timestamp,
		Digest:    r.Digest,
		Output:    hexutil.Encode(r.Output),
		Events:    runtime.MessagesOf(r),
		Transfers: make([]*Transfer, 0, len(r.Transfers)),
	}
	for _, t := range r.Transfers {
		res.Transfers = append(res.Transfers, &Transfer{t.Sender, t.Recipient, t.Amount.String()})
	}
	return res
}
