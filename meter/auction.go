// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"strings"
)

// ListingID caller supplied key of a listing.
type ListingID string

func (id ListingID) Bytes() []byte { return []byte(id) }

// Key is the storage key of the listing record.
func (id ListingID) Key() Bytes32 {
	return Blake2b([]byte("auction"), []byte(id))
}

// SettlementMode selects how a listing pays out when it ends.
type SettlementMode uint32

const (
	// StandardSettlement pays the top bid to the owner, losers withdraw their escrow.
	StandardSettlement SettlementMode = iota
	// PooledSettlement pays the whole bid pool to the owner, nobody withdraws.
	PooledSettlement
)

func (m SettlementMode) String() string {
	switch m {
	case StandardSettlement:
		return "standard"
	case PooledSettlement:
		return "pooled"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

func (m SettlementMode) IsValid() bool {
	return m == StandardSettlement || m == PooledSettlement
}

func ParseSettlementMode(s string) (SettlementMode, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return StandardSettlement, nil
	case "pooled", "alien":
		return PooledSettlement, nil
	}
	return 0, fmt.Errorf("unknown settlement mode %q", s)
}

// Auction is the record of one listing.
type Auction struct {
	ListingID     ListingID
	Owner         Address
	MinimumBid    uint64
	HighestBid    uint64
	HighestBidder Address
	EndTime       uint64
	CreateTime    uint64
	WinTime       uint64
	FeesAccrued   uint64
	TotalAmount   uint64
	Ended         bool
	Paused        bool
	Mode          SettlementMode
	TokenID       Bytes32
	Bids          []*Bid
	Bidders       []Address
}

func NewAuction(id ListingID, owner Address, minimum, endTime, now uint64, mode SettlementMode) *Auction {
	return &Auction{
		ListingID:  id,
		Owner:      owner,
		MinimumBid: minimum,
		EndTime:    endTime,
		CreateTime: now,
		Mode:       mode,
		Bids:       make([]*Bid, 0),
		Bidders:    make([]Address, 0),
	}
}

func (a *Auction) IsPooled() bool { return a.Mode == PooledSettlement }

func (a *Auction) HasBids() bool { return a.HighestBid > 0 }

// IsLeader reports whether addr currently holds the top bid.
func (a *Auction) IsLeader(addr Address) bool {
	return a.HasBids() && a.HighestBidder == addr
}

// Remaining returns seconds left before the end time, floored at zero.
func (a *Auction) Remaining(now uint64) uint64 {
	if now >= a.EndTime {
		return 0
	}
	return a.EndTime - now
}

func (a *Auction) HasBidder(addr Address) bool {
	for _, b := range a.Bidders {
		if b == addr {
			return true
		}
	}
	return false
}

func (a *Auction) AddBid(bid *Bid) {
	if !a.HasBidder(bid.Bidder) {
		a.Bidders = append(a.Bidders, bid.Bidder)
	}
	a.Bids = append(a.Bids, bid)
}

// LatestBids returns up to n bids, most recent first.
func (a *Auction) LatestBids(n int) []*Bid {
	if n > len(a.Bids) {
		n = len(a.Bids)
	}
	if n <= 0 {
		return []*Bid{}
	}
	latest := make([]*Bid, 0, n)
	for i := len(a.Bids) - 1; i >= len(a.Bids)-n; i-- {
		latest = append(latest, a.Bids[i])
	}
	return latest
}

// BidsOf returns the bids placed by addr in chronological order.
func (a *Auction) BidsOf(addr Address) []*Bid {
	bids := make([]*Bid, 0)
	for _, b := range a.Bids {
		if b.Bidder == addr {
			bids = append(bids, b)
		}
	}
	return bids
}

func (a *Auction) ToString() string {
	return fmt.Sprintf("Auction(id=%v, owner=%v, min=%v, highest=%v, leader=%v, end=%v, fees=%v, total=%v, ended=%v, paused=%v, mode=%v, bids=%v)",
		a.ListingID, a.Owner, a.MinimumBid, a.HighestBid, a.HighestBidder, a.EndTime,
		a.FeesAccrued, a.TotalAmount, a.Ended, a.Paused, a.Mode, len(a.Bids))
}

// ListingList is an insertion ordered set of listing ids.
type ListingList struct {
	IDs []ListingID
}

func NewListingList(ids []ListingID) *ListingList {
	if ids == nil {
		ids = make([]ListingID, 0)
	}
	return &ListingList{IDs: ids}
}

func (l *ListingList) Contains(id ListingID) bool {
	return l.indexOf(id) >= 0
}

func (l *ListingList) indexOf(id ListingID) int {
	for i, v := range l.IDs {
		if v == id {
			return i
		}
	}
	return -1
}

// Add appends id unless it is already present.
func (l *ListingList) Add(id ListingID) bool {
	if l.Contains(id) {
		return false
	}
	l.IDs = append(l.IDs, id)
	return true
}

// Remove drops id keeping the order of the rest.
func (l *ListingList) Remove(id ListingID) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.IDs = append(l.IDs[:i], l.IDs[i+1:]...)
	return true
}

func (l *ListingList) Len() int { return len(l.IDs) }
