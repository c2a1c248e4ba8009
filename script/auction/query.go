// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// Read-only views over auction state. None of them mutate st.

func GetAuctionDetails(st *state.State, id meter.ListingID) (*meter.Auction, error) {
	return getAuction(st, id)
}

// GetHighestBidder returns the leader, the zero address when there are no bids.
func GetHighestBidder(st *state.State, id meter.ListingID) (meter.Address, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return meter.Address{}, err
	}
	return auc.HighestBidder, nil
}

func GetAuctionEndTime(st *state.State, id meter.ListingID) (uint64, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return 0, err
	}
	return auc.EndTime, nil
}

func HasEnded(st *state.State, id meter.ListingID) (bool, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return false, err
	}
	return auc.Ended, nil
}

// BidAndEndTime is the live bidding view of a listing.
type BidAndEndTime struct {
	HighestBid    uint64
	HighestBidder meter.Address
	EndTime       uint64
	Remaining     uint64
}

func GetHighestBidAndEndTime(st *state.State, id meter.ListingID, now uint64) (*BidAndEndTime, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return nil, err
	}
	return &BidAndEndTime{
		HighestBid:    auc.HighestBid,
		HighestBidder: auc.HighestBidder,
		EndTime:       auc.EndTime,
		Remaining:     auc.Remaining(now),
	}, nil
}

// GetWinner returns the winner of a settled listing.
func GetWinner(st *state.State, id meter.ListingID) (meter.Address, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return meter.Address{}, err
	}
	if !auc.Ended {
		return meter.Address{}, ErrNotEnded
	}
	return auc.HighestBidder, nil
}

func GetActiveListingsOf(st *state.State, owner meter.Address) []meter.ListingID {
	return st.GetActiveListings(owner).IDs
}

func GetPastListingsOf(st *state.State, owner meter.Address) []meter.ListingID {
	return st.GetPastListings(owner).IDs
}

// GetPendingWithdrawal returns what addr could withdraw right now: nothing
// while leading or on pooled listings, the whole escrow otherwise.
func GetPendingWithdrawal(st *state.State, id meter.ListingID, addr meter.Address) (uint64, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return 0, err
	}
	if auc.IsPooled() || auc.IsLeader(addr) {
		return 0, nil
	}
	return st.GetEscrow(id, addr).Amount, nil
}

// GetBidAmount returns the escrow of addr on a listing.
func GetBidAmount(st *state.State, id meter.ListingID, addr meter.Address) (uint64, error) {
	entry, err := GetUserBid(st, id, addr)
	if err != nil {
		return 0, err
	}
	return entry.Amount, nil
}

func GetUserBid(st *state.State, id meter.ListingID, addr meter.Address) (*meter.BalanceEntry, error) {
	if _, err := getAuction(st, id); err != nil {
		return nil, err
	}
	return st.GetEscrow(id, addr), nil
}

// GetLatestBids returns up to n bids, most recent first. n is capped at
// meter.MaxLatestBids.
func GetLatestBids(st *state.State, id meter.ListingID, n int) ([]*meter.Bid, error) {
	auc, err := getAuction(st, id)
	if err != nil {
		return nil, err
	}
	if n > meter.MaxLatestBids {
		n = meter.MaxLatestBids
	}
	return auc.LatestBids(n), nil
}

// UserBid is the standing of a bidder on one listing.
type UserBid struct {
	ListingID   meter.ListingID
	Amount      uint64
	LastBidTime uint64
	Leading     bool
	Ended       bool
}

// GetAllBidsOfUser lists every listing addr has bid on, in first-bid order.
func GetAllBidsOfUser(st *state.State, addr meter.Address) []*UserBid {
	ids := st.GetBidderListings(addr).IDs
	bids := make([]*UserBid, 0, len(ids))
	for _, id := range ids {
		auc := st.GetAuction(id)
		if auc == nil {
			continue
		}
		entry := st.GetEscrow(id, addr)
		bids = append(bids, &UserBid{
			ListingID:   id,
			Amount:      entry.Amount,
			LastBidTime: entry.LastBidTime,
			Leading:     auc.IsLeader(addr),
			Ended:       auc.Ended,
		})
	}
	return bids
}

func GetParams(st *state.State) *params.Settings {
	return builtin.Params.Native(st).Settings()
}
