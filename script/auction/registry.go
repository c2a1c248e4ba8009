// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

func validateListingID(id meter.ListingID) error {
	if len(id) == 0 || len(id) > meter.MaxListingIDLength {
		return ErrInvalidListingID
	}
	return nil
}

// createListing registers a new bid-less listing and indexes it as active for
// its owner.
func createListing(st *state.State, id meter.ListingID, minimum, endTime, now uint64, owner meter.Address, mode meter.SettlementMode) (*meter.Auction, error) {
	if err := validateListingID(id); err != nil {
		return nil, err
	}
	if st.HasAuction(id) {
		return nil, ErrDuplicateListing
	}
	if minimum == 0 {
		return nil, ErrInvalidMinimum
	}
	if endTime <= now {
		return nil, ErrInvalidEndTime
	}
	if owner.IsZero() {
		return nil, ErrInvalidSeller
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}

	auc := meter.NewAuction(id, owner, minimum, endTime, now, mode)
	st.SetAuction(auc)

	active := st.GetActiveListings(owner)
	active.Add(id)
	st.SetActiveListings(owner, active)
	return auc, nil
}

// reclassify moves a listing from the owner's active list to the past list.
// Calling it again is a no-op.
func reclassify(st *state.State, auc *meter.Auction) {
	active := st.GetActiveListings(auc.Owner)
	if active.Remove(auc.ListingID) {
		st.SetActiveListings(auc.Owner, active)
	}
	past := st.GetPastListings(auc.Owner)
	if past.Add(auc.ListingID) {
		st.SetPastListings(auc.Owner, past)
	}
}

func getAuction(st *state.State, id meter.ListingID) (*meter.Auction, error) {
	auc := st.GetAuction(id)
	if auc == nil {
		return nil, ErrUnknownListing
	}
	return auc, nil
}

// trackBidder records that bidder has escrow on listing id.
func trackBidder(st *state.State, bidder meter.Address, id meter.ListingID) {
	list := st.GetBidderListings(bidder)
	if list.Add(id) {
		st.SetBidderListings(bidder, list)
	}
}
