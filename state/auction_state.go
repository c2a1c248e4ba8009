// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

func escrowKey(id meter.ListingID, bidder meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("escrow"), id.Bytes(), bidder.Bytes())
}

func activeListingsKey(owner meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("active-listings"), owner.Bytes())
}

func pastListingsKey(owner meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("past-listings"), owner.Bytes())
}

func bidderListingsKey(bidder meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("bidder-listings"), bidder.Bytes())
}

// GetAuction returns the listing record, nil if the listing does not exist.
func (s *State) GetAuction(id meter.ListingID) (result *meter.Auction) {
	s.DecodeStorage(meter.AuctionModuleAddr, id.Key(), func(raw []byte) error {
		if len(raw) == 0 {
			// absent, not an error
			return nil
		}
		var a meter.Auction
		if err := rlp.DecodeBytes(raw, &a); err != nil {
			return err
		}
		result = &a
		return nil
	})
	return
}

func (s *State) SetAuction(a *meter.Auction) {
	s.EncodeStorage(meter.AuctionModuleAddr, a.ListingID.Key(), func() ([]byte, error) {
		return rlp.EncodeToBytes(a)
	})
}

func (s *State) HasAuction(id meter.ListingID) bool {
	return len(s.GetRawStorage(meter.AuctionModuleAddr, id.Key())) > 0
}

// GetEscrow returns the escrow entry of bidder on listing id, never nil.
func (s *State) GetEscrow(id meter.ListingID, bidder meter.Address) (result *meter.BalanceEntry) {
	result = &meter.BalanceEntry{}
	s.DecodeStorage(meter.AuctionModuleAddr, escrowKey(id, bidder), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, result)
	})
	return
}

// SetEscrow stores the entry, an empty entry removes it.
func (s *State) SetEscrow(id meter.ListingID, bidder meter.Address, entry *meter.BalanceEntry) {
	if entry.IsEmpty() {
		s.SetRawStorage(meter.AuctionModuleAddr, escrowKey(id, bidder), nil)
		return
	}
	s.EncodeStorage(meter.AuctionModuleAddr, escrowKey(id, bidder), func() ([]byte, error) {
		return rlp.EncodeToBytes(entry)
	})
}

func (s *State) getListingList(key meter.Bytes32) (result *meter.ListingList) {
	s.DecodeStorage(meter.AuctionModuleAddr, key, func(raw []byte) error {
		ids := make([]meter.ListingID, 0)
		if len(raw) > 0 {
			if err := rlp.DecodeBytes(raw, &ids); err != nil {
				result = meter.NewListingList(nil)
				return err
			}
		}
		result = meter.NewListingList(ids)
		return nil
	})
	return
}

func (s *State) setListingList(key meter.Bytes32, list *meter.ListingList) {
	if list.Len() == 0 {
		s.SetRawStorage(meter.AuctionModuleAddr, key, nil)
		return
	}
	s.EncodeStorage(meter.AuctionModuleAddr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(list.IDs)
	})
}

func (s *State) GetActiveListings(owner meter.Address) *meter.ListingList {
	return s.getListingList(activeListingsKey(owner))
}

func (s *State) SetActiveListings(owner meter.Address, list *meter.ListingList) {
	s.setListingList(activeListingsKey(owner), list)
}

func (s *State) GetPastListings(owner meter.Address) *meter.ListingList {
	return s.getListingList(pastListingsKey(owner))
}

func (s *State) SetPastListings(owner meter.Address, list *meter.ListingList) {
	s.setListingList(pastListingsKey(owner), list)
}

// GetBidderListings returns the listings bidder has ever bid on, in first-bid order.
func (s *State) GetBidderListings(bidder meter.Address) *meter.ListingList {
	return s.getListingList(bidderListingsKey(bidder))
}

func (s *State) SetBidderListings(bidder meter.Address, list *meter.ListingList) {
	s.setListingList(bidderListingsKey(bidder), list)
}
