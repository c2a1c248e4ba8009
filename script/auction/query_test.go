// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	f := newFixture(t)
	f.init(alice, "L1", 100, T0+1000)
	f.init(alice, "L2", 100, T0+1000)

	require.NoError(t, f.bid(bob, "L1", 1000))
	f.now++
	require.NoError(t, f.bid(carol, "L1", 2000))
	f.now++
	require.NoError(t, f.bid(bob, "L1", 2000))
	require.NoError(t, f.bid(carol, "L2", 500))

	leader, err := GetHighestBidder(f.st, "L1")
	require.NoError(t, err)
	assert.Equal(t, bob, leader)

	end, err := GetAuctionEndTime(f.st, "L1")
	require.NoError(t, err)
	assert.Equal(t, T0+1000, end)

	ended, err := HasEnded(f.st, "L1")
	require.NoError(t, err)
	assert.False(t, ended)

	view, err := GetHighestBidAndEndTime(f.st, "L1", T0+400)
	require.NoError(t, err)
	assert.Equal(t, &BidAndEndTime{HighestBid: 2940, HighestBidder: bob, EndTime: T0 + 1000, Remaining: 600}, view)

	amount, err := GetBidAmount(f.st, "L1", carol)
	require.NoError(t, err)
	assert.Equal(t, uint64(1960), amount)

	entry, err := GetUserBid(f.st, "L1", bob)
	require.NoError(t, err)
	assert.Equal(t, &meter.BalanceEntry{Amount: 2940, LastBidTime: T0 + 2}, entry)

	latest, err := GetLatestBids(f.st, "L1", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, bob, latest[0].Bidder)
	assert.Equal(t, uint64(1960), latest[0].Amount)
	assert.Equal(t, carol, latest[1].Bidder)

	latest, err = GetLatestBids(f.st, "L1", 1000)
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	bids := GetAllBidsOfUser(f.st, carol)
	require.Len(t, bids, 2)
	assert.Equal(t, &UserBid{ListingID: "L1", Amount: 1960, LastBidTime: T0 + 1}, bids[0])
	assert.Equal(t, &UserBid{ListingID: "L2", Amount: 490, LastBidTime: T0 + 2, Leading: true}, bids[1])

	assert.Equal(t, []meter.ListingID{"L1", "L2"}, GetActiveListingsOf(f.st, alice))

	_, err = GetHighestBidder(f.st, "nope")
	assert.Equal(t, ErrUnknownListing, err)
	_, err = GetLatestBids(f.st, "nope", 1)
	assert.Equal(t, ErrUnknownListing, err)
	_, err = GetPendingWithdrawal(f.st, "nope", bob)
	assert.Equal(t, ErrUnknownListing, err)
}

func TestDecodeEvents(t *testing.T) {
	f := newFixture(t)
	env := f.init(alice, "L1", 100, T0+1000)
	ev, err := DecodeEvent(env.GetEvents()[0])
	require.NoError(t, err)
	assert.Equal(t, &AuctionInitialized{ListingID: "L1", Owner: alice, Minimum: 100, EndTime: T0 + 1000}, ev)
	assert.Equal(t, meter.ListingID("L1"), EventListingID(ev))
	assert.Equal(t, ListingTopic("L1"), env.GetEvents()[0].Topics[1])
	assert.Equal(t, AddressTopic(alice), env.GetEvents()[0].Topics[2])

	f.now = T0 + 900
	env, err = f.exec(bob, &AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 1000})
	require.NoError(t, err)
	ev, err = DecodeEvent(env.GetEvents()[0])
	require.NoError(t, err)
	assert.Equal(t, &BidPlaced{ListingID: "L1", Bidder: bob, Amount: 980, Fee: 20, EndTime: T0 + 1000 + testExtension, Extended: true}, ev)
	assert.Equal(t, "BidPlaced", EventName(env.GetEvents()[0].Topics[0]))

	_, err = DecodeEvent(&tx.Event{Address: meter.AuctionModuleAddr, Topics: []meter.Bytes32{{1}}})
	assert.Error(t, err)
	_, err = DecodeEvent(&tx.Event{Address: alice, Topics: []meter.Bytes32{BidPlacedSig}})
	assert.Error(t, err)
}
