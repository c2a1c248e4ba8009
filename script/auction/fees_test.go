// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math"
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFee(t *testing.T) {
	fee, err := ComputeFee(1000, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), fee)

	fee, err = ComputeFee(980, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(49), fee)

	// floors
	fee, err = ComputeFee(999, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fee)

	// no intermediate overflow
	fee, err = ComputeFee(math.MaxUint64, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), fee)

	_, err = ComputeFee(1, 1001)
	assert.Equal(t, ErrInvalidFeeRate, err)
}

func TestSplitBid(t *testing.T) {
	net, fee, err := SplitBid(1000, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(980), net)
	assert.Equal(t, uint64(20), fee)

	net, fee, err = SplitBid(1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), net)
	assert.Equal(t, uint64(1000), fee)
}

func TestComputePayout(t *testing.T) {
	a := &meter.Auction{HighestBid: 980, TotalAmount: 2000, FeesAccrued: 30}
	p, err := ComputePayout(a, 50)
	require.NoError(t, err)
	assert.Equal(t, &Payout{Consumed: 980, SellerFee: 49, OwnerEarnings: 931, Fee: 79}, p)
	assert.Equal(t, uint64(1010), p.Total())

	a.Mode = meter.PooledSettlement
	p, err = ComputePayout(a, 50)
	require.NoError(t, err)
	assert.Equal(t, &Payout{Consumed: 2000, SellerFee: 100, OwnerEarnings: 1900, Fee: 130}, p)

	a.FeesAccrued = math.MaxUint64
	_, err = ComputePayout(a, 50)
	assert.Equal(t, ErrArithmeticOverflow, err)

	a.Mode = 9
	_, err = ComputePayout(a, 50)
	assert.Equal(t, ErrInvalidMode, err)
}

func TestBuildMetadata(t *testing.T) {
	seller := meter.MustParseAddress("0x00000000000000000000000000000000000000aa")
	minter := meter.MustParseAddress("0x00000000000000000000000000000000000000bb")

	md, err := BuildMetadata("L1", 980, 1234, seller, minter)
	require.NoError(t, err)
	assert.Equal(t, "listing_id:L1, amount:980, time:1234, seller:0x00000000000000000000000000000000000000aa, minter:0x00000000000000000000000000000000000000bb", md)

	_, err = BuildMetadata("L1", 980, 1234, meter.Address{}, minter)
	assert.Equal(t, ErrInvalidSeller, err)
	_, err = BuildMetadata("L1", 980, 1234, seller, meter.Address{})
	assert.Equal(t, ErrInvalidPaymentContract, err)
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrUnknownListing))
	assert.Equal(t, KindPrecondition, KindOf(ErrNoBids))
	assert.Equal(t, KindValidation, KindOf(ErrInvalidFeeRate))
	assert.Equal(t, KindArithmetic, KindOf(ErrArithmeticOverflow))
	assert.Equal(t, KindExternal, KindOf(external(ErrMintingFailed, ErrNoBids)))
	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
	assert.Equal(t, "external", KindExternal.String())
}
