// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/meter"
)

var feeDenominator = new(big.Int).SetUint64(meter.FeeDenominator)

// ComputeFee returns floor(amount * rate / 1000).
func ComputeFee(amount, rate uint64) (uint64, error) {
	if rate > meter.MaxFeeRate {
		return 0, ErrInvalidFeeRate
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(rate))
	fee.Div(fee, feeDenominator)
	if !fee.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return fee.Uint64(), nil
}

// SplitBid splits a gross bid into the net amount credited to escrow and the
// buyer fee withheld.
func SplitBid(gross, buyerFeeRate uint64) (net uint64, fee uint64, err error) {
	if fee, err = ComputeFee(gross, buyerFeeRate); err != nil {
		return
	}
	var underflow bool
	if net, underflow = math.SafeSub(gross, fee); underflow {
		return 0, 0, ErrArithmeticUnderflow
	}
	return
}

func checkedAdd(x, y uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(x, y)
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedSub(x, y uint64) (uint64, error) {
	diff, underflow := math.SafeSub(x, y)
	if underflow {
		return 0, ErrArithmeticUnderflow
	}
	return diff, nil
}

// Payout is what settlement moves out of escrow.
type Payout struct {
	// Consumed is the escrowed bid value paid out, OwnerEarnings + SellerFee.
	Consumed      uint64
	SellerFee     uint64
	OwnerEarnings uint64
	// Fee is the total paid to the fee recipient, seller fee plus accrued buyer fees.
	Fee uint64
}

// Total returns everything leaving the escrow account.
func (p *Payout) Total() uint64 {
	return p.OwnerEarnings + p.Fee
}

// ComputePayout is the settlement arithmetic of a listing.
//
// Standard listings pay the highest bid: the seller fee is taken from it and the
// rest goes to the owner. Pooled listings pay out the whole escrowed pool, which
// already includes the highest bid, the same way. In both modes the buyer fees
// withheld at bid time are added to the fee.
func ComputePayout(a *meter.Auction, sellerFeeRate uint64) (*Payout, error) {
	var consumed uint64
	switch a.Mode {
	case meter.StandardSettlement:
		consumed = a.HighestBid
	case meter.PooledSettlement:
		consumed = a.TotalAmount
	default:
		return nil, ErrInvalidMode
	}

	sellerFee, err := ComputeFee(consumed, sellerFeeRate)
	if err != nil {
		return nil, err
	}
	earnings, err := checkedSub(consumed, sellerFee)
	if err != nil {
		return nil, err
	}
	fee, err := checkedAdd(sellerFee, a.FeesAccrued)
	if err != nil {
		return nil, err
	}
	if _, err := checkedAdd(earnings, fee); err != nil {
		return nil, err
	}
	return &Payout{
		Consumed:      consumed,
		SellerFee:     sellerFee,
		OwnerEarnings: earnings,
		Fee:           fee,
	}, nil
}
