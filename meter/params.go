// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"math/big"
)

// Constants of the auction house.
const (
	// FeeDenominator is the unit fee rates are expressed in (per-mille).
	FeeDenominator uint64 = 1000
	// MaxFeeRate bounds buyer and seller fee rates.
	MaxFeeRate uint64 = FeeDenominator

	MaxListingIDLength = 128

	DefaultSnipingWindow uint64 = 5 * 60
	DefaultTimeExtension uint64 = 5 * 60

	// MaxLatestBids caps the page size of latest-bids queries.
	MaxLatestBids = 100
)

// Module accounts. Their balances and storage hold all auction state.
var (
	// 0x61756374696f6e2d6d6f64756c652d61646472
	AuctionModuleAddr = BytesToAddress([]byte("auction-module-addr"))
	ParamsModuleAddr  = BytesToAddress([]byte("params-module-addr"))
	MinterModuleAddr  = BytesToAddress([]byte("minter-module-addr"))
)

// Keys of governance params.
var (
	KeyFeeRecipient       = BytesToBytes32([]byte("fee-recipient"))
	KeyBuyerFeeRate       = BytesToBytes32([]byte("buyer-fee-rate"))
	KeySellerFeeRate      = BytesToBytes32([]byte("seller-fee-rate"))
	KeySnipingWindow      = BytesToBytes32([]byte("sniping-window"))
	KeyTimeExtension      = BytesToBytes32([]byte("time-extension"))
	KeyNFTContract        = BytesToBytes32([]byte("nft-contract"))
	KeySettlementContract = BytesToBytes32([]byte("settlement-contract"))
	KeyAuthority          = BytesToBytes32([]byte("authority"))
)

// Initial values of governance params.
var (
	InitialBuyerFeeRate  = big.NewInt(20)
	InitialSellerFeeRate = big.NewInt(50)
	InitialSnipingWindow = new(big.Int).SetUint64(DefaultSnipingWindow)
	InitialTimeExtension = new(big.Int).SetUint64(DefaultTimeExtension)
)
