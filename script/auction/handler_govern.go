// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

func (a *Auction) handlePause(env *setypes.ScriptEnv, ab *AuctionBody) error {
	st := env.GetState()
	auc, err := getAuction(st, ab.ListingID)
	if err != nil {
		return err
	}
	if auc.Ended {
		return ErrAlreadyEnded
	}
	auc.Paused = ab.Paused
	st.SetAuction(auc)

	a.logger.Info("listing pause changed", "listing", auc.ListingID, "paused", auc.Paused)
	emit(env, ListingPausedSig, auc.ListingID, nil, &ListingPaused{
		ListingID: auc.ListingID,
		Paused:    auc.Paused,
	})
	return nil
}

// handleGovern updates registry-wide parameters. The caller has already been
// checked against the authority.
func (a *Auction) handleGovern(env *setypes.ScriptEnv, ab *AuctionBody) error {
	p := builtin.Params.Native(env.GetState())

	switch ab.Opcode {
	case meter.OP_SET_FEES:
		if ab.BuyerFee > meter.MaxFeeRate || ab.SellerFee > meter.MaxFeeRate {
			return ErrInvalidFeeRate
		}
		p.SetUint64(meter.KeyBuyerFeeRate, ab.BuyerFee)
		p.SetUint64(meter.KeySellerFeeRate, ab.SellerFee)
		a.logger.Info("fees updated", "buyer", ab.BuyerFee, "seller", ab.SellerFee)

	case meter.OP_SET_TIMING:
		p.SetUint64(meter.KeySnipingWindow, ab.Window)
		p.SetUint64(meter.KeyTimeExtension, ab.Extension)
		a.logger.Info("timing updated", "window", meter.PrettySeconds(ab.Window), "extension", meter.PrettySeconds(ab.Extension))

	default:
		var key meter.Bytes32
		switch ab.Opcode {
		case meter.OP_SET_FEE_RECIPIENT:
			key = meter.KeyFeeRecipient
		case meter.OP_SET_NFT_CONTRACT:
			key = meter.KeyNFTContract
		case meter.OP_SET_SETTLEMENT_CONTRACT:
			key = meter.KeySettlementContract
		case meter.OP_SET_AUTHORITY:
			key = meter.KeyAuthority
		default:
			return ErrUnknownOpcode
		}
		if ab.Address.IsZero() {
			return ErrInvalidAddress
		}
		p.SetAddress(key, ab.Address)
		a.logger.Info("param updated", "op", ab.GetOpName(ab.Opcode), "address", ab.Address)
	}
	return nil
}
