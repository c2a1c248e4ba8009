// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/pkg/errors"

	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

var errNoFeeRecipient = errors.New("fee recipient not configured")

// handleEnd settles an expired listing: it pays the owner and the fee
// recipient out of escrow and mints the token to the winner. Transfers happen
// before the mint; any failure leaves the listing unsettled.
func (a *Auction) handleEnd(env *setypes.ScriptEnv, ab *AuctionBody) error {
	st := env.GetState()

	auc, err := getAuction(st, ab.ListingID)
	if err != nil {
		return err
	}
	if env.GetTime() < auc.EndTime {
		return ErrAuctionNotYetExpired
	}
	if auc.Ended {
		return ErrAlreadyEnded
	}
	if !auc.HasBids() {
		return ErrNoBids
	}

	settings := builtin.Params.Native(st).Settings()
	payout, err := ComputePayout(auc, settings.SellerFeeRate)
	if err != nil {
		return err
	}

	auc.Ended = true
	if auc.IsPooled() {
		for _, bidder := range auc.Bidders {
			st.SetEscrow(auc.ListingID, bidder, &meter.BalanceEntry{})
		}
	} else {
		st.SetEscrow(auc.ListingID, auc.HighestBidder, &meter.BalanceEntry{})
	}
	st.SetAuction(auc)
	reclassify(st, auc)

	if err := env.TransferFromAuction(auc.Owner, payout.OwnerEarnings); err != nil {
		return external(ErrTransferFailed, err)
	}
	if payout.Fee > 0 {
		if settings.FeeRecipient.IsZero() {
			return external(ErrTransferFailed, errNoFeeRecipient)
		}
		if err := env.TransferFromAuction(settings.FeeRecipient, payout.Fee); err != nil {
			return external(ErrTransferFailed, err)
		}
	}

	metadata, err := BuildMetadata(auc.ListingID, auc.HighestBid, auc.WinTime, auc.Owner, settings.SettlementContract)
	if err != nil {
		return err
	}
	tokenID, err := a.minter.Mint(env, auc.HighestBidder, auc.ListingID, metadata, auc.Owner, auc.HighestBid, ab.Hook)
	if err != nil {
		return external(ErrMintingFailed, err)
	}
	auc.TokenID = tokenID
	st.SetAuction(auc)

	a.logger.Info("auction ended", "listing", auc.ListingID, "winner", auc.HighestBidder, "amount", auc.HighestBid,
		"owner", payout.OwnerEarnings, "fee", payout.Fee, "token", tokenID.AbbrevString())
	emit(env, AuctionEndedSig, auc.ListingID, &auc.HighestBidder, &AuctionEnded{
		ListingID:     auc.ListingID,
		Winner:        auc.HighestBidder,
		Amount:        auc.HighestBid,
		OwnerEarnings: payout.OwnerEarnings,
		Fee:           payout.Fee,
		TokenID:       tokenID,
	})
	env.SetReturnData(tokenID.Bytes())
	return nil
}
