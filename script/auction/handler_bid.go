// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// handleInit creates a listing and, unless the seed bid is skipped, places
// the seed bid paid by the caller. A seed paid by the owner is a self bid.
func (a *Auction) handleInit(env *setypes.ScriptEnv, ab *AuctionBody) error {
	st := env.GetState()
	caller := env.GetTxCtx().Origin
	owner := orDefault(ab.Owner, caller)

	auc, err := createListing(st, ab.ListingID, ab.Minimum, ab.EndTime, env.GetTime(), owner, ab.Mode)
	if err != nil {
		return err
	}
	a.logger.Info("listing created", "listing", auc.ListingID, "owner", owner, "minimum", auc.MinimumBid,
		"end", auc.EndTime, "mode", auc.Mode)
	emit(env, AuctionInitializedSig, auc.ListingID, &owner, &AuctionInitialized{
		ListingID: auc.ListingID,
		Owner:     owner,
		Minimum:   auc.MinimumBid,
		EndTime:   auc.EndTime,
		Mode:      auc.Mode,
	})
	env.SetReturnData(auc.ListingID.Bytes())

	seedBidder := orDefault(ab.Bidder, caller)
	if ab.Amount == 0 || seedBidder == owner {
		a.logger.Debug("seed bid skipped", "listing", auc.ListingID, "bidder", seedBidder, "amount", ab.Amount)
		return nil
	}
	_, err = a.placeBid(env, auc.ListingID, seedBidder, caller, ab.Amount)
	return err
}

func (a *Auction) handleBid(env *setypes.ScriptEnv, ab *AuctionBody) error {
	caller := env.GetTxCtx().Origin
	auc, err := a.placeBid(env, ab.ListingID, orDefault(ab.Bidder, caller), caller, ab.Amount)
	if err != nil {
		return err
	}
	data, err := rlp.EncodeToBytes(&auc.HighestBid)
	if err != nil {
		return err
	}
	env.SetReturnData(data)
	return nil
}

// placeBid credits a bid of gross to bidder, paid by payer.
//
// The buyer fee is withheld from the gross amount and the net amount is added
// to the bidder's escrow. The bidder takes the lead only when its cumulative
// escrow strictly exceeds the highest bid, so ties keep the earlier leader.
// A bid inside the sniping window pushes the end time out by the time extension.
func (a *Auction) placeBid(env *setypes.ScriptEnv, id meter.ListingID, bidder, payer meter.Address, gross uint64) (*meter.Auction, error) {
	st := env.GetState()
	now := env.GetTime()

	auc, err := getAuction(st, id)
	if err != nil {
		return nil, err
	}
	if bidder == auc.Owner || payer == auc.Owner {
		return nil, ErrSelfBid
	}
	if auc.Ended {
		return nil, ErrAuctionClosed
	}
	if auc.Paused {
		return nil, ErrAuctionPaused
	}
	if now > auc.EndTime {
		return nil, ErrAuctionExpired
	}
	if gross == 0 {
		return nil, ErrZeroBid
	}

	settings := builtin.Params.Native(st).Settings()
	net, fee, err := SplitBid(gross, settings.BuyerFeeRate)
	if err != nil {
		return nil, err
	}

	entry := st.GetEscrow(id, bidder)
	cumulative, err := checkedAdd(entry.Amount, net)
	if err != nil {
		return nil, err
	}
	if cumulative <= auc.MinimumBid {
		return nil, ErrBidBelowMinimum
	}

	endTime := auc.EndTime
	var threshold uint64
	if endTime > settings.SnipingWindow {
		threshold = endTime - settings.SnipingWindow
	}
	if now >= threshold {
		if endTime, err = checkedAdd(endTime, settings.TimeExtension); err != nil {
			return nil, err
		}
	}
	total, err := checkedAdd(auc.TotalAmount, net)
	if err != nil {
		return nil, err
	}
	fees, err := checkedAdd(auc.FeesAccrued, fee)
	if err != nil {
		return nil, err
	}

	extended := endTime != auc.EndTime
	auc.EndTime = endTime
	auc.TotalAmount = total
	auc.FeesAccrued = fees
	if cumulative > auc.HighestBid {
		auc.HighestBid = cumulative
		auc.HighestBidder = bidder
		auc.WinTime = now
	}
	auc.AddBid(meter.NewBid(env.GetTxCtx().ID, bidder, net, now))
	st.SetAuction(auc)
	st.SetEscrow(id, bidder, &meter.BalanceEntry{Amount: cumulative, LastBidTime: now})
	trackBidder(st, bidder, id)

	if err := env.TransferToAuction(payer, gross); err != nil {
		return nil, external(ErrTransferFailed, err)
	}

	if extended {
		a.logger.Info("auction extended", "listing", id, "end", endTime)
	}
	a.logger.Debug("bid placed", "listing", id, "bidder", bidder, "net", net, "fee", fee,
		"leader", auc.HighestBidder, "highest", auc.HighestBid)
	emit(env, BidPlacedSig, id, &bidder, &BidPlaced{
		ListingID: id,
		Bidder:    bidder,
		Amount:    net,
		Fee:       fee,
		EndTime:   endTime,
		Extended:  extended,
	})
	return auc, nil
}
