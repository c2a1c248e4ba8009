// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// handleWithdraw releases the caller's escrow on a listing. The entry is
// zeroed before the funds leave escrow.
func (a *Auction) handleWithdraw(env *setypes.ScriptEnv, ab *AuctionBody) error {
	st := env.GetState()
	caller := env.GetTxCtx().Origin
	recipient := orDefault(ab.Recipient, caller)

	auc, err := getAuction(st, ab.ListingID)
	if err != nil {
		return err
	}
	if auc.IsPooled() {
		return ErrAlienAuctionWithdrawalForbidden
	}
	if auc.IsLeader(caller) {
		return ErrCannotWithdrawWhileLeading
	}
	entry := st.GetEscrow(auc.ListingID, caller)
	if entry.IsEmpty() {
		return ErrNoFundsToWithdraw
	}
	amount := entry.Amount

	total, err := checkedSub(auc.TotalAmount, amount)
	if err != nil {
		return err
	}
	st.SetEscrow(auc.ListingID, caller, &meter.BalanceEntry{})
	auc.TotalAmount = total
	st.SetAuction(auc)

	if err := env.TransferFromAuction(recipient, amount); err != nil {
		return external(ErrTransferFailed, err)
	}

	a.logger.Info("escrow withdrawn", "listing", auc.ListingID, "bidder", caller, "recipient", recipient, "amount", amount)
	emit(env, WithdrawnSig, auc.ListingID, &caller, &Withdrawn{
		ListingID: auc.ListingID,
		Bidder:    caller,
		Recipient: recipient,
		Amount:    amount,
	})
	data, err := rlp.EncodeToBytes(&amount)
	if err != nil {
		return err
	}
	env.SetReturnData(data)
	return nil
}
