// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Transferrer moves native value between accounts within the enclosing tx.
type Transferrer interface {
	Transfer(env *ScriptEnv, from, to meter.Address, amount uint64) error
}

// StateTransferrer moves balances held in state.
type StateTransferrer struct{}

func (StateTransferrer) Transfer(env *ScriptEnv, from, to meter.Address, amount uint64) error {
	return moveBalance(env.GetState(), from, to, amount)
}

func moveBalance(st *state.State, from, to meter.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	value := new(big.Int).SetUint64(amount)
	if !st.SubBalance(from, value) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, needs %v", from, st.GetBalance(from), value)
	}
	st.AddBalance(to, value)
	return nil
}

// Transfer moves amount from one account to another and records the transfer.
func (env *ScriptEnv) Transfer(from, to meter.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := env.transferrer.Transfer(env, from, to, amount); err != nil {
		return err
	}
	log.Debug("transfer", "from", from, "to", to, "amount", amount)
	env.AddTransfer(from, to, new(big.Int).SetUint64(amount))
	return nil
}

// TransferToAuction moves a bid into escrow.
func (env *ScriptEnv) TransferToAuction(addr meter.Address, amount uint64) error {
	return env.Transfer(addr, meter.AuctionModuleAddr, amount)
}

// TransferFromAuction releases escrow to addr.
func (env *ScriptEnv) TransferFromAuction(addr meter.Address, amount uint64) error {
	return env.Transfer(meter.AuctionModuleAddr, addr, amount)
}
