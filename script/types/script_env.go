// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"log/slog"
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
)

var log = slog.Default().With("pkg", "se")

// ScriptEnv is what a module handler sees while executing one tx: the state it
// mutates, the tx context, and the transfers and events it produced so far.
type ScriptEnv struct {
	state       *state.State
	txCtx       *xenv.TransactionContext
	toAddr      *meter.Address
	transferrer Transferrer

	returnData []byte
	transfers  []*tx.Transfer
	events     []*tx.Event
}

func NewScriptEnv(state *state.State, txCtx *xenv.TransactionContext, to *meter.Address) *ScriptEnv {
	return &ScriptEnv{
		state:       state,
		txCtx:       txCtx,
		toAddr:      to,
		transferrer: StateTransferrer{},
		returnData:  make([]byte, 0),
		transfers:   make([]*tx.Transfer, 0),
		events:      make([]*tx.Event, 0),
	}
}

// WithTransferrer replaces the value transfer primitive.
func (env *ScriptEnv) WithTransferrer(t Transferrer) *ScriptEnv {
	env.transferrer = t
	return env
}

func (env *ScriptEnv) GetState() *state.State             { return env.state }
func (env *ScriptEnv) GetTxCtx() *xenv.TransactionContext { return env.txCtx }
func (env *ScriptEnv) GetToAddr() *meter.Address          { return env.toAddr }
func (env *ScriptEnv) GetTime() uint64                    { return env.txCtx.Time }

func (env *ScriptEnv) SetReturnData(data []byte) {
	env.returnData = data
}
func (env *ScriptEnv) GetReturnData() []byte {
	if len(env.returnData) == 0 {
		return nil
	}
	return env.returnData
}

func (env *ScriptEnv) AddTransfer(sender, recipient meter.Address, amount *big.Int) {
	env.transfers = append(env.transfers, &tx.Transfer{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})
}

func (env *ScriptEnv) AddEvent(address meter.Address, topics []meter.Bytes32, data []byte) {
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  topics,
		Data:    data,
	})
}

func (env *ScriptEnv) GetTransfers() tx.Transfers {
	return env.transfers
}

func (env *ScriptEnv) GetEvents() tx.Events {
	return env.events
}

// Mark returns the current lengths of the transfer and event logs.
func (env *ScriptEnv) Mark() (int, int) {
	return len(env.transfers), len(env.events)
}

// Rewind drops transfers and events recorded after the given mark.
func (env *ScriptEnv) Rewind(transfers, events int) {
	env.transfers = env.transfers[:transfers]
	env.events = env.events[:events]
}

func (env *ScriptEnv) GetOutput() *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:      env.GetReturnData(),
		transfers: env.transfers,
		events:    env.events,
	}
}
