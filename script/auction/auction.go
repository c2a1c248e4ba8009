// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"log/slog"
	"time"

	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

var log = slog.Default().With("pkg", "auction")

// Auction is the auction house module. All listing state lives in the state
// handed over with each call.
type Auction struct {
	minter Minter
	logger *slog.Logger
}

func NewAuction(minter Minter) *Auction {
	if minter == nil {
		minter = BuiltinMinter{}
	}
	return &Auction{
		minter: minter,
		logger: slog.Default().With("pkg", "auction"),
	}
}

func (a *Auction) Start() error {
	a.logger.Info("auction module started")
	return nil
}

// Handler decodes an auction body from payload and executes it.
func (a *Auction) Handler(senv *setypes.ScriptEnv, payload []byte, to *meter.Address) (*setypes.ScriptEngineOutput, error) {
	ab, err := AuctionDecodeFromBytes(payload)
	if err != nil {
		a.logger.Error("decode auction body failed", "err", err)
		return nil, err
	}
	if err := a.Handle(senv, ab); err != nil {
		return nil, err
	}
	return senv.GetOutput(), nil
}

// Handle executes one auction operation. It either applies every effect of the
// operation or none: on error the state is reverted and the transfers and
// events recorded by the operation are dropped.
func (a *Auction) Handle(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	st := env.GetState()
	checkpoint := st.NewCheckpoint()
	transfers, events := env.Mark()
	start := time.Now()

	defer func() {
		if err == nil {
			err = st.Err()
		}
		if err != nil {
			st.RevertTo(checkpoint)
			env.Rewind(transfers, events)
			env.SetReturnData(nil)
			a.logger.Debug("auction op failed", "op", ab.GetOpName(ab.Opcode), "listing", ab.ListingID, "err", err)
			return
		}
		a.logger.Debug("auction op done", "op", ab.GetOpName(ab.Opcode), "listing", ab.ListingID, "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	if meter.IsGovernOp(ab.Opcode) {
		authority := builtin.Params.Native(st).GetAddress(meter.KeyAuthority)
		if authority.IsZero() || env.GetTxCtx().Origin != authority {
			return ErrUnauthorized
		}
	}

	switch ab.Opcode {
	case meter.OP_INIT:
		err = a.handleInit(env, ab)
	case meter.OP_BID:
		err = a.handleBid(env, ab)
	case meter.OP_WITHDRAW:
		err = a.handleWithdraw(env, ab)
	case meter.OP_END:
		err = a.handleEnd(env, ab)
	case meter.OP_PAUSE:
		err = a.handlePause(env, ab)
	case meter.OP_SET_FEE_RECIPIENT, meter.OP_SET_NFT_CONTRACT, meter.OP_SET_SETTLEMENT_CONTRACT,
		meter.OP_SET_FEES, meter.OP_SET_TIMING, meter.OP_SET_AUTHORITY:
		err = a.handleGovern(env, ab)
	default:
		a.logger.Error("unknown opcode", "opcode", ab.Opcode)
		err = ErrUnknownOpcode
	}
	return
}
