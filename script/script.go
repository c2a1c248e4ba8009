// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
)

var (
	ErrPatternMismatch = errors.New("script pattern mismatch")
	ErrUnknownModule   = errors.New("unknown script module")
)

type ScriptEngine struct {
	logger  *slog.Logger
	modReg  Registry
	auction *auction.Auction
}

func NewScriptEngine(minter auction.Minter) *ScriptEngine {
	se := &ScriptEngine{
		logger: slog.Default().With("pkg", "se"),
	}
	se.StartAllModules(minter)
	return se
}

func (se *ScriptEngine) StartAllModules(minter auction.Minter) {
	se.auction = ModuleAuctionInit(se, minter)
}

// Auction returns the auction module.
func (se *ScriptEngine) Auction() *auction.Auction {
	return se.auction
}

// HandleScriptData dispatches pattern-prefixed script data to its module.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte, to *meter.Address) (*setypes.ScriptEngineOutput, error) {
	if !IsScriptData(data) {
		n := len(ScriptPattern)
		if len(data) < n {
			n = len(data)
		}
		se.logger.Debug("pattern mismatch", "pattern", hex.EncodeToString(data[:n]))
		return nil, ErrPatternMismatch
	}
	script, err := DecodeScriptData(data[len(ScriptPattern):])
	if err != nil {
		se.logger.Error("decode script data failed", "err", err)
		return nil, err
	}

	header := script.Header
	mod, find := se.modReg.Find(header.GetModID())
	if !find {
		return nil, fmt.Errorf("%w: %v", ErrUnknownModule, header.GetModID())
	}
	se.logger.Debug("script header", "version", header.GetVersion(), "module", mod.Name())

	return mod.modHandler(senv, script.Payload, to)
}

// EncodeScriptData wraps a module body into script data.
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modID uint32
	switch body.(type) {
	case auction.AuctionBody, *auction.AuctionBody:
		modID = AUCTION_MODULE_ID
	default:
		return nil, errors.New("unrecognized body")
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, err
	}
	return new(Builder).SetVersion(0).SetModID(modID).SetPayload(payload).Encode()
}
