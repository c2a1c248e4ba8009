// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// Minter mints the token of a settled listing to its winner.
type Minter interface {
	Mint(env *setypes.ScriptEnv, winner meter.Address, id meter.ListingID, metadata string, seller meter.Address, amount uint64, hook []byte) (meter.Bytes32, error)
}

// MinterFunc adapts a function to Minter.
type MinterFunc func(env *setypes.ScriptEnv, winner meter.Address, id meter.ListingID, metadata string, seller meter.Address, amount uint64, hook []byte) (meter.Bytes32, error)

func (f MinterFunc) Mint(env *setypes.ScriptEnv, winner meter.Address, id meter.ListingID, metadata string, seller meter.Address, amount uint64, hook []byte) (meter.Bytes32, error) {
	return f(env, winner, id, metadata, seller, amount, hook)
}

// BuiltinMinter mints through the builtin minter module on the configured NFT
// contract.
type BuiltinMinter struct{}

func (BuiltinMinter) Mint(env *setypes.ScriptEnv, winner meter.Address, id meter.ListingID, metadata string, seller meter.Address, amount uint64, hook []byte) (meter.Bytes32, error) {
	st := env.GetState()
	contract := builtin.Params.Native(st).GetAddress(meter.KeyNFTContract)
	return builtin.Minter.Native(st).Mint(contract, winner, id, metadata, seller, amount, hook)
}
