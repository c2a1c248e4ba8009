// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/meterio/meter-auction/builtin/minter"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// Builtin module bindings.
var (
	Params = &paramsContract{meter.ParamsModuleAddr}
	Minter = &minterContract{meter.MinterModuleAddr}
)

type (
	paramsContract struct{ Address meter.Address }
	minterContract struct{ Address meter.Address }
)

func (p *paramsContract) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (m *minterContract) Native(state *state.State) *minter.Minter {
	return minter.New(m.Address, state)
}
