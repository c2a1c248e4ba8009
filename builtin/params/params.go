// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// Params binder of registry-wide parameters.
type Params struct {
	addr  meter.Address
	state *state.State
}

func New(addr meter.Address, state *state.State) *Params {
	return &Params{addr, state}
}

func (p *Params) Get(key meter.Bytes32) (value *big.Int) {
	p.state.DecodeStorage(p.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			value = &big.Int{}
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	if value == nil {
		value = &big.Int{}
	}
	return
}

func (p *Params) Set(key meter.Bytes32, value *big.Int) {
	p.state.EncodeStorage(p.addr, key, func() ([]byte, error) {
		if value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

// GetUint64 reads a param that is known to fit in 64 bits.
func (p *Params) GetUint64(key meter.Bytes32) uint64 {
	v := p.Get(key)
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}

func (p *Params) SetUint64(key meter.Bytes32, value uint64) {
	p.Set(key, new(big.Int).SetUint64(value))
}

func (p *Params) GetAddress(key meter.Bytes32) (addr meter.Address) {
	addr = meter.BytesToAddress(p.Get(key).Bytes())
	return
}

func (p *Params) SetAddress(key meter.Bytes32, addr meter.Address) {
	i := big.NewInt(0).SetBytes(addr.Bytes())
	p.Set(key, i)
}

// Settings is a snapshot of all registry-wide parameters.
type Settings struct {
	FeeRecipient       meter.Address
	BuyerFeeRate       uint64
	SellerFeeRate      uint64
	SnipingWindow      uint64
	TimeExtension      uint64
	NFTContract        meter.Address
	SettlementContract meter.Address
	Authority          meter.Address
}

// Settings loads every registry-wide parameter.
func (p *Params) Settings() *Settings {
	return &Settings{
		FeeRecipient:       p.GetAddress(meter.KeyFeeRecipient),
		BuyerFeeRate:       p.GetUint64(meter.KeyBuyerFeeRate),
		SellerFeeRate:      p.GetUint64(meter.KeySellerFeeRate),
		SnipingWindow:      p.GetUint64(meter.KeySnipingWindow),
		TimeExtension:      p.GetUint64(meter.KeyTimeExtension),
		NFTContract:        p.GetAddress(meter.KeyNFTContract),
		SettlementContract: p.GetAddress(meter.KeySettlementContract),
		Authority:          p.GetAddress(meter.KeyAuthority),
	}
}

// Apply stores every parameter of s.
func (p *Params) Apply(s *Settings) {
	p.SetAddress(meter.KeyFeeRecipient, s.FeeRecipient)
	p.SetUint64(meter.KeyBuyerFeeRate, s.BuyerFeeRate)
	p.SetUint64(meter.KeySellerFeeRate, s.SellerFeeRate)
	p.SetUint64(meter.KeySnipingWindow, s.SnipingWindow)
	p.SetUint64(meter.KeyTimeExtension, s.TimeExtension)
	p.SetAddress(meter.KeyNFTContract, s.NFTContract)
	p.SetAddress(meter.KeySettlementContract, s.SettlementContract)
	p.SetAddress(meter.KeyAuthority, s.Authority)
}
