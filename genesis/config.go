// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ParamsConfig holds the registry parameters of a genesis file.
type ParamsConfig struct {
	FeeRecipient       string `yaml:"feeRecipient"`
	BuyerFeeRate       uint64 `yaml:"buyerFeeRate"`
	SellerFeeRate      uint64 `yaml:"sellerFeeRate"`
	SnipingWindow      uint64 `yaml:"snipingWindow"`
	TimeExtension      uint64 `yaml:"timeExtension"`
	NFTContract        string `yaml:"nftContract"`
	SettlementContract string `yaml:"settlementContract"`
	Authority          string `yaml:"authority"`
}

// AccountConfig is a prefunded account.
type AccountConfig struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// Config is the yaml form of a genesis.
type Config struct {
	Name      string          `yaml:"name"`
	Timestamp uint64          `yaml:"timestamp"`
	Params    ParamsConfig    `yaml:"params"`
	Accounts  []AccountConfig `yaml:"accounts"`
}

// LoadConfig reads a yaml genesis file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes yaml genesis content.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &cfg, nil
}

func parseOptionalAddress(field, s string) (meter.Address, error) {
	if s == "" {
		return meter.Address{}, nil
	}
	addr, err := meter.ParseAddress(s)
	if err != nil {
		return meter.Address{}, errors.Wrapf(err, "params.%s", field)
	}
	return addr, nil
}

// Settings validates the params section.
func (c *ParamsConfig) Settings() (*params.Settings, error) {
	if c.BuyerFeeRate > meter.MaxFeeRate || c.SellerFeeRate > meter.MaxFeeRate {
		return nil, errors.Errorf("fee rate exceeds %d", meter.MaxFeeRate)
	}
	s := &params.Settings{
		BuyerFeeRate:  c.BuyerFeeRate,
		SellerFeeRate: c.SellerFeeRate,
		SnipingWindow: c.SnipingWindow,
		TimeExtension: c.TimeExtension,
	}
	if s.SnipingWindow == 0 {
		s.SnipingWindow = meter.DefaultSnipingWindow
	}
	if s.TimeExtension == 0 {
		s.TimeExtension = meter.DefaultTimeExtension
	}
	var err error
	if s.FeeRecipient, err = parseOptionalAddress("feeRecipient", c.FeeRecipient); err != nil {
		return nil, err
	}
	if s.NFTContract, err = parseOptionalAddress("nftContract", c.NFTContract); err != nil {
		return nil, err
	}
	if s.SettlementContract, err = parseOptionalAddress("settlementContract", c.SettlementContract); err != nil {
		return nil, err
	}
	if s.Authority, err = parseOptionalAddress("authority", c.Authority); err != nil {
		return nil, err
	}
	return s, nil
}

type allocation struct {
	addr    meter.Address
	balance *big.Int
}

func (c *Config) allocations() ([]allocation, error) {
	allocs := make([]allocation, 0, len(c.Accounts))
	for i, a := range c.Accounts {
		addr, err := meter.ParseAddress(a.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "accounts[%d].address", i)
		}
		bal, ok := new(big.Int).SetString(a.Balance, 10)
		if !ok || bal.Sign() < 0 {
			return nil, errors.Errorf("accounts[%d].balance: invalid amount %q", i, a.Balance)
		}
		allocs = append(allocs, allocation{addr, bal})
	}
	return allocs, nil
}

// NewFromConfig create genesis from a config.
func NewFromConfig(cfg *Config) (*Genesis, error) {
	settings, err := cfg.Params.Settings()
	if err != nil {
		return nil, err
	}
	allocs, err := cfg.allocations()
	if err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "custom"
	}

	builder := new(Builder).
		Timestamp(cfg.Timestamp).
		State(func(state *state.State) error {
			builtin.Params.Native(state).Apply(settings)
			for _, a := range allocs {
				state.SetBalance(a.addr, a.balance)
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name}, nil
}
