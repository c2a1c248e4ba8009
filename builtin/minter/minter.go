// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package minter records the tokens minted for settled listings.
package minter

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

var (
	ErrNoContract     = errors.New("nft contract not configured")
	ErrInvalidWinner  = errors.New("winner is the zero address")
	ErrEmptyMetadata  = errors.New("empty metadata")
	ErrWinnerMismatch = errors.New("listing already minted to another winner")
)

// Token is the record of a minted token.
type Token struct {
	ID        meter.Bytes32
	Contract  meter.Address
	ListingID meter.ListingID
	Owner     meter.Address
	Seller    meter.Address
	Amount    uint64
	Metadata  string
	Hook      []byte
}

// Minter binds the token registry held in state.
type Minter struct {
	addr  meter.Address
	state *state.State
}

func New(addr meter.Address, state *state.State) *Minter {
	return &Minter{addr, state}
}

func tokenKey(id meter.ListingID) meter.Bytes32 {
	return meter.Blake2b([]byte("token"), id.Bytes())
}

// TokenID derives the token id of a listing minted on contract.
func TokenID(contract meter.Address, id meter.ListingID) meter.Bytes32 {
	return meter.Blake2b([]byte("nft"), contract.Bytes(), id.Bytes())
}

// Get returns the token minted for listing id, nil if none.
func (m *Minter) Get(id meter.ListingID) (result *Token) {
	m.state.DecodeStorage(m.addr, tokenKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var t Token
		if err := rlp.DecodeBytes(raw, &t); err != nil {
			return err
		}
		result = &t
		return nil
	})
	return
}

// Mint records a token for the listing. Minting a listing twice to the same
// winner returns the existing token.
func (m *Minter) Mint(contract, winner meter.Address, id meter.ListingID, metadata string, seller meter.Address, amount uint64, hook []byte) (meter.Bytes32, error) {
	if contract.IsZero() {
		return meter.Bytes32{}, ErrNoContract
	}
	if winner.IsZero() {
		return meter.Bytes32{}, ErrInvalidWinner
	}
	if metadata == "" {
		return meter.Bytes32{}, ErrEmptyMetadata
	}
	if existing := m.Get(id); existing != nil {
		if existing.Owner != winner {
			return meter.Bytes32{}, ErrWinnerMismatch
		}
		return existing.ID, nil
	}

	token := &Token{
		ID:        TokenID(contract, id),
		Contract:  contract,
		ListingID: id,
		Owner:     winner,
		Seller:    seller,
		Amount:    amount,
		Metadata:  metadata,
		Hook:      hook,
	}
	m.state.EncodeStorage(m.addr, tokenKey(id), func() ([]byte, error) {
		return rlp.EncodeToBytes(token)
	})
	if err := m.state.Err(); err != nil {
		return meter.Bytes32{}, err
	}
	return token.ID, nil
}
