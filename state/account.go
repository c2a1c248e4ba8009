// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Account is the persisted representation of an account.
type Account struct {
	Balance *big.Int
	Nonce   uint64
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && a.Nonce == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

func accountKey(addr meter.Address) []byte {
	return append([]byte("a"), addr[:]...)
}

func storageDBKey(addr meter.Address, key meter.Bytes32) []byte {
	k := make([]byte, 0, 1+meter.AddressLength+32)
	k = append(k, 's')
	k = append(k, addr[:]...)
	return append(k, key[:]...)
}

// decodeAccount decodes raw account data, an absent value yields an empty account.
func decodeAccount(raw []byte) (*Account, error) {
	if len(raw) == 0 {
		return emptyAccount(), nil
	}
	var a Account
	if err := rlp.DecodeBytes(raw, &a); err != nil {
		return nil, err
	}
	if a.Balance == nil {
		a.Balance = &big.Int{}
	}
	return &a, nil
}

func encodeAccount(a *Account) ([]byte, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(a)
}
