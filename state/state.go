// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/stackedmap"
)

// State manages accounts and their storage on top of a kv store.
// All writes are journaled and only reach the store through Stage().Commit().
type State struct {
	kv       kv.GetPutter
	cache    *rawCache
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
	err      error
	setError func(err error)
}

type storageKey struct {
	addr meter.Address
	key  meter.Bytes32
}

// New create an state object.
func New(kv kv.GetPutter) *State {
	return newState(kv, nil)
}

func newState(kv kv.GetPutter, cache *rawCache) *State {
	state := State{
		kv:    kv,
		cache: cache,
	}
	state.setError = func(err error) {
		if state.err == nil {
			state.err = err
		}
	}
	state.sm = stackedmap.New(func(key interface{}) (value interface{}, exist bool) {
		return state.cacheGetter(key)
	})
	return &state
}

// implements stackedmap.MapGetter
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool) {
	switch k := key.(type) {
	case meter.Address:
		raw, err := s.load(accountKey(k))
		if err != nil {
			s.setError(err)
			return emptyAccount(), true
		}
		acc, err := decodeAccount(raw)
		if err != nil {
			s.setError(err)
			return emptyAccount(), true
		}
		return acc, true
	case storageKey:
		raw, err := s.load(storageDBKey(k.addr, k.key))
		if err != nil {
			s.setError(err)
			return rlp.RawValue(nil), true
		}
		return rlp.RawValue(raw), true
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) load(key []byte) ([]byte, error) {
	if s.cache != nil {
		if v, ok := s.cache.get(key); ok {
			return v, nil
		}
	}
	v, err := s.kv.Get(key)
	if err != nil {
		if !s.kv.IsNotFound(err) {
			return nil, err
		}
		v = nil
	}
	if s.cache != nil {
		s.cache.add(key, v)
	}
	return v, nil
}

func (s *State) getAccount(addr meter.Address) *Account {
	v, _ := s.sm.Get(addr)
	return v.(*Account)
}

func (s *State) getAccountCopy(addr meter.Address) Account {
	acc := s.getAccount(addr)
	return Account{Balance: new(big.Int).Set(acc.Balance), Nonce: acc.Nonce}
}

func (s *State) updateAccount(addr meter.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr meter.Address) *big.Int {
	return new(big.Int).Set(s.getAccount(addr).Balance)
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr meter.Address, balance *big.Int) {
	cpy := s.getAccountCopy(addr)
	cpy.Balance = new(big.Int).Set(balance)
	s.updateAccount(addr, &cpy)
}

// SubBalance stub.
func (s *State) SubBalance(addr meter.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}
	cpy := s.getAccountCopy(addr)
	if cpy.Balance.Cmp(amount) < 0 {
		return false
	}
	cpy.Balance.Sub(cpy.Balance, amount)
	s.updateAccount(addr, &cpy)
	return true
}

// AddBalance stub.
func (s *State) AddBalance(addr meter.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	cpy := s.getAccountCopy(addr)
	cpy.Balance.Add(cpy.Balance, amount)
	s.updateAccount(addr, &cpy)
}

// GetNonce returns the count of executed transactions signed by addr.
func (s *State) GetNonce(addr meter.Address) uint64 {
	return s.getAccount(addr).Nonce
}

func (s *State) SetNonce(addr meter.Address, nonce uint64) {
	cpy := s.getAccountCopy(addr)
	cpy.Nonce = nonce
	s.updateAccount(addr, &cpy)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr meter.Address, key meter.Bytes32) meter.Bytes32 {
	raw := s.GetRawStorage(addr, key)
	if len(raw) == 0 {
		return meter.Bytes32{}
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		s.setError(err)
		return meter.Bytes32{}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return meter.Blake2b(raw)
	}
	return meter.BytesToBytes32(content)
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr meter.Address, key, value meter.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, err := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr meter.Address, key meter.Bytes32) rlp.RawValue {
	data, _ := s.sm.Get(storageKey{addr, key})
	return data.(rlp.RawValue)
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr meter.Address, key meter.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.Address, key meter.Bytes32, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.Address, key meter.Bytes32, dec func([]byte) error) {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		s.setError(err)
	}
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// changes builds the latest value of every touched key via the journal.
func (s *State) changes() (map[string][]byte, error) {
	changes := make(map[string][]byte)
	s.sm.Journal(func(k, v interface{}) bool {
		switch key := k.(type) {
		case meter.Address:
			raw, err := encodeAccount(v.(*Account))
			if err != nil {
				s.setError(err)
				return false
			}
			changes[string(accountKey(key))] = raw
		case storageKey:
			changes[string(storageDBKey(key.addr, key.key))] = v.(rlp.RawValue)
		}
		// abort if error occurred
		return s.err == nil
	})
	return changes, s.err
}

// Stage makes a stage object to compute the change digest or commit the state.
func (s *State) Stage() *Stage {
	changes, err := s.changes()
	if err != nil {
		return &Stage{err: err}
	}
	return newStage(s.kv, s.cache, changes)
}
