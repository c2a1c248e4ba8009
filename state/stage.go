// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"log/slog"
	"sort"
	"time"

	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
)

// Stage abstracts changes on the state.
type Stage struct {
	err error

	kv    kv.GetPutter
	cache *rawCache
	keys  [][]byte
	vals  [][]byte
}

func newStage(kv kv.GetPutter, cache *rawCache, changes map[string][]byte) *Stage {
	keys := make([][]byte, 0, len(changes))
	for k := range changes {
		keys = append(keys, []byte(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	vals := make([][]byte, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, changes[string(k)])
	}
	return &Stage{
		kv:    kv,
		cache: cache,
		keys:  keys,
		vals:  vals,
	}
}

// Hash computes the digest of the staged changes.
func (s *Stage) Hash() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	hw := meter.NewBlake2b()
	for i, k := range s.keys {
		hw.Write(k)
		hw.Write(s.vals[i])
	}
	var h meter.Bytes32
	hw.Sum(h[:0])
	return h, nil
}

// Len returns the number of staged keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all staged changes in one batch.
func (s *Stage) Commit() (meter.Bytes32, error) {
	start := time.Now()
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	digest, _ := s.Hash()

	batch := s.kv.NewBatch()
	for i, k := range s.keys {
		if len(s.vals[i]) == 0 {
			if err := batch.Delete(k); err != nil {
				return meter.Bytes32{}, err
			}
		} else {
			if err := batch.Put(k, s.vals[i]); err != nil {
				return meter.Bytes32{}, err
			}
		}
	}
	if err := batch.Write(); err != nil {
		return meter.Bytes32{}, err
	}
	if s.cache != nil {
		for i, k := range s.keys {
			s.cache.add(k, s.vals[i])
		}
	}
	slog.Debug("state committed", "pkg", "state", "keys", len(s.keys), "digest", digest.AbbrevString(), "elapsed", meter.PrettyDuration(time.Since(start)))
	return digest, nil
}
