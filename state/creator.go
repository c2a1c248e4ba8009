// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/meter-auction/kv"
)

// DefaultCacheSize is the number of raw values kept by a creator's cache.
const DefaultCacheSize = 4096

// Creator state creator to cut-off kv dependency.
type Creator struct {
	kv    kv.GetPutter
	cache *rawCache
}

// NewCreator create a new state creator.
func NewCreator(kv kv.GetPutter) *Creator {
	return NewCreatorWithCache(kv, DefaultCacheSize)
}

// NewCreatorWithCache creates a state creator whose states share a read cache
// of the given size. A size of zero disables caching.
func NewCreatorWithCache(kv kv.GetPutter, size int) *Creator {
	return &Creator{kv: kv, cache: newRawCache(size)}
}

// NewState create a new state object over the latest committed values.
func (c *Creator) NewState() *State {
	return newState(c.kv, c.cache)
}
