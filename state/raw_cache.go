// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

// rawCache keeps committed raw values, shared by all states spawned from one creator.
type rawCache struct {
	cache *lru.Cache
}

func newRawCache(size int) *rawCache {
	if size <= 0 {
		return nil
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil
	}
	return &rawCache{cache: cache}
}

func (c *rawCache) get(key []byte) ([]byte, bool) {
	if v, ok := c.cache.Get(string(key)); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (c *rawCache) add(key []byte, val []byte) {
	c.cache.Add(string(key), append([]byte(nil), val...))
}

func (c *rawCache) Len() int {
	return c.cache.Len()
}
