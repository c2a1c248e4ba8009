// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap is a map with revisions. Values put after a Push can be
// dropped again with PopTo.
package stackedmap

// MapGetter defines getter method of map.
type MapGetter func(key interface{}) (value interface{}, exist bool)

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap struct {
	src        MapGetter
	mapStack   []level
	keyRevhits map[interface{}][]int
}

type level struct {
	kvs     map[interface{}]interface{}
	journal []*journalEntry
}

type journalEntry struct {
	key   interface{}
	value interface{}
}

func newLevel() level {
	return level{kvs: make(map[interface{}]interface{})}
}

// New create an instance of StackedMap.
// src acts as source of data.
func New(src MapGetter) *StackedMap {
	return &StackedMap{
		src:        src,
		mapStack:   []level{newLevel()},
		keyRevhits: make(map[interface{}][]int),
	}
}

// Depth returns depth of stack.
func (sm *StackedMap) Depth() int {
	return len(sm.mapStack)
}

// Push pushes a new map on stack.
// It returns stack depth before push.
func (sm *StackedMap) Push() int {
	sm.mapStack = append(sm.mapStack, newLevel())
	return len(sm.mapStack) - 1
}

// Pop pops a map from stack.
func (sm *StackedMap) Pop() {
	sm.PopTo(len(sm.mapStack) - 1)
}

// PopTo pops maps until stack depth reaches depth.
func (sm *StackedMap) PopTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	for len(sm.mapStack) > depth {
		top := len(sm.mapStack) - 1
		for key := range sm.mapStack[top].kvs {
			revs := sm.keyRevhits[key]
			if n := len(revs); n > 0 && revs[n-1] == top {
				revs = revs[:n-1]
			}
			if len(revs) == 0 {
				delete(sm.keyRevhits, key)
			} else {
				sm.keyRevhits[key] = revs
			}
		}
		sm.mapStack = sm.mapStack[:top]
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap) Get(key interface{}) (interface{}, bool) {
	if revs, ok := sm.keyRevhits[key]; ok && len(revs) > 0 {
		return sm.mapStack[revs[len(revs)-1]].kvs[key], true
	}
	if sm.src != nil {
		return sm.src(key)
	}
	return nil, false
}

// Put puts key value into map at stack top.
func (sm *StackedMap) Put(key, value interface{}) {
	top := len(sm.mapStack) - 1
	lvl := sm.mapStack[top]
	if _, ok := lvl.kvs[key]; !ok {
		sm.keyRevhits[key] = append(sm.keyRevhits[key], top)
	}
	lvl.kvs[key] = value
	sm.mapStack[top].journal = append(lvl.journal, &journalEntry{key: key, value: value})
}

// Journal traverses journal entries of all levels in order of putting.
// Return false from cb to stop.
func (sm *StackedMap) Journal(cb func(key, value interface{}) bool) {
	for _, lvl := range sm.mapStack {
		for _, entry := range lvl.journal {
			if !cb(entry.key, entry.value) {
				return
			}
		}
	}
}
