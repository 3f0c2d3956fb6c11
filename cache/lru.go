// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the LRU cache backing read paths that refetch the
// same rows, such as the message feed fan-out.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is an LRU cache with hit/miss accounting.
type LRU struct {
	cache *lru.Cache

	hit, miss atomic.Int64
	rateFlag  atomic.Int32
}

// NewLRU creates an LRU cache instance.
// maxSize should be > 0, or an error is returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: cache}, nil
}

// Get looks up the value for key, counting the lookup.
func (l *LRU) Get(key interface{}) (interface{}, bool) {
	v, ok := l.cache.Get(key)
	if ok {
		l.hit.Add(1)
	} else {
		l.miss.Add(1)
	}
	return v, ok
}

// Add adds a value to the cache.
func (l *LRU) Add(key, value interface{}) {
	l.cache.Add(key, value)
}

// Remove removes the key from the cache.
func (l *LRU) Remove(key interface{}) {
	l.cache.Remove(key)
}

// Len returns the number of cached entries.
func (l *LRU) Len() int {
	return l.cache.Len()
}

// Loader defines the loader to load the value on a miss.
type Loader func(key interface{}) (interface{}, error)

// GetOrLoad first tries to get from the cache, and loads on a miss.
// A loaded value is cached for later gets.
func (l *LRU) GetOrLoad(key interface{}, loader Loader) (interface{}, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.cache.Add(key, v)
	return v, nil
}

// Stats returns hits and misses, and whether the hit rate moved since the
// last call, so callers can log rate changes only.
func (l *LRU) Stats() (bool, int64, int64) {
	hit := l.hit.Load()
	miss := l.miss.Load()
	lookups := hit + miss

	hitRate := float64(0)
	if lookups > 0 {
		hitRate = float64(hit) / float64(lookups)
	}
	flag := int32(hitRate * 1000)

	return l.rateFlag.Swap(flag) != flag, hit, miss
}
