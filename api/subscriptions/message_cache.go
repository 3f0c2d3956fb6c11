// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/cache"
	"github.com/whoosh-bridge/whoosh/metrics"
)

// messageCache shares marshaled messages between concurrent subscribers so
// each journal row is encoded once.
type messageCache struct {
	cache *cache.LRU
	mu    sync.RWMutex
}

func newMessageCache(cacheSize uint32) *messageCache {
	if cacheSize > 1000 {
		cacheSize = 1000
	}
	if cacheSize == 0 {
		cacheSize = 1
	}
	c, err := cache.NewLRU(int(cacheSize))
	if err != nil {
		// NewLRU only fails for sizes less than 1
		panic(fmt.Errorf("failed to create message cache: %v", err))
	}
	return &messageCache{
		cache: c,
	}
}

// GetOrAdd returns the marshaled message at seq, generating and adding it to
// the cache on a miss. The second return value indicates whether the message
// is newly generated. Concurrent callers for the same seq share a single
// generation.
func (mc *messageCache) GetOrAdd(seq bridgedb.Sequence, createMessage func() ([]byte, error)) ([]byte, bool, error) {
	key := strconv.FormatInt(int64(seq), 10)
	mc.mu.RLock()
	msg, ok := mc.cache.Get(key)
	mc.mu.RUnlock()
	if ok {
		mc.publishStats()
		return msg.([]byte), false, nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	msg, ok = mc.cache.Get(key)
	if ok {
		return msg.([]byte), false, nil
	}

	m, err := createMessage()
	if err != nil {
		return nil, false, err
	}
	mc.cache.Add(key, m)
	return m, true, nil
}

// publishStats pushes hit and miss counts to the gauge whenever the hit rate
// has moved.
func (mc *messageCache) publishStats() {
	if metrics.NoOp() {
		return
	}
	if changed, hit, miss := mc.cache.Stats(); changed {
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": "message", "event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": "message", "event": "miss"})
	}
}
