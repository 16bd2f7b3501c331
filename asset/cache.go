// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"container/list"
	"hash/fnv"
	"sync"
)

// Cache defaults.
const (
	// shardCount spreads lock contention. Power of 2 for mask selection.
	shardCount = 8
	shardMask  = shardCount - 1

	// defaultShardCapacity is the maximum entries per shard.
	defaultShardCapacity = 64
)

// cache is a sharded LRU keyed by asset name. Loads happening off the
// frame loop (a streaming thread, tests running in parallel) stay safe;
// hits move the entry to the front of its shard's LRU list.
type cache[V any] struct {
	shards   [shardCount]*cacheShard[V]
	capacity int
}

type cacheShard[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recent; values are *cacheEntry[V]
}

type cacheEntry[V any] struct {
	key   string
	value V
}

func newCache[V any](capacity int) *cache[V] {
	if capacity <= 0 {
		capacity = defaultShardCapacity
	}
	c := &cache[V]{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &cacheShard[V]{
			entries: make(map[string]*list.Element),
			lru:     list.New(),
		}
	}
	return c
}

func (c *cache[V]) shard(key string) *cacheShard[V] {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv.Write never returns an error
	return c.shards[h.Sum64()&shardMask]
}

// get returns the cached value and whether it was present.
func (c *cache[V]) get(key string) (V, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(el)
	return el.Value.(*cacheEntry[V]).value, true
}

// put stores a value, evicting the oldest entries past capacity.
// The value is stored as-is, not copied.
func (c *cache[V]) put(key string, value V) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		el.Value.(*cacheEntry[V]).value = value
		s.lru.MoveToFront(el)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry[V]).key)
	}
	s.entries[key] = s.lru.PushFront(&cacheEntry[V]{key: key, value: value})
}
