// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package cache provides the in-memory caches used by Reelpick: a TTL cache
// for upstream lookups and an LRU with idle expiry for live sessions.
// Nothing here touches disk.
package cache

import (
	"sync"
	"time"
)

// EvictReason says why an LRU entry left the cache.
type EvictReason string

const (
	EvictCapacity EvictReason = "capacity"
	EvictExpired  EvictReason = "idle"
	EvictRemoved  EvictReason = "deleted"
)

type lruEntry[V any] struct {
	key       string
	value     V
	prev      *lruEntry[V]
	next      *lruEntry[V]
	expiresAt time.Time
}

// LRU is a thread-safe least recently used cache whose entries also expire
// after ttl without access. Every Get refreshes the entry's deadline.
//
// OnEvict, when set, runs after the lock is released for every entry that
// leaves the cache.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	items    map[string]*lruEntry[V]

	// head.next is the most recently used, tail.prev the least.
	head *lruEntry[V]
	tail *lruEntry[V]

	now     func() time.Time
	onEvict func(key string, value V, reason EvictReason)
}

// NewLRU creates an LRU holding at most capacity entries.
func NewLRU[V any](capacity int, ttl time.Duration, onEvict func(key string, value V, reason EvictReason)) *LRU[V] {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruEntry[V], capacity),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
		now:      time.Now,
		onEvict:  onEvict,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

type eviction[V any] struct {
	key    string
	value  V
	reason EvictReason
}

func (c *LRU[V]) notify(evicted []eviction[V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value, e.reason)
	}
}

// Get returns the value for key and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	entry, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	now := c.now()
	if now.After(entry.expiresAt) {
		c.unlink(entry)
		c.mu.Unlock()
		c.notify([]eviction[V]{{entry.key, entry.value, EvictExpired}})
		var zero V
		return zero, false
	}
	entry.expiresAt = now.Add(c.ttl)
	c.moveToFront(entry)
	c.mu.Unlock()
	return entry.value, true
}

// Add inserts or replaces key. When full, the least recently used entry is
// evicted.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	expiresAt := c.now().Add(c.ttl)

	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		c.mu.Unlock()
		return
	}

	entry := &lruEntry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	var evicted []eviction[V]
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		c.unlink(oldest)
		evicted = append(evicted, eviction[V]{oldest.key, oldest.value, EvictCapacity})
	}
	c.mu.Unlock()
	c.notify(evicted)
}

// Remove deletes key. It reports whether the key was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	entry, ok := c.items[key]
	if ok {
		c.unlink(entry)
	}
	c.mu.Unlock()
	if ok {
		c.notify([]eviction[V]{{entry.key, entry.value, EvictRemoved}})
	}
	return ok
}

// RemoveExpired drops every entry idle for longer than ttl and returns how
// many were removed.
func (c *LRU[V]) RemoveExpired() int {
	c.mu.Lock()
	now := c.now()
	var evicted []eviction[V]
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			c.unlink(entry)
			evicted = append(evicted, eviction[V]{entry.key, entry.value, EvictExpired})
		}
		entry = prev
	}
	c.mu.Unlock()
	c.notify(evicted)
	return len(evicted)
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// must be called with mu held
func (c *LRU[V]) addToFront(entry *lruEntry[V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRU[V]) moveToFront(entry *lruEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *LRU[V]) unlink(entry *lruEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev, entry.next = nil, nil
	delete(c.items, entry.key)
}
