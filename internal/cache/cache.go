// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a size-bounded in-memory TTL cache shared by the
// upstream adapters. It knows nothing about medical semantics; adapters
// key entries as "<adapter-prefix><term>".
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// entry is one cached value. expiresAt is always createdAt + ttl.
type entry struct {
	key          string
	value        any
	createdAt    time.Time
	expiresAt    time.Time
	lastAccessed time.Time
}

// Cache is a string-keyed TTL cache with least-recently-accessed
// eviction above a configured entry limit. Expired entries are removed
// lazily on read and proactively by the background sweep. Safe for
// concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently accessed
	maxEntries int
	sweepEvery time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// New returns a Cache configured per cfg. Zero values fall back to the
// defaults from types.DefaultConfig.
func New(cfg types.CacheConfig) *Cache {
	def := types.DefaultConfig().Cache
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: cfg.MaxEntries,
		sweepEvery: cfg.SweepInterval,
		now:        time.Now,
	}
}

// Get returns the value for key, or ok=false when the key is missing or
// expired. An expired entry is removed as a side effect of the miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeLocked(el)
		return nil, false
	}
	e.lastAccessed = c.now()
	c.order.MoveToFront(el)
	return e.value, true
}

// Set inserts or replaces the value for key with the given ttl, then
// enforces the entry limit. Non-positive ttls are rejected by dropping
// the write; an entry's expiry is always createdAt + ttl with ttl > 0.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.expiresAt = now.Add(ttl)
		e.lastAccessed = now
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry{
		key:          key,
		value:        value,
		createdAt:    now,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
	})
	c.entries[key] = el
	c.enforceLimitLocked()
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the current entry count, counting entries that have
// expired but not yet been swept or read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// EnforceLimit evicts least-recently-accessed entries until the count is
// within the configured maximum. Set calls it after every insert.
func (c *Cache) EnforceLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enforceLimitLocked()
}

// Sweep removes all currently-expired entries, independent of access
// pattern, so memory stays bounded even for keys nobody reads again.
// It returns how many entries were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeLocked(el)
			removed++
		}
		el = prev
	}
	return removed
}

// StartSweeper runs Sweep at the configured interval until ctx is
// cancelled. Call it once at service start.
func (c *Cache) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

func (c *Cache) enforceLimitLocked() {
	for len(c.entries) > c.maxEntries {
		el := c.order.Back()
		if el == nil {
			return
		}
		c.removeLocked(el)
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry).key)
}
