// Package cache provides a process-wide TTL memoization layer for read
// endpoints. Entries are keyed by endpoint name plus the raw query string and
// expire after a fixed duration; any mutation clears whole caches through an
// invalidation Group.
package cache

import (
	"context"
	"sync"
	"time"
)

// Durations used by the API: listing endpoints cache longer than the
// dashboard, and a background sweep bounds memory from keys that are never
// looked up again.
const (
	ListTTL       = 5 * time.Minute
	DashboardTTL  = 2 * time.Minute
	SweepInterval = 10 * time.Minute
)

type entry struct {
	payload    interface{}
	insertedAt time.Time
}

// Stats holds the hit/miss counters of a cache.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache is a time-bounded memoization map. The zero value is not usable;
// construct with New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	stats   Stats
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithClock creates a cache with a caller-controlled clock. Used by tests
// to step time explicitly.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Key builds the cache key for an endpoint and its raw query string. The
// query string is used exactly as the client sent it, so parameter order
// matters: logically identical requests with reordered parameters occupy
// separate entries.
func Key(endpoint, rawQuery string) string {
	if rawQuery == "" {
		return endpoint
	}
	return endpoint + "?" + rawQuery
}

// Get returns the cached payload if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.payload, true
}

// Set stores a payload under the key, stamped with the current time.
func (c *Cache) Set(key string, payload interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, insertedAt: c.now()}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Sweep removes expired entries. Returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Group fans invalidation and sweeping out to a set of caches. Mutating
// endpoints call Clear on the group so that no read endpoint can serve a
// pre-write payload.
type Group struct {
	caches []*Cache
}

// NewGroup builds a group over the given caches.
func NewGroup(caches ...*Cache) *Group {
	return &Group{caches: caches}
}

// Clear drops every entry in every cache of the group.
func (g *Group) Clear() {
	for _, c := range g.caches {
		c.Clear()
	}
}

// Sweep removes expired entries from every cache of the group.
func (g *Group) Sweep() int {
	removed := 0
	for _, c := range g.caches {
		removed += c.Sweep()
	}
	return removed
}

// StartSweeper sweeps the group at the given interval until the context is
// cancelled.
func (g *Group) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Sweep()
			}
		}
	}()
}
