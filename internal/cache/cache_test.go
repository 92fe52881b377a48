package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock is a manually stepped clock for expiry tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCache_GetSet(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)

	_, ok := c.Get("shipments")
	assert.False(t, ok)

	c.Set("shipments", "payload")
	got, ok := c.Get("shipments")
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestCache_Expiry(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)

	c.Set("shipments", "payload")

	clock.Advance(4 * time.Minute)
	_, ok := c.Get("shipments")
	assert.True(t, ok, "entry should still be fresh before the TTL")

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("shipments")
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestCache_Clear(t *testing.T) {
	c := New(5 * time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Sweep(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)

	c.Set("old", 1)
	clock.Advance(3 * time.Minute)
	c.Set("fresh", 2)
	clock.Advance(3 * time.Minute)

	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestCache_Stats(t *testing.T) {
	c := New(5 * time.Minute)
	c.Set("k", 1)

	c.Get("k")
	c.Get("k")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestKey_ParameterOrderMatters(t *testing.T) {
	// Keys keep the caller-supplied parameter order: logically identical
	// requests with reordered parameters are distinct entries.
	a := Key("shipments", "status=pending&page=2")
	b := Key("shipments", "page=2&status=pending")
	assert.NotEqual(t, a, b)

	assert.Equal(t, "dashboard:stats", Key("dashboard:stats", ""))
	assert.Equal(t, "shipments?status=pending", Key("shipments", "status=pending"))
}

func TestGroup_ClearFansOut(t *testing.T) {
	list := New(5 * time.Minute)
	dashboard := New(2 * time.Minute)
	group := NewGroup(list, dashboard)

	list.Set("shipments", "old")
	dashboard.Set("dashboard:stats", "old")

	// A mutation clears every cache, so no read can serve a pre-write
	// payload.
	group.Clear()

	_, ok := list.Get("shipments")
	assert.False(t, ok)
	_, ok = dashboard.Get("dashboard:stats")
	assert.False(t, ok)
}

func TestGroup_Sweep(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	list := NewWithClock(5*time.Minute, clock.Now)
	dashboard := NewWithClock(2*time.Minute, clock.Now)
	group := NewGroup(list, dashboard)

	list.Set("a", 1)
	dashboard.Set("b", 2)

	clock.Advance(3 * time.Minute)
	removed := group.Sweep()
	assert.Equal(t, 1, removed, "only the dashboard entry should have expired")

	clock.Advance(3 * time.Minute)
	removed = group.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, list.Len()+dashboard.Len())
}
