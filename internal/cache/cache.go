// Package cache provides a bounded memoization cache with hit/miss counters.
//
// A cache is safe for concurrent use. The bounded mode is backed by an LRU,
// the unbounded mode by a locked map. Reconfiguration is done by swapping
// whole cache instances, so a cache itself never needs to be resized.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ghettovoice/gourl/internal/syncutil"
)

// Unbounded is the bound value disabling eviction.
const Unbounded = -1

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	// Bound is the configured capacity, [Unbounded] when eviction is disabled.
	Bound int
	// Size is the current number of stored entries.
	Size int
}

// Cache memoizes string results of a pure computation keyed by exact input text.
type Cache struct {
	bound  int
	lru    *lru.Cache[string, string]
	m      *syncutil.RWMap[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache with the given bound.
// A non-positive bound produces an unbounded cache.
func New(bound int) *Cache {
	if bound <= 0 {
		return &Cache{bound: Unbounded, m: &syncutil.RWMap[string, string]{}}
	}
	l, _ := lru.New[string, string](bound)
	return &Cache{bound: bound, lru: l}
}

func (c *Cache) Get(key string) (string, bool) {
	var (
		v  string
		ok bool
	)
	if c.lru != nil {
		v, ok = c.lru.Get(key)
	} else {
		v, ok = c.m.Get(key)
	}
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *Cache) Add(key, val string) {
	if c.lru != nil {
		c.lru.Add(key, val)
		return
	}
	c.m.Set(key, val)
}

// GetOrCompute returns the memoized value for key, calling fn on a miss.
// Errors are returned as is and never cached.
func (c *Cache) GetOrCompute(key string, fn func() (string, error)) (string, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return "", err //errtrace:skip
	}
	c.Add(key, v)
	return v, nil
}

// Purge drops all entries and resets the hit/miss counters.
func (c *Cache) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	} else {
		c.m.Clear()
	}
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Cache) Len() int {
	if c.lru != nil {
		return c.lru.Len()
	}
	return c.m.Len()
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Bound:  c.bound,
		Size:   c.Len(),
	}
}
