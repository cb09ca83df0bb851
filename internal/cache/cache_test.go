package cache_test

import (
	"testing"

	"github.com/ghettovoice/gourl/internal/cache"
	"github.com/ghettovoice/gourl/internal/errorutil"
)

func TestCache_bounded(t *testing.T) {
	t.Parallel()

	c := cache.New(2)
	c.Add("a", "1")
	c.Add("b", "2")
	c.Add("c", "3") // evicts "a"

	if c.Len() != 2 {
		t.Errorf("c.Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error(`c.Get("a") ok = true, want eviction`)
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Errorf(`c.Get("c") = %q, %v, want "3", true`, v, ok)
	}

	stats := c.Stats()
	if stats.Bound != 2 {
		t.Errorf("stats.Bound = %d, want 2", stats.Bound)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss", stats)
	}
}

func TestCache_unbounded(t *testing.T) {
	t.Parallel()

	c := cache.New(cache.Unbounded)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Add(k, k)
	}
	if c.Len() != 4 {
		t.Errorf("c.Len() = %d, want 4", c.Len())
	}
	if bound := c.Stats().Bound; bound != cache.Unbounded {
		t.Errorf("stats.Bound = %d, want %d", bound, cache.Unbounded)
	}
}

func TestCache_getOrCompute(t *testing.T) {
	t.Parallel()

	c := cache.New(4)

	var calls int
	fn := func() (string, error) {
		calls++
		return "val", nil
	}
	for range 2 {
		v, err := c.GetOrCompute("key", fn)
		if err != nil {
			t.Fatalf("c.GetOrCompute error = %v", err)
		}
		if v != "val" {
			t.Fatalf(`c.GetOrCompute = %q, want "val"`, v)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestCache_errorsNotCached(t *testing.T) {
	t.Parallel()

	const errBoom errorutil.Error = "boom"

	c := cache.New(4)
	var calls int
	fn := func() (string, error) {
		calls++
		return "", errBoom
	}
	for range 2 {
		if _, err := c.GetOrCompute("key", fn); err != errBoom {
			t.Fatalf("c.GetOrCompute error = %v, want %v", err, errBoom)
		}
	}
	if calls != 2 {
		t.Errorf("compute called %d times, want 2 (errors are not cached)", calls)
	}
	if c.Len() != 0 {
		t.Errorf("c.Len() = %d, want 0", c.Len())
	}
}

func TestCache_purge(t *testing.T) {
	t.Parallel()

	c := cache.New(4)
	c.Add("a", "1")
	c.Get("a")
	c.Get("missing")

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("c.Len() = %d, want 0", c.Len())
	}
	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("stats after Purge = %+v, want zeroed counters", stats)
	}
}
