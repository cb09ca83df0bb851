package gourl_test

import (
	"testing"

	"github.com/ghettovoice/gourl"
)

// The cache tests reconfigure process-wide state and therefore run
// sequentially, before any parallel test body starts.

func TestConfigureCaches(t *testing.T) {
	defer gourl.ConfigureCaches(gourl.CacheConfig{})

	gourl.ConfigureCaches(gourl.CacheConfig{
		IDNAEncodeSize: 16,
		HostEncodeSize: gourl.Unbounded,
	})

	stats := gourl.CacheStats()
	if len(stats) != 3 {
		t.Fatalf("gourl.CacheStats() has %d entries, want 3: %v", len(stats), stats)
	}
	if got := stats["idna-encode"].Bound; got != 16 {
		t.Errorf("idna-encode bound = %d, want 16", got)
	}
	if got := stats["idna-decode"].Bound; got != 256 {
		t.Errorf("idna-decode bound = %d, want default 256", got)
	}
	if got := stats["host-encode"].Bound; got != gourl.Unbounded {
		t.Errorf("host-encode bound = %d, want %d", got, gourl.Unbounded)
	}
}

func TestConfigureCaches_legacyKnobs(t *testing.T) {
	defer gourl.ConfigureCaches(gourl.CacheConfig{})

	// Legacy sizes fold into the host-encode bound, the roomier one wins.
	gourl.ConfigureCaches(gourl.CacheConfig{
		HostEncodeSize:   300,
		IPAddressSize:    512,
		HostValidateSize: 100,
	})
	if got := gourl.CacheStats()["host-encode"].Bound; got != 512 {
		t.Errorf("host-encode bound = %d, want 512", got)
	}

	// Unbounded beats any finite legacy bound.
	gourl.ConfigureCaches(gourl.CacheConfig{
		HostEncodeSize: gourl.Unbounded,
		IPAddressSize:  512,
	})
	if got := gourl.CacheStats()["host-encode"].Bound; got != gourl.Unbounded {
		t.Errorf("host-encode bound = %d, want %d", got, gourl.Unbounded)
	}
}

func TestCacheStats_counters(t *testing.T) {
	gourl.ClearCaches()

	gourl.MustParse("http://counters.example/")
	gourl.MustParse("http://counters.example/other")

	he := gourl.CacheStats()["host-encode"]
	if he.Misses != 1 || he.Hits != 1 {
		t.Errorf("host-encode stats = %+v, want 1 miss then 1 hit", he)
	}
	if he.Size != 1 {
		t.Errorf("host-encode size = %d, want 1", he.Size)
	}

	gourl.ClearCaches()
	he = gourl.CacheStats()["host-encode"]
	if he.Hits != 0 || he.Misses != 0 || he.Size != 0 {
		t.Errorf("host-encode stats after ClearCaches = %+v, want zeroes", he)
	}
}

func TestConfigureCaches_discardsEntries(t *testing.T) {
	defer gourl.ConfigureCaches(gourl.CacheConfig{})

	gourl.MustParse("http://discard.example/")
	gourl.ConfigureCaches(gourl.CacheConfig{})
	if size := gourl.CacheStats()["host-encode"].Size; size != 0 {
		t.Errorf("host-encode size = %d after reconfiguration, want 0", size)
	}
}
