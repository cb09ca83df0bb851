package gourl

import (
	"github.com/ghettovoice/gourl/internal/hostport"
)

// Unbounded disables eviction for a cache when used as a [CacheConfig] size.
const Unbounded = -1

// CacheInfo is a point-in-time snapshot of one memoization cache.
type CacheInfo struct {
	Hits   int64
	Misses int64
	// Bound is the configured capacity, [Unbounded] when eviction is disabled.
	Bound int
	// Size is the current number of stored entries.
	Size int
}

// CacheConfig sets the capacities of the process-wide host encoding caches.
// A zero size keeps the default capacity of 256 entries, [Unbounded] disables
// eviction.
type CacheConfig struct {
	// IDNAEncodeSize bounds the Unicode to ASCII hostname cache.
	IDNAEncodeSize int
	// IDNADecodeSize bounds the ASCII to Unicode hostname cache.
	IDNADecodeSize int
	// HostEncodeSize bounds the whole-host encoding cache.
	HostEncodeSize int

	// Deprecated: the IP address and host validation caches were merged into
	// the host encoding cache. The value is folded into HostEncodeSize.
	IPAddressSize int
	// Deprecated: see IPAddressSize.
	HostValidateSize int
}

// ConfigureCaches replaces the process-wide caches with freshly sized ones.
// Entries and counters accumulated so far are discarded. In-flight operations
// keep using the cache set they started with.
func ConfigureCaches(cfg CacheConfig) {
	hostEncode := cfg.HostEncodeSize
	for _, legacy := range []int{cfg.IPAddressSize, cfg.HostValidateSize} {
		if legacy == 0 {
			continue
		}
		logger.Warn("gourl: IPAddressSize and HostValidateSize are deprecated, use HostEncodeSize")
		hostEncode = foldBound(hostEncode, legacy)
	}

	hostport.Install(hostport.NewCaches(
		resolveBound(cfg.IDNAEncodeSize),
		resolveBound(cfg.IDNADecodeSize),
		resolveBound(hostEncode),
	))
}

// foldBound merges two requested bounds, the roomier one wins and unbounded
// beats any finite bound.
func foldBound(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return max(a, b)
}

func resolveBound(size int) int {
	switch {
	case size == 0:
		return hostport.DefaultCacheBound
	case size < 0:
		return Unbounded
	}
	return size
}

// CacheStats reports the counters of every process-wide cache keyed by cache
// name: "idna-encode", "idna-decode" and "host-encode".
func CacheStats() map[string]CacheInfo {
	stats := hostport.Default().Stats()
	out := make(map[string]CacheInfo, len(stats))
	for name, s := range stats {
		out[name] = CacheInfo{Hits: s.Hits, Misses: s.Misses, Bound: s.Bound, Size: s.Size}
	}
	return out
}

// ClearCaches drops all entries and resets all counters of the process-wide
// caches, keeping their configured bounds.
func ClearCaches() {
	hostport.Default().Clear()
}
