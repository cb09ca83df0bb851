package hostport

import (
	"sync/atomic"

	"braces.dev/errtrace"
	"golang.org/x/net/idna"

	"github.com/ghettovoice/gourl/internal/cache"
	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/util"
)

// DefaultCacheBound is the default capacity of each memoization cache.
const DefaultCacheBound = 256

// Cache names as exposed by the administrative surface.
const (
	IDNAEncodeCache = "idna-encode"
	IDNADecodeCache = "idna-decode"
	HostEncodeCache = "host-encode"
)

const ErrIDNA errorutil.Error = "IDNA encoding failed"

// Caches is the capability object holding the three process-wide memoization
// caches. Instances are immutable once published; reconfiguration installs a
// fresh instance, discarding prior entries.
type Caches struct {
	idnaEncode *cache.Cache
	idnaDecode *cache.Cache
	hostEncode *cache.Cache
}

// NewCaches creates the cache set with the given bounds.
// Non-positive bounds disable eviction.
func NewCaches(idnaEncodeBound, idnaDecodeBound, hostEncodeBound int) *Caches {
	return &Caches{
		idnaEncode: cache.New(idnaEncodeBound),
		idnaDecode: cache.New(idnaDecodeBound),
		hostEncode: cache.New(hostEncodeBound),
	}
}

var defaultCaches atomic.Pointer[Caches]

func init() {
	defaultCaches.Store(NewCaches(DefaultCacheBound, DefaultCacheBound, DefaultCacheBound))
}

// Default returns the currently installed cache set.
func Default() *Caches { return defaultCaches.Load() }

// Install atomically replaces the process-wide cache set.
func Install(c *Caches) { defaultCaches.Store(c) }

// IDNAEncode converts a non-ASCII hostname to its ASCII-compatible form.
func (c *Caches) IDNAEncode(host string) (string, error) {
	return errtrace.Wrap2(c.idnaEncode.GetOrCompute(host, func() (string, error) {
		encoded, err := idna.ToASCII(util.LCase(host))
		if err != nil {
			return "", errtrace.Wrap(errorutil.NewWrapperError(ErrIDNA, err))
		}
		return encoded, nil
	}))
}

// IDNADecode converts an ASCII-compatible hostname back to its Unicode form.
func (c *Caches) IDNADecode(host string) (string, error) {
	return errtrace.Wrap2(c.idnaDecode.GetOrCompute(host, func() (string, error) {
		decoded, err := idna.ToUnicode(host)
		if err != nil {
			return "", errtrace.Wrap(errorutil.NewWrapperError(ErrIDNA, err))
		}
		return decoded, nil
	}))
}

// EncodeHost memoizes [EncodeHost] results keyed by the exact input text.
func (c *Caches) EncodeHost(host string, validate bool) (string, error) {
	key := host
	if validate {
		key = "!" + host
	}
	return errtrace.Wrap2(c.hostEncode.GetOrCompute(key, func() (string, error) {
		return errtrace.Wrap2(encodeHost(host, validate, c))
	}))
}

// Stats reports per-cache counters keyed by cache name.
func (c *Caches) Stats() map[string]cache.Stats {
	return map[string]cache.Stats{
		IDNAEncodeCache: c.idnaEncode.Stats(),
		IDNADecodeCache: c.idnaDecode.Stats(),
		HostEncodeCache: c.hostEncode.Stats(),
	}
}

// Clear drops all entries and resets all counters.
func (c *Caches) Clear() {
	c.idnaEncode.Purge()
	c.idnaDecode.Purge()
	c.hostEncode.Purge()
}
