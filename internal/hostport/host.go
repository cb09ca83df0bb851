package hostport

import (
	"net/netip"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/util"
)

// EncodeHost canonicalizes a host for storage inside an authority.
// Results are memoized in the process-wide host-encode cache.
//
// A host ending in a digit or containing ":" is first tried as a strict
// IPv4/IPv6 literal with an optional "%zone" suffix; success yields the
// canonical compressed form. On parse failure the host falls through to
// reg-name handling: ASCII reg-names are lower-cased and, when validate is
// set, checked against the unreserved / pct-encoded / sub-delims grammar;
// non-ASCII reg-names are IDNA-encoded.
func EncodeHost(host string, validate bool) (string, error) {
	if host == "" {
		return "", nil
	}
	return errtrace.Wrap2(Default().EncodeHost(host, validate))
}

func encodeHost(host string, validate bool, caches *Caches) (string, error) {
	if c := host[len(host)-1]; c >= '0' && c <= '9' || strings.Contains(host, ":") {
		if lit, ok := parseIPLiteral(host); ok {
			return lit, nil
		}
	}

	if util.IsASCII(host) {
		if validate {
			if err := validateHost(host); err != nil {
				return "", errtrace.Wrap(err)
			}
		}
		return util.LCase(host), nil
	}

	return errtrace.Wrap2(caches.IDNAEncode(host))
}

func parseIPLiteral(host string) (string, bool) {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return "", false
	}
	return addr.String(), true
}

func validateHost(host string) error {
	for i := 0; i < len(host); i++ {
		c := host[i]
		if grammar.IsHostChar(c) {
			continue
		}
		if c == '%' && i+2 < len(host) && isHexPair(host[i+1], host[i+2]) {
			i += 2
			continue
		}
		if c == '@' || c == ':' {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHostChar,
				"%q at position %d; if the host part contains user info or port, pass the whole authority instead", c, i))
		}
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHostChar, "%q at position %d", c, i))
	}
	return nil
}

func isHexPair(a, b byte) bool {
	return isHexDigit(a) && isHexDigit(b)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// DecodeHost returns the human-readable form of an encoded host,
// reversing IDNA encoding of xn-- labels. Decode failures leave the
// host as is.
func DecodeHost(host string) string {
	if !strings.Contains(host, "xn--") {
		return host
	}
	decoded, err := Default().IDNADecode(host)
	if err != nil {
		return host
	}
	return decoded
}
