package gourl

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
)

// Per-component quoting profiles. The *Requote variants re-interpret
// existing triplets and are used on input that may already carry
// percent-encoding; the plain variants encode trusted decoded text.
var (
	userQuote    = grammar.QuoteOptions{}
	userRequote  = grammar.QuoteOptions{Requote: true}
	pathQuote    = grammar.QuoteOptions{Safe: "@:", Protected: "/+"}
	pathRequote  = grammar.QuoteOptions{Safe: "@:", Protected: "/+", Requote: true}
	queryRequote = grammar.QuoteOptions{Safe: "?/:@", Protected: "=+&;", QS: true, Requote: true}
	queryQuote   = grammar.QuoteOptions{Safe: "?/:@", QS: true}
	fragQuote    = grammar.QuoteOptions{Safe: "?/:@"}
	fragRequote  = grammar.QuoteOptions{Safe: "?/:@", Protected: "#", Requote: true}
)

// Parse parses a URL from raw human text (string or []byte): the input is
// split into its five components and each component is requoted and
// validated. The path is dot-segment-normalized when an authority is present.
func Parse[T ~string | ~[]byte](s T) (*URL, error) {
	scheme, authority, path, query, fragment := splitURL(string(s))

	if authority != "" {
		a, err := hostport.Split(authority)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		a.Host, err = hostport.EncodeHost(a.Host, true)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		a.User = grammar.Quote(a.User, userRequote)
		a.Password = grammar.Quote(a.Password, userRequote)
		authority = a.String()
	}

	path = grammar.Quote(path, pathRequote)
	if authority != "" {
		path = pathutil.NormalizeIfDotty(path)
	}
	query = grammar.Quote(query, queryRequote)
	fragment = grammar.Quote(fragment, fragRequote)

	return newURL(scheme, authority, path, query, fragment), nil
}

// ParseEncoded parses a URL whose text is already valid percent-encoded
// ASCII (trusted construction): only structural splitting is performed, no
// requoting or normalization. The caller is responsible for the encoding
// guarantee.
func ParseEncoded[T ~string | ~[]byte](s T) (*URL, error) {
	scheme, authority, path, query, fragment := splitURL(string(s))

	if authority != "" {
		// Structural decomposition only, still catches a malformed port.
		if _, err := hostport.Split(authority); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return newURL(scheme, authority, path, query, fragment), nil
}

// MustParse is a [Parse] variant that panics on a malformed input.
func MustParse[T ~string | ~[]byte](s T) *URL {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// splitURL decomposes raw URL text into its five components.
// The scheme is lower-cased, everything else is left untouched.
func splitURL(s string) (scheme, authority, path, query, fragment string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, fragment = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s, query = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i > 0 && isSchemeName(s[:i]) {
		scheme, s = strings.ToLower(s[:i]), s[i+1:]
	}
	if strings.HasPrefix(s, "//") {
		rest := s[2:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			authority, path = rest[:j], rest[j:]
		} else {
			authority = rest
		}
	} else {
		path = s
	}
	return scheme, authority, path, query, fragment
}

func isSchemeName(s string) bool {
	if s == "" || !grammar.IsAlphanumChar(s[0]) || s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !grammar.IsSchemeChar(s[i]) {
			return false
		}
	}
	return true
}
