package gourl

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
	"github.com/ghettovoice/gourl/internal/syncutil"
)

// URL is an immutable URL value composed of five ASCII, already
// percent-encoded components: scheme, authority, path, query and fragment.
// The components are never mutated after construction; every With*
// operation produces a new value. Derived properties are computed at most
// once per instance and memoized.
type URL struct {
	scheme    string
	authority string
	path      string
	query     string
	fragment  string

	// Lazy derived-property cache. Writes are idempotent overwrites of pure
	// computations, so concurrent first-access races are harmless.
	derived syncutil.RWMap[string, any]
}

func newURL(scheme, authority, path, query, fragment string) *URL {
	return &URL{
		scheme:    scheme,
		authority: authority,
		path:      path,
		query:     query,
		fragment:  fragment,
	}
}

func cached[V any](u *URL, key string, fn func() V) V {
	if v, ok := u.derived.Get(key); ok {
		return v.(V) //nolint:forcetypeassert
	}
	v, _ := u.derived.GetOrSet(key, fn())
	return v.(V) //nolint:forcetypeassert
}

// Scheme returns the URL scheme, always lower-cased.
func (u *URL) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme
}

// RawAuthority returns the encoded authority component as stored.
func (u *URL) RawAuthority() string {
	if u == nil {
		return ""
	}
	return u.authority
}

// Authority returns the decoded user:password@host:port component.
func (u *URL) Authority() string {
	if u == nil {
		return ""
	}
	return cached(u, "authority", func() string {
		a := u.auth()
		a.User = grammar.Unquote(a.User, grammar.UnquoteOptions{})
		a.Password = grammar.Unquote(a.Password, grammar.UnquoteOptions{})
		a.Host = hostport.DecodeHost(a.Host)
		return a.String()
	})
}

func (u *URL) auth() hostport.Authority {
	return cached(u, "auth", func() hostport.Authority {
		// The authority was decomposed at construction time, a second
		// split of the stored text cannot fail.
		a, _ := hostport.Split(u.authority)
		return a
	})
}

// IsAbsolute reports whether the URL carries an authority.
func (u *URL) IsAbsolute() bool {
	return u != nil && u.authority != ""
}

// RawUser returns the encoded user sub-component.
// The bool result is false when the URL has no user info.
func (u *URL) RawUser() (string, bool) {
	if u == nil {
		return "", false
	}
	a := u.auth()
	return a.User, a.HasUser
}

// User returns the decoded user sub-component.
func (u *URL) User() (string, bool) {
	raw, ok := u.RawUser()
	if !ok {
		return "", false
	}
	return cached(u, "user", func() string {
		return grammar.Unquote(raw, grammar.UnquoteOptions{})
	}), true
}

// RawPassword returns the encoded password sub-component.
func (u *URL) RawPassword() (string, bool) {
	if u == nil {
		return "", false
	}
	a := u.auth()
	return a.Password, a.HasPassword
}

// Password returns the decoded password sub-component.
func (u *URL) Password() (string, bool) {
	raw, ok := u.RawPassword()
	if !ok {
		return "", false
	}
	return cached(u, "password", func() string {
		return grammar.Unquote(raw, grammar.UnquoteOptions{})
	}), true
}

// RawHost returns the host as stored: lower-cased, IDNA- and
// percent-encoded, IP literals in canonical compressed form without brackets.
func (u *URL) RawHost() string {
	if u == nil {
		return ""
	}
	return u.auth().Host
}

// Host returns the human-readable host with IDNA encoding reversed.
func (u *URL) Host() string {
	if u == nil {
		return ""
	}
	return cached(u, "host", func() string {
		return hostport.DecodeHost(u.auth().Host)
	})
}

// ExplicitPort returns the port exactly as present in the authority,
// ignoring scheme defaults.
func (u *URL) ExplicitPort() (int, bool) {
	if u == nil {
		return 0, false
	}
	a := u.auth()
	if a.Port == hostport.NoPort {
		return 0, false
	}
	return a.Port, true
}

// Port returns the explicit port when present, falling back to the default
// port of the scheme.
func (u *URL) Port() (int, bool) {
	if port, ok := u.ExplicitPort(); ok {
		return port, true
	}
	if u == nil {
		return 0, false
	}
	if port := hostport.DefaultPort(u.scheme); port != hostport.NoPort {
		return port, true
	}
	return 0, false
}

// IsDefaultPort reports whether the effective port equals the scheme default.
func (u *URL) IsDefaultPort() bool {
	port, ok := u.Port()
	return ok && port == hostport.DefaultPort(u.scheme)
}

// RawPath returns the encoded path component. A URL with an authority and no
// path reports "/".
func (u *URL) RawPath() string {
	if u == nil {
		return ""
	}
	return u.effectivePath()
}

// Path returns the decoded path component.
func (u *URL) Path() string {
	if u == nil {
		return ""
	}
	return cached(u, "path", func() string {
		return grammar.Unquote(u.effectivePath(), grammar.UnquoteOptions{})
	})
}

// effectivePath applies the empty-path-with-authority rule.
func (u *URL) effectivePath() string {
	if u.path == "" && u.authority != "" {
		return "/"
	}
	return u.path
}

// RawPathSegments returns the ordered encoded path segments. Absolute paths
// expose a synthetic leading "/" sentinel segment.
func (u *URL) RawPathSegments() []string {
	if u == nil {
		return nil
	}
	return cached(u, "rawSegments", func() []string {
		return pathutil.Split(u.effectivePath())
	})
}

// PathSegments returns the ordered decoded path segments.
func (u *URL) PathSegments() []string {
	if u == nil {
		return nil
	}
	return cached(u, "segments", func() []string {
		raw := u.RawPathSegments()
		segs := make([]string, len(raw))
		for i, s := range raw {
			segs[i] = grammar.Unquote(s, grammar.UnquoteOptions{})
		}
		return segs
	})
}

// RawName returns the encoded last path segment, "" for the root path.
func (u *URL) RawName() string {
	if u == nil {
		return ""
	}
	return cached(u, "rawName", func() string {
		return pathutil.Name(u.effectivePath())
	})
}

// Name returns the decoded last path segment.
func (u *URL) Name() string {
	if u == nil {
		return ""
	}
	return cached(u, "name", func() string {
		return grammar.Unquote(u.RawName(), grammar.UnquoteOptions{})
	})
}

// RawSuffix returns the trailing ".ext" of the encoded name.
func (u *URL) RawSuffix() string {
	return pathutil.Suffix(u.RawName())
}

// Suffix returns the trailing ".ext" of the decoded name, "" when the name
// has no extension.
func (u *URL) Suffix() string {
	return pathutil.Suffix(u.Name())
}

// Suffixes returns all dot-separated trailing extensions of the name.
func (u *URL) Suffixes() []string {
	if u == nil {
		return nil
	}
	return cached(u, "suffixes", func() []string {
		return pathutil.Suffixes(u.Name())
	})
}

// RawQuery returns the encoded query component as stored.
func (u *URL) RawQuery() string {
	if u == nil {
		return ""
	}
	return u.query
}

// QueryPairs returns the ordered decoded query pairs.
func (u *URL) QueryPairs() []Param {
	if u == nil {
		return nil
	}
	return cached(u, "queryPairs", func() []Param {
		return parseQueryPairs(u.query)
	})
}

// Query returns the decoded query as a multi-value map.
func (u *URL) Query() Values {
	if u == nil {
		return nil
	}
	return cached(u, "query", func() Values {
		pairs := u.QueryPairs()
		if len(pairs) == 0 {
			return Values{}
		}
		vals := make(Values, len(pairs))
		for _, p := range pairs {
			vals.Append(p.Key, p.Value)
		}
		return vals
	})
}

// RawFragment returns the encoded fragment component as stored.
func (u *URL) RawFragment() string {
	if u == nil {
		return ""
	}
	return u.fragment
}

// Fragment returns the decoded fragment component.
func (u *URL) Fragment() string {
	if u == nil {
		return ""
	}
	return cached(u, "fragment", func() string {
		return grammar.Unquote(u.fragment, grammar.UnquoteOptions{})
	})
}

// Clone returns a copy of the URL with a fresh derived-property cache.
func (u *URL) Clone() *URL {
	if u == nil {
		return nil
	}
	return newURL(u.scheme, u.authority, u.path, u.query, u.fragment)
}

// IsValid reports whether the URL carries at least one component.
func (u *URL) IsValid() bool {
	return u != nil &&
		(u.scheme != "" || u.authority != "" || u.path != "" || u.query != "" || u.fragment != "")
}

// Equal compares this URL with another for equality on the five-component
// tuple, treating an empty path with a non-empty authority as "/".
// A non-URL value is never equal.
func (u *URL) Equal(val any) bool {
	other, ok := val.(*URL)
	if !ok {
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return u.Compare(other) == 0
}

// Compare orders two URLs by their five-component tuples after path
// normalization. A nil URL orders before any non-nil URL.
func (u *URL) Compare(other *URL) int {
	switch {
	case u == other:
		return 0
	case u == nil:
		return -1
	case other == nil:
		return 1
	}

	if c := strings.Compare(u.scheme, other.scheme); c != 0 {
		return c
	}
	if c := strings.Compare(u.authority, other.authority); c != 0 {
		return c
	}
	if c := strings.Compare(u.effectivePath(), other.effectivePath()); c != 0 {
		return c
	}
	if c := strings.Compare(u.query, other.query); c != 0 {
		return c
	}
	return strings.Compare(u.fragment, other.fragment)
}

// Hash returns a 64-bit FNV-1a hash of the canonical component tuple.
// Equal URLs hash equally.
func (u *URL) Hash() uint64 {
	if u == nil {
		return 0
	}
	return cached(u, "hash", func() uint64 {
		h := fnv.New64a()
		for _, part := range []string{u.scheme, u.authority, u.effectivePath(), u.query, u.fragment} {
			h.Write([]byte(part)) //nolint:errcheck
			h.Write([]byte{0})    //nolint:errcheck
		}
		return h.Sum64()
	})
}

// String returns the canonical serialized form: components re-assembled with
// the scheme-default port dropped. The stored components are not mutated, and
// an empty path stays empty (the "/" equivalence applies to comparison and
// the decoded accessors only).
func (u *URL) String() string {
	if u == nil {
		return ""
	}
	return cached(u, "str", func() string { return u.render() })
}

func (u *URL) render() string {
	var sb strings.Builder
	sb.Grow(len(u.scheme) + len(u.authority) + len(u.path) + len(u.query) + len(u.fragment) + 8)

	if u.scheme != "" {
		sb.WriteString(u.scheme)
		sb.WriteByte(':')
	}
	path := u.path
	switch {
	case u.authority != "":
		sb.WriteString("//")
		sb.WriteString(u.renderAuthority())
		if path != "" && path[0] != '/' {
			sb.WriteByte('/')
		}
	case strings.HasPrefix(path, "//"):
		// An empty authority marker keeps the leading path slashes from
		// being reread as a host.
		sb.WriteString("//")
	case u.scheme != "" && usesNetloc[u.scheme] && (path == "" || path[0] == '/'):
		sb.WriteString("//")
	}
	sb.WriteString(path)
	if u.query != "" {
		sb.WriteByte('?')
		sb.WriteString(u.query)
	}
	if u.fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(u.fragment)
	}
	return sb.String()
}

func (u *URL) renderAuthority() string {
	if u.authority == "" {
		return ""
	}
	a := u.auth()
	if a.Port != hostport.NoPort && a.Port == hostport.DefaultPort(u.scheme) {
		return a.StringWithoutPort()
	}
	return a.String()
}

// HumanRepr returns a human-readable rendering with percent-encoding decoded
// in every component except for characters that would be structurally
// ambiguous in that position.
func (u *URL) HumanRepr() string {
	if u == nil {
		return ""
	}

	var sb strings.Builder
	if u.scheme != "" {
		sb.WriteString(u.scheme)
		sb.WriteByte(':')
	}
	if u.authority != "" {
		sb.WriteString("//")
		a := u.auth()
		if a.HasUser {
			sb.WriteString(humanQuote(grammar.Unquote(a.User, grammar.UnquoteOptions{}), "#/:?@[]"))
			if a.HasPassword {
				sb.WriteByte(':')
				sb.WriteString(humanQuote(grammar.Unquote(a.Password, grammar.UnquoteOptions{}), "#/:?@[]"))
			}
			sb.WriteByte('@')
		}
		host := u.Host()
		if strings.Contains(host, ":") {
			sb.WriteString("[" + host + "]")
		} else {
			sb.WriteString(host)
		}
		if port, ok := u.ExplicitPort(); ok && port != hostport.DefaultPort(u.scheme) {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(port))
		}
	}
	path := humanQuote(u.Path(), "#?")
	if u.authority != "" && path != "" && path[0] != '/' {
		sb.WriteByte('/')
	}
	sb.WriteString(path)
	if u.query != "" {
		sb.WriteByte('?')
		for i, p := range u.QueryPairs() {
			if i > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(humanQuote(p.Key, "#&+;="))
			sb.WriteByte('=')
			sb.WriteString(humanQuote(p.Value, "#&+;="))
		}
	}
	if u.fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(humanQuote(u.Fragment(), ""))
	}
	return sb.String()
}

// humanQuote re-escapes only the given unsafe bytes (and '%') in an already
// decoded component.
func humanQuote(s, unsafe string) string {
	if s == "" {
		return s
	}
	return grammar.EscapeOnly(s, "%"+unsafe)
}

// Format implements fmt.Formatter for custom formatting of the URL.
func (u *URL) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods URL
		type URL hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*URL)(u))
		return
	}
}
