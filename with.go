package gourl

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
)

// WithScheme returns a new URL with the scheme replaced.
// The scheme is stored lower-cased. Replacing the scheme of a URL without an
// authority by a scheme with authority semantics is a value error.
func (u *URL) WithScheme(scheme string) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	scheme = strings.ToLower(scheme)
	if scheme != "" && !isSchemeName(scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadScheme, "%q", scheme))
	}
	if u.authority == "" && schemeRequiresHost(scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrHostRequired, "scheme %q", scheme))
	}
	return newURL(scheme, u.authority, u.path, u.query, u.fragment), nil
}

// WithUser returns a new URL with the user sub-component replaced.
// The user is percent-encoded. Requires an absolute URL.
func (u *URL) WithUser(user string) (*URL, error) {
	a, err := u.authForUpdate("user")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	a.User = grammar.Quote(user, userQuote)
	a.HasUser = true
	return u.withAuthority(a), nil
}

// WithoutUser returns a new URL with the user and password removed.
func (u *URL) WithoutUser() (*URL, error) {
	a, err := u.authForUpdate("user")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	a.User, a.Password, a.HasUser, a.HasPassword = "", "", false, false
	return u.withAuthority(a), nil
}

// WithPassword returns a new URL with the password sub-component replaced.
// The password is percent-encoded. Requires an absolute URL.
func (u *URL) WithPassword(password string) (*URL, error) {
	a, err := u.authForUpdate("password")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	a.Password = grammar.Quote(password, userQuote)
	a.HasUser = true
	a.HasPassword = true
	return u.withAuthority(a), nil
}

// WithoutPassword returns a new URL with the password removed.
func (u *URL) WithoutPassword() (*URL, error) {
	a, err := u.authForUpdate("password")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	a.Password, a.HasPassword = "", false
	return u.withAuthority(a), nil
}

// WithHost returns a new URL with the host replaced. The host is validated
// and encoded. Removing the host entirely is a value error, as is replacing
// the host of a relative URL.
func (u *URL) WithHost(host string) (*URL, error) {
	a, err := u.authForUpdate("host")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if host == "" {
		return nil, errtrace.Wrap(ErrHostRemove)
	}
	a.Host, err = hostport.EncodeHost(host, true)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return u.withAuthority(a), nil
}

// WithPort returns a new URL with the explicit port replaced.
// Setting a port on a URL without a host is a value error.
func (u *URL) WithPort(port int) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if u.authority == "" {
		return nil, errtrace.Wrap(ErrPortWithoutHost)
	}
	if port < 0 || port > 65535 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(hostport.ErrInvalidPort, "%d", port))
	}
	a := u.auth()
	a.Port = port
	return u.withAuthority(a), nil
}

// WithoutPort returns a new URL with the explicit port removed.
func (u *URL) WithoutPort() (*URL, error) {
	a, err := u.authForUpdate("port")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	a.Port = hostport.NoPort
	return u.withAuthority(a), nil
}

// WithPath returns a new URL with the path replaced by the percent-encoded
// form of path and the query and fragment cleared. On a URL with an
// authority the path must start with a slash.
func (u *URL) WithPath(path string) (*URL, error) {
	return errtrace.Wrap2(u.withPath(path, false))
}

// WithEncodedPath is a [URL.WithPath] variant for an already percent-encoded
// path; existing triplets are kept, only stray unsafe bytes are escaped.
func (u *URL) WithEncodedPath(path string) (*URL, error) {
	return errtrace.Wrap2(u.withPath(path, true))
}

func (u *URL) withPath(path string, encoded bool) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	opts := pathQuote
	if encoded {
		opts = pathRequote
	}
	path = grammar.Quote(path, opts)
	if u.authority != "" && path != "" && path[0] != '/' {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadPath, "%q", path))
	}
	return newURL(u.scheme, u.authority, path, "", ""), nil
}

// WithFragment returns a new URL with the fragment replaced by the
// percent-encoded form of fragment.
func (u *URL) WithFragment(fragment string) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	return newURL(u.scheme, u.authority, u.path, u.query, grammar.Quote(fragment, fragQuote)), nil
}

// WithoutFragment returns a new URL with the fragment removed.
func (u *URL) WithoutFragment() *URL {
	if u == nil {
		return nil
	}
	return newURL(u.scheme, u.authority, u.path, u.query, "")
}

// WithName returns a new URL with the last path segment replaced and the
// query and fragment cleared. The name must not contain "/" and must not be
// "." or "..".
func (u *URL) WithName(name string) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if strings.Contains(name, "/") {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadName, "%q contains a slash", name))
	}
	if name == "." || name == ".." {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadName, "%q", name))
	}
	return u.withRawName(grammar.Quote(name, pathQuote)), nil
}

func (u *URL) withRawName(rawName string) *URL {
	path := u.effectivePath()
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[:i+1] + rawName
	} else {
		path = rawName
	}
	return newURL(u.scheme, u.authority, path, "", "")
}

// WithSuffix returns a new URL with the name suffix replaced and the query
// and fragment cleared. A non-empty suffix must start with a dot; an empty
// suffix removes the current one. A URL with an empty name has no suffix to
// replace.
func (u *URL) WithSuffix(suffix string) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if suffix != "" && (!strings.HasPrefix(suffix, ".") || suffix == "." || strings.Contains(suffix, "/")) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadSuffix, "%q", suffix))
	}
	name := u.RawName()
	if name == "" {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadName, "URL has an empty name"))
	}
	old := pathutil.Suffix(name)
	return u.withRawName(name[:len(name)-len(old)] + grammar.Quote(suffix, pathQuote)), nil
}

// Parent returns a new URL with the last path segment dropped and the query
// and fragment cleared. The parent of a root path is the root itself.
func (u *URL) Parent() *URL {
	if u == nil {
		return nil
	}
	path := u.effectivePath()
	switch {
	case path == "" || path == "/":
		// Fixed point at root.
	default:
		i := strings.LastIndexByte(path, '/')
		switch {
		case i < 0:
			path = ""
		case i == 0:
			path = "/"
		default:
			path = path[:i]
		}
	}
	return newURL(u.scheme, u.authority, path, "", "")
}

// JoinPath returns a new URL with the segments percent-encoded and appended
// to the path, and the query and fragment cleared. A segment starting with a
// slash is rejected. A trailing empty segment of the current path is dropped
// before appending and the result is dot-segment-normalized.
func (u *URL) JoinPath(segments ...string) (*URL, error) {
	return errtrace.Wrap2(u.joinPath(segments, false))
}

// JoinPathEncoded is a [URL.JoinPath] variant asserting the segments are
// already percent-encoded.
func (u *URL) JoinPathEncoded(segments ...string) (*URL, error) {
	return errtrace.Wrap2(u.joinPath(segments, true))
}

func (u *URL) joinPath(segments []string, encoded bool) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		if strings.HasPrefix(seg, "/") {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadSegment, "%q", seg))
		}
		if encoded {
			parts[i] = seg
		} else {
			parts[i] = grammar.Quote(seg, pathQuote)
		}
	}

	path := u.path
	if len(parts) > 0 {
		appended := strings.Join(parts, "/")
		switch {
		case path == "":
			path = appended
		case strings.HasSuffix(path, "/"):
			path += appended
		default:
			path += "/" + appended
		}
	}
	if u.authority != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = pathutil.NormalizeIfDotty(path)
	return newURL(u.scheme, u.authority, path, "", ""), nil
}

func (u *URL) authForUpdate(what string) (hostport.Authority, error) {
	if u == nil {
		return hostport.Authority{}, errtrace.Wrap(ErrNilURL)
	}
	if u.authority == "" {
		return hostport.Authority{}, errtrace.Wrap(errorutil.NewWrapperError(ErrAbsoluteURLRequired,
			"%s replacement is not allowed for relative URLs", what))
	}
	return u.auth(), nil
}

func (u *URL) withAuthority(a hostport.Authority) *URL {
	return newURL(u.scheme, a.String(), u.path, u.query, u.fragment)
}

func schemeRequiresHost(scheme string) bool {
	switch scheme {
	case "http", "https", "ws", "wss", "ftp":
		return true
	}
	return false
}
