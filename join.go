package gourl

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
)

// Schemes that participate in relative reference resolution. A reference
// carrying any other scheme is treated as opaque and returned as is.
var usesRelative = map[string]bool{
	"http": true, "https": true,
	"ws": true, "wss": true,
	"ftp": true, "file": true,
	"": true,
}

// Schemes whose "//" prefix introduces an authority.
var usesNetloc = map[string]bool{
	"http": true, "https": true,
	"ws": true, "wss": true,
	"ftp": true, "file": true,
	"": true,
}

// Join resolves ref against u following RFC 3986 section 5.3. A reference
// with a different scheme, or with a scheme outside of the relative set,
// replaces u entirely. Otherwise the authority, path, query and fragment are
// inherited component-wise and merged paths are dot-segment-normalized.
func (u *URL) Join(ref *URL) (*URL, error) {
	if u == nil || ref == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}

	scheme := ref.scheme
	if scheme == "" {
		scheme = u.scheme
	}
	if ref.scheme != "" && ref.scheme != u.scheme || !usesRelative[scheme] {
		return ref.Clone(), nil
	}

	if usesNetloc[scheme] && ref.authority != "" {
		return newURL(scheme, ref.authority,
			pathutil.NormalizeIfDotty(ref.path), ref.query, ref.fragment), nil
	}

	// A reference with an empty path inherits the components it leaves empty.
	query, fragment := ref.query, ref.fragment
	if ref.path == "" {
		if query == "" {
			query = u.query
		}
		if fragment == "" {
			fragment = u.fragment
		}
		return newURL(scheme, u.authority, u.path, query, fragment), nil
	}

	path := ref.path
	if !strings.HasPrefix(path, "/") {
		path = mergePaths(u, ref.path)
	}
	return newURL(scheme, u.authority, pathutil.NormalizeIfDotty(path), query, fragment), nil
}

// mergePaths implements RFC 3986 section 5.3.3: the reference path is grafted
// onto the base path with its last segment dropped.
func mergePaths(base *URL, refPath string) string {
	if base.authority != "" && base.path == "" {
		return "/" + refPath
	}
	if i := strings.LastIndexByte(base.path, '/'); i >= 0 {
		return base.path[:i+1] + refPath
	}
	return refPath
}

// Origin returns the scheme://host:port origin of the URL with user info,
// path, query and fragment stripped. Requires an absolute URL with a scheme.
func (u *URL) Origin() (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if u.scheme == "" {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrSchemeRequired, "origin"))
	}
	if u.authority == "" {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrAbsoluteURLRequired, "origin"))
	}

	a := u.auth()
	origin := hostport.Authority{Host: a.Host, Port: a.Port}
	return newURL(u.scheme, origin.String(), "", "", ""), nil
}

// Relative returns the URL with its scheme and authority stripped, keeping
// the path, query and fragment. Requires an absolute URL.
func (u *URL) Relative() (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if u.authority == "" {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrAbsoluteURLRequired, "relative"))
	}
	return newURL("", "", u.effectivePath(), u.query, u.fragment), nil
}

// RelativePath expresses target relative to base. Both paths must share an
// anchor (both absolute or both relative) and the walk from base to target
// must not climb above the root.
func RelativePath(target, base string) (string, error) {
	return errtrace.Wrap2(pathutil.Relative(target, base))
}
