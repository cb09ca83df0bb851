package gourl

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
)

// Builder assembles a URL from named components. Set* calls chain; Build
// validates the combination and produces the value. Passing a whole
// authority and any of its sub-components to the same builder is an error,
// as is passing both a structured query and a query string.
type Builder struct {
	scheme      string
	authority   string
	user        string
	password    string
	host        string
	port        int
	path        string
	query       Query
	queryString string
	fragment    string
	encoded     bool

	hasAuthority   bool
	hasUser        bool
	hasPassword    bool
	hasHost        bool
	hasPort        bool
	hasQuery       bool
	hasQueryString bool
}

// NewBuilder returns an empty URL builder.
func NewBuilder() *Builder {
	return &Builder{port: hostport.NoPort}
}

func (b *Builder) SetScheme(scheme string) *Builder {
	b.scheme = scheme
	return b
}

// SetAuthority sets the whole user:password@host:port component at once.
// Mutually exclusive with SetUser, SetPassword, SetHost and SetPort.
func (b *Builder) SetAuthority(authority string) *Builder {
	b.authority = authority
	b.hasAuthority = true
	return b
}

func (b *Builder) SetUser(user string) *Builder {
	b.user = user
	b.hasUser = true
	return b
}

func (b *Builder) SetPassword(password string) *Builder {
	b.password = password
	b.hasPassword = true
	return b
}

func (b *Builder) SetHost(host string) *Builder {
	b.host = host
	b.hasHost = true
	return b
}

func (b *Builder) SetPort(port int) *Builder {
	b.port = port
	b.hasPort = true
	return b
}

func (b *Builder) SetPath(path string) *Builder {
	b.path = path
	return b
}

// SetQuery sets the query from a structured [Query] value.
// Mutually exclusive with SetQueryString.
func (b *Builder) SetQuery(q Query) *Builder {
	b.query = q
	b.hasQuery = true
	return b
}

func (b *Builder) SetQueryString(q string) *Builder {
	b.queryString = q
	b.hasQueryString = true
	return b
}

func (b *Builder) SetFragment(fragment string) *Builder {
	b.fragment = fragment
	return b
}

// SetEncoded asserts all textual inputs are already valid percent-encoded
// ASCII: Build skips component encoding and keeps them as given.
func (b *Builder) SetEncoded(encoded bool) *Builder {
	b.encoded = encoded
	return b
}

func (b *Builder) Build() (*URL, error) {
	if b.hasAuthority && (b.hasUser || b.hasPassword || b.hasHost || b.hasPort) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrExclusiveFields,
			"authority and its sub-components"))
	}
	if b.hasQuery && b.hasQueryString {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrExclusiveFields,
			"query and query string"))
	}

	authority, err := b.buildAuthority()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	scheme := strings.ToLower(b.scheme)
	if scheme != "" && !isSchemeName(scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadScheme, "%q", scheme))
	}
	if authority == "" && schemeRequiresHost(scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrHostRequired, "scheme %q", scheme))
	}

	path := b.path
	if !b.encoded {
		path = grammar.Quote(path, pathQuote)
	}
	if authority != "" {
		if path != "" && path[0] != '/' {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadPath, "%q", path))
		}
		path = pathutil.NormalizeIfDotty(path)
	}

	query, err := b.buildQuery()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	fragment := b.fragment
	if !b.encoded {
		fragment = grammar.Quote(fragment, fragQuote)
	}

	return newURL(scheme, authority, path, query, fragment), nil
}

func (b *Builder) buildAuthority() (string, error) {
	if b.hasAuthority {
		if b.authority == "" {
			return "", nil
		}
		if b.encoded {
			if _, err := hostport.Split(b.authority); err != nil {
				return "", errtrace.Wrap(err)
			}
			return b.authority, nil
		}
		a, err := hostport.Split(b.authority)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		a.Host, err = hostport.EncodeHost(a.Host, true)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		a.User = grammar.Quote(a.User, userRequote)
		a.Password = grammar.Quote(a.Password, userRequote)
		return a.String(), nil
	}

	if !b.hasHost || b.host == "" {
		if b.hasPort {
			return "", errtrace.Wrap(ErrPortWithoutHost)
		}
		if b.hasUser || b.hasPassword {
			return "", errtrace.Wrap(errorutil.NewWrapperError(ErrHostRequired, "user info without a host"))
		}
		return "", nil
	}

	a := hostport.Authority{Port: hostport.NoPort}
	var err error
	if b.encoded {
		a.Host = b.host
	} else if a.Host, err = hostport.EncodeHost(b.host, true); err != nil {
		return "", errtrace.Wrap(err)
	}
	if b.hasPort {
		if b.port < 0 || b.port > 65535 {
			return "", errtrace.Wrap(errorutil.NewWrapperError(hostport.ErrInvalidPort, "%d", b.port))
		}
		a.Port = b.port
	}
	if b.hasUser {
		a.User, a.HasUser = b.user, true
		if !b.encoded {
			a.User = grammar.Quote(b.user, userQuote)
		}
	}
	if b.hasPassword {
		a.Password, a.HasUser, a.HasPassword = b.password, true, true
		if !b.encoded {
			a.Password = grammar.Quote(b.password, userQuote)
		}
	}
	return a.String(), nil
}

func (b *Builder) buildQuery() (string, error) {
	switch {
	case b.hasQuery:
		if b.query == nil {
			return "", nil
		}
		return errtrace.Wrap2(b.query.encode())
	case b.hasQueryString:
		if b.encoded {
			return b.queryString, nil
		}
		return grammar.Quote(b.queryString, queryRequote), nil
	}
	return "", nil
}
