// Package hostport implements authority decomposition and host encoding:
// IP-literal detection, reg-name validation and internationalized domain
// encoding. IDNA transforms and host encoding are memoized in process-wide
// bounded caches because hostnames recur heavily across URLs sharing an
// origin.
package hostport

//go:generate go tool errtrace -w .

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
)

const (
	ErrInvalidPort        errorutil.Error = "invalid port"
	ErrAmbiguousAuthority errorutil.Error = "authority is ambiguous"
	ErrInvalidHostChar    errorutil.Error = "invalid host character"
)

// NoPort marks an authority without an explicit port.
const NoPort = -1

// Authority holds the decomposed user:password@host:port component.
// Sub-components are stored as found, without decoding.
type Authority struct {
	User        string
	Password    string
	HasUser     bool
	HasPassword bool
	Host        string
	// Port is the explicit port, [NoPort] when absent.
	Port int
}

// Split decomposes an authority string. The credentials boundary is the last
// unbracketed "@", the port boundary the last unbracketed ":" after it.
// Bracketed IP-literal content is taken verbatim as host with the brackets
// stripped.
func Split(s string) (Authority, error) {
	a := Authority{Port: NoPort}
	if s == "" {
		return a, nil
	}

	hostport := s
	if at := lastUnbracketed(s, '@'); at >= 0 {
		cred := s[:at]
		hostport = s[at+1:]
		a.HasUser = true
		if i := strings.IndexByte(cred, ':'); i >= 0 {
			a.User, a.Password, a.HasPassword = cred[:i], cred[i+1:], true
		} else {
			a.User = cred
		}
	}

	host, port, err := splitHostPort(hostport)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	a.Host, a.Port = host, port
	return a, nil
}

func splitHostPort(s string) (string, int, error) {
	if strings.HasPrefix(s, "[") {
		rb := strings.IndexByte(s, ']')
		if rb < 0 {
			return "", 0, errtrace.Wrap(errorutil.NewWrapperError(ErrAmbiguousAuthority, "missing ']' in %q", s))
		}
		host := s[1:rb]
		rest := s[rb+1:]
		if rest == "" {
			return host, NoPort, nil
		}
		if rest[0] != ':' {
			return "", 0, errtrace.Wrap(errorutil.NewWrapperError(ErrAmbiguousAuthority, "unexpected %q after IP literal", rest))
		}
		port, err := parsePort(rest[1:])
		if err != nil {
			return "", 0, errtrace.Wrap(err)
		}
		return host, port, nil
	}

	switch strings.Count(s, ":") {
	case 0:
		return s, NoPort, nil
	case 1:
		i := strings.IndexByte(s, ':')
		port, err := parsePort(s[i+1:])
		if err != nil {
			return "", 0, errtrace.Wrap(err)
		}
		return s[:i], port, nil
	default:
		return "", 0, errtrace.Wrap(errorutil.NewWrapperError(ErrAmbiguousAuthority, "too many colons in %q", s))
	}
}

func parsePort(s string) (int, error) {
	if s == "" {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPort, "port is empty"))
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 || port > 65535 {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPort, "%q", s))
	}
	return port, nil
}

func lastUnbracketed(s string, c byte) int {
	pos := -1
	var depth int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case c:
			if depth == 0 {
				pos = i
			}
		}
	}
	return pos
}

// String re-assembles the authority. The host is bracket-wrapped when it
// contains ":". The explicit port, when present, is always rendered; callers
// drop scheme-default ports at serialization time.
func (a Authority) String() string {
	return a.render(true)
}

// StringWithoutPort renders the authority with the explicit port omitted.
func (a Authority) StringWithoutPort() string {
	return a.render(false)
}

func (a Authority) render(withPort bool) string {
	var sb strings.Builder
	if a.HasUser {
		sb.WriteString(a.User)
		if a.HasPassword {
			sb.WriteByte(':')
			sb.WriteString(a.Password)
		}
		sb.WriteByte('@')
	}
	if strings.Contains(a.Host, ":") {
		sb.WriteByte('[')
		sb.WriteString(a.Host)
		sb.WriteByte(']')
	} else {
		sb.WriteString(a.Host)
	}
	if withPort && a.Port != NoPort {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(a.Port))
	}
	return sb.String()
}

// DefaultPort returns the well-known port of scheme, or [NoPort].
func DefaultPort(scheme string) int {
	switch scheme {
	case "http", "ws":
		return 80
	case "https", "wss":
		return 443
	case "ftp":
		return 21
	}
	return NoPort
}
