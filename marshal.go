package gourl

import (
	"bytes"
	"encoding/json"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/hostport"
)

// MarshalText implements encoding.TextMarshaler using the canonical
// serialized form.
func (u *URL) MarshalText() ([]byte, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler: the text is parsed the
// same way [Parse] parses raw input.
func (u *URL) UnmarshalText(data []byte) error {
	if u == nil {
		return errtrace.Wrap(ErrNilURL)
	}
	parsed, err := Parse(data)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*u = URL{
		scheme:    parsed.scheme,
		authority: parsed.authority,
		path:      parsed.path,
		query:     parsed.query,
		fragment:  parsed.fragment,
	}
	return nil
}

type urlJSON struct {
	Scheme    string `json:"scheme,omitempty"`
	Authority string `json:"authority,omitempty"`
	Path      string `json:"path,omitempty"`
	Query     string `json:"query,omitempty"`
	Fragment  string `json:"fragment,omitempty"`
}

// MarshalJSON encodes the URL as a flat object of its encoded components.
func (u *URL) MarshalJSON() ([]byte, error) {
	if u == nil {
		return []byte("null"), nil
	}
	return errtrace.Wrap2(json.Marshal(urlJSON{
		Scheme:    u.scheme,
		Authority: u.authority,
		Path:      u.path,
		Query:     u.query,
		Fragment:  u.fragment,
	}))
}

// UnmarshalJSON decodes either the flat component object written by
// [URL.MarshalJSON] or the legacy nested shape {"val": {...}} produced by
// earlier releases. Components are trusted to be valid encoded text, only
// the authority is structurally validated.
func (u *URL) UnmarshalJSON(data []byte) error {
	if u == nil {
		return errtrace.Wrap(ErrNilURL)
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw struct {
		urlJSON
		Val *urlJSON `json:"val"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errtrace.Wrap(err)
	}
	fields := raw.urlJSON
	if raw.Val != nil {
		fields = *raw.Val
	}

	scheme := strings.ToLower(fields.Scheme)
	if scheme != "" && !isSchemeName(scheme) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrBadScheme, "%q", scheme))
	}
	if fields.Authority != "" {
		if _, err := hostport.Split(fields.Authority); err != nil {
			return errtrace.Wrap(err)
		}
	}

	*u = URL{
		scheme:    scheme,
		authority: fields.Authority,
		path:      fields.Path,
		query:     fields.Query,
		fragment:  fields.Fragment,
	}
	return nil
}
