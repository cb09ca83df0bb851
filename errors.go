package gourl

import (
	"github.com/ghettovoice/gourl/internal/hostport"
	"github.com/ghettovoice/gourl/internal/pathutil"
)

// Error is a string type that implements the error interface.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrExclusiveFields is returned when mutually exclusive builder fields
	// are supplied together.
	ErrExclusiveFields Error = "fields are mutually exclusive"
	// ErrPortWithoutHost is returned when a port is supplied without a host.
	ErrPortWithoutHost Error = "port can't be set without host"
	// ErrHostRequired is returned when a scheme demands authority semantics
	// but no host is present.
	ErrHostRequired Error = "scheme requires host"
	// ErrHostRemove is returned on an attempt to remove a host entirely.
	ErrHostRemove Error = "host removing is not allowed"
	// ErrAbsoluteURLRequired is returned by operations defined only for URLs
	// with an authority.
	ErrAbsoluteURLRequired Error = "URL should be absolute"
	// ErrSchemeRequired is returned by operations defined only for URLs
	// with a scheme.
	ErrSchemeRequired Error = "URL should have scheme"
	// ErrBadPath is returned for a path without a leading slash on a URL
	// with an authority.
	ErrBadPath Error = "path in URL with authority should start with a slash"
	// ErrBadSegment is returned for an appended path segment starting
	// with a slash.
	ErrBadSegment Error = "appending path segment starting from slash is forbidden"
	// ErrBadName is returned for an invalid path name replacement.
	ErrBadName Error = "invalid name"
	// ErrBadSuffix is returned for an invalid name suffix replacement.
	ErrBadSuffix Error = "invalid suffix"
	// ErrBadScheme is returned for a scheme with invalid characters.
	ErrBadScheme Error = "invalid scheme"
	// ErrBadQueryValue is returned for a query value outside of the
	// representable range, e.g. NaN or infinity.
	ErrBadQueryValue Error = "invalid query value"
	// ErrQueryValueType is returned for a query value of an unsupported type.
	ErrQueryValueType Error = "unsupported query value type"
	// ErrNilURL is returned when a nil URL is passed where a value is required.
	ErrNilURL Error = "URL is nil"
)

// Sentinels of the host/authority and path layers, re-exported for matching
// with errors.Is.
const (
	ErrInvalidPort        = hostport.ErrInvalidPort
	ErrAmbiguousAuthority = hostport.ErrAmbiguousAuthority
	ErrInvalidHostChar    = hostport.ErrInvalidHostChar
	ErrDifferentAnchors   = pathutil.ErrDifferentAnchors
	ErrWalkAboveRoot      = pathutil.ErrWalkAboveRoot
)
