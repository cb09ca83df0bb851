// Package gourl provides an immutable URL value type with correct, repeatable
// parsing, normalization and re-serialization per RFC 3986.
//
// A [URL] is never mutated after construction: every With* operation returns
// a new value, which makes URLs safe to share across goroutines without
// locking. Derived properties are computed lazily and memoized per instance;
// the expensive host transforms (IDNA, IP parsing) are additionally memoized
// in process-wide bounded caches managed through [ConfigureCaches],
// [CacheStats] and [ClearCaches].
//
// The package performs no I/O and no DNS resolution: it is purely a syntactic
// transformation of URL text.
package gourl

//go:generate go tool errtrace -w .

import (
	"log/slog"
	"os"

	"github.com/ghettovoice/gourl/internal/log"
)

// The verbose developer logger is opt-in through the environment so library
// consumers keep the quiet default.
var logger = func() *slog.Logger {
	if os.Getenv("GOURL_DEBUG") != "" {
		return log.Dev
	}
	return log.Def
}()

// SetLogger replaces the package logger used for administrative notices.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = log.Noop
	}
	logger = l
}
