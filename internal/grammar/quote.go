// Package grammar implements the percent-encoding codec used by all URL
// components. The codec is a pure text-to-text transform: it never performs
// I/O and never fails on malformed percent-escapes, degrading to literal
// pass-through instead.
package grammar

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// In non query-string mode these sub-delims stay unescaped by default.
const defaultSafe = "+&=;"

// QuoteOptions controls [Quote].
type QuoteOptions struct {
	// Safe chars are emitted literally and never escaped.
	Safe string
	// Protected chars are kept percent-encoded when requoting finds them
	// inside an existing triplet, and emitted literally otherwise.
	Protected string
	// QS enables query-string mode: space encodes to '+' and the
	// non query-string default safe set ("+&=;") does not apply.
	QS bool
	// Requote re-interprets well-formed %XX triplets found in the input
	// instead of escaping their '%'.
	Requote bool
}

// Quote percent-encodes s. Every byte outside of unreserved, Safe, Protected
// and (outside of query-string mode) the "+&=;" default set becomes an
// upper-case %XX triplet. Invalid UTF-8 sequences are dropped silently.
//
// With Requote enabled a well-formed triplet is decoded first: a Protected
// char keeps its triplet (case-normalized), a safe char is emitted literally
// and anything else is re-escaped. A malformed triplet escapes the '%' as %25
// and scanning resumes at the next byte.
func Quote[T ~string | ~[]byte](s T, opts QuoteOptions) T {
	if len(s) == 0 {
		return s
	}
	return T(quote(string(s), opts))
}

func quote(s string, opts QuoteOptions) string {
	var b bytes.Buffer
	b.Grow(len(s) + 8)

	isSafe := func(c byte) bool {
		if IsCharUnreserved(c) {
			return true
		}
		if strings.IndexByte(opts.Safe, c) >= 0 || strings.IndexByte(opts.Protected, c) >= 0 {
			return true
		}
		return !opts.QS && strings.IndexByte(defaultSafe, c) >= 0
	}

	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				// Invalid byte sequence, drop it.
				i++
				continue
			}
			for j := range size {
				writePct(&b, s[i+j])
			}
			i += size
			continue
		}

		if c == '%' && opts.Requote {
			if i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
				ch := unhex(s[i+1])<<4 | unhex(s[i+2])
				switch {
				case strings.IndexByte(opts.Protected, ch) >= 0:
					writePct(&b, ch)
				case ch < utf8.RuneSelf && isSafe(ch):
					b.WriteByte(ch)
				default:
					writePct(&b, ch)
				}
				i += 3
				continue
			}
			// Malformed triplet: escape the '%' alone and keep scanning.
			writePct(&b, '%')
			i++
			continue
		}

		if opts.QS && c == ' ' {
			b.WriteByte('+')
			i++
			continue
		}
		if isSafe(c) {
			b.WriteByte(c)
		} else {
			writePct(&b, c)
		}
		i++
	}
	return b.String()
}

func writePct(b *bytes.Buffer, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperhex[c>>4])
	b.WriteByte(upperhex[c&15])
}

// UnquoteOptions controls [Unquote].
type UnquoteOptions struct {
	// Unsafe chars are re-escaped instead of being emitted decoded.
	Unsafe string
	// QS enables query-string mode: '+' decodes to space (unless '+' is
	// unsafe).
	QS bool
}

// Unquote decodes percent-escaped triplets in s. Consecutive triplets are
// buffered and decoded as one UTF-8 unit; a buffer that does not form valid
// UTF-8 is re-emitted verbatim. Unquote never fails.
func Unquote[T ~string | ~[]byte](s T, opts UnquoteOptions) T {
	if len(s) == 0 {
		return s
	}
	return T(unquote(string(s), opts))
}

func unquote(s string, opts UnquoteOptions) string {
	var b strings.Builder
	b.Grow(len(s))

	var (
		acc   []byte // decoded bytes of buffered triplets
		accTx string // original text of buffered triplets
	)
	flush := func() {
		if len(acc) == 0 {
			return
		}
		if utf8.Valid(acc) {
			for _, r := range string(acc) {
				writeDecoded(&b, r, opts)
			}
		} else {
			// Pass malformed sequences through untouched.
			b.WriteString(accTx)
		}
		acc, accTx = acc[:0], ""
	}

	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			if accTx == "" {
				accTx = s[i : i+3]
			} else {
				accTx = accTx + s[i:i+3]
			}
			acc = append(acc, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 3
			continue
		}
		flush()

		c := s[i]
		if c == '+' && opts.QS && strings.IndexByte(opts.Unsafe, '+') < 0 {
			b.WriteByte(' ')
			i++
			continue
		}
		if strings.IndexByte(opts.Unsafe, c) >= 0 {
			writePctString(&b, c)
			i++
			continue
		}
		b.WriteByte(c)
		i++
	}
	flush()
	return b.String()
}

func writeDecoded(b *strings.Builder, r rune, opts UnquoteOptions) {
	if r < utf8.RuneSelf && strings.IndexByte(opts.Unsafe, byte(r)) >= 0 {
		writePctString(b, byte(r))
		return
	}
	b.WriteRune(r)
}

func writePctString(b *strings.Builder, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperhex[c>>4])
	b.WriteByte(upperhex[c&15])
}

// EscapeOnly escapes exactly the bytes present in unsafe, leaving everything
// else untouched. It is used for human-readable rendering where a decoded
// component keeps only its structurally ambiguous characters escaped.
func EscapeOnly[T ~string | ~[]byte](s T, unsafe string) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(unsafe, s[i]) >= 0 {
			writePct(&b, s[i])
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.String())
}
