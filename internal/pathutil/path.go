// Package pathutil implements the path segment algebra: dot-segment
// normalization, segment splitting, name/suffix derivation and the
// relative-path ancestor walk. All operations are pure text transforms on
// already percent-encoded paths.
package pathutil

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
)

const (
	// ErrDifferentAnchors is returned by [Relative] when the two paths have
	// no common ancestor to walk from.
	ErrDifferentAnchors errorutil.Error = "paths have different anchors"
	// ErrWalkAboveRoot is returned by [Relative] when the base path cannot
	// be walked up to the target.
	ErrWalkAboveRoot errorutil.Error = "cannot walk above root"
)

// Normalize removes dot segments from path. A "." segment is dropped, a ".."
// segment pops the previous segment when one exists and is ignored otherwise.
// When the final input segment is "." or ".." a trailing empty segment is
// appended, preserving the trailing slash. A leading "/" is a structural
// marker, not a segment.
func Normalize(path string) string {
	if path == "" {
		return path
	}

	var prefix string
	rel := path
	if rel[0] == '/' {
		prefix, rel = "/", rel[1:]
	}

	segs := strings.Split(rel, "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	if last := segs[len(segs)-1]; last == "." || last == ".." {
		out = append(out, "")
	}
	return prefix + strings.Join(out, "/")
}

// NormalizeIfDotty normalizes path only when it may contain dot segments.
func NormalizeIfDotty(path string) string {
	if !strings.Contains(path, ".") {
		return path
	}
	return Normalize(path)
}

// Split returns the ordered segment sequence of path. Absolute paths expose
// a synthetic leading "/" sentinel segment before the remaining splits.
func Split(path string) []string {
	switch path {
	case "":
		return []string{""}
	case "/":
		return []string{"/"}
	}
	if path[0] == '/' {
		return append([]string{"/"}, strings.Split(path[1:], "/")...)
	}
	return strings.Split(path, "/")
}

// Name returns the last segment of path, "" for the root path.
func Name(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Suffix returns the trailing ".ext" of name when the dot is neither the
// first nor the last character, "" otherwise.
func Suffix(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Suffixes returns all dot-separated trailing extensions of name.
func Suffixes(name string) []string {
	if strings.HasSuffix(name, ".") {
		return nil
	}
	name = strings.TrimLeft(name, ".")
	parts := strings.Split(name, ".")[1:]
	if len(parts) == 0 {
		return nil
	}
	sfx := make([]string, len(parts))
	for i, p := range parts {
		sfx[i] = "." + p
	}
	return sfx
}

// Relative computes the relative path from base to target using the standard
// ancestor walk. Both paths must be normalized. It fails with
// [ErrDifferentAnchors] when one path is absolute and the other relative, and
// with [ErrWalkAboveRoot] when base contains a ".." segment that cannot be
// resolved against target.
func Relative(target, base string) (string, error) {
	tAbs := strings.HasPrefix(target, "/")
	bAbs := strings.HasPrefix(base, "/")
	if tAbs != bAbs {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrDifferentAnchors, "%q and %q", target, base))
	}

	tsegs := relSegments(target)
	bsegs := relSegments(base)

	var common int
	for common < len(tsegs) && common < len(bsegs) && tsegs[common] == bsegs[common] {
		common++
	}
	for _, seg := range bsegs[common:] {
		if seg == ".." {
			return "", errtrace.Wrap(errorutil.NewWrapperError(ErrWalkAboveRoot, "%q is not reachable from %q", target, base))
		}
	}

	out := make([]string, 0, len(bsegs)-common+len(tsegs)-common)
	for range bsegs[common:] {
		out = append(out, "..")
	}
	out = append(out, tsegs[common:]...)
	if len(out) == 0 {
		return ".", nil
	}
	return strings.Join(out, "/"), nil
}

func relSegments(path string) []string {
	var segs []string
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segs = append(segs, seg)
	}
	return segs
}
