package pathutil_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/gourl/internal/pathutil"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"root", "/", "/"},
		{"plain", "/a/b/c", "/a/b/c"},
		{"single dot dropped", "/a/./b", "/a/b"},
		{"trailing dot keeps slash", "path/to/.", "path/to/"},
		{"double dot pops", "/a/b/../c", "/a/c"},
		{"trailing double dot keeps slash", "path/to/..", "path/"},
		{"leading double dot ignored", "../path/to", "path/to"},
		{"walk above root clamped", "/foo/../../../ton", "/ton"},
		{"all dots", "/..", "/"},
		{"dot only", ".", ""},
		{"keeps empty segments", "/a//b", "/a//b"},
		{"dotted names untouched", "/a.b/c..d", "/a.b/c..d"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := pathutil.Normalize(c.path); got != c.want {
				t.Errorf("pathutil.Normalize(%q) = %q, want %q", c.path, got, c.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
		want []string
	}{
		{"empty", "", []string{""}},
		{"root", "/", []string{"/"}},
		{"absolute", "/a/b", []string{"/", "a", "b"}},
		{"relative", "a/b", []string{"a", "b"}},
		{"trailing slash", "/a/", []string{"/", "a", ""}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(pathutil.Split(c.path), c.want); diff != "" {
				t.Errorf("pathutil.Split(%q) mismatch (-got +want):\n%v", c.path, diff)
			}
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/a/b.txt", "b.txt"},
		{"/a/b/", ""},
		{"name", "name"},
	}

	for _, c := range cases {
		if got := pathutil.Name(c.path); got != c.want {
			t.Errorf("pathutil.Name(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestSuffix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"", ""},
		{"file.txt", ".txt"},
		{"archive.tar.gz", ".gz"},
		{".hidden", ""},
		{"dot.", ""},
		{"noext", ""},
	}

	for _, c := range cases {
		if got := pathutil.Suffix(c.name); got != c.want {
			t.Errorf("pathutil.Suffix(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestSuffixes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want []string
	}{
		{"", nil},
		{"file.txt", []string{".txt"}},
		{"archive.tar.gz", []string{".tar", ".gz"}},
		{".hidden", nil},
		{"dot.", nil},
		{"noext", nil},
	}

	for _, c := range cases {
		if diff := cmp.Diff(pathutil.Suffixes(c.name), c.want); diff != "" {
			t.Errorf("pathutil.Suffixes(%q) mismatch (-got +want):\n%v", c.name, diff)
		}
	}
}

func TestRelative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		target  string
		base    string
		want    string
		wantErr error
	}{
		{"same path", "/a/b", "/a/b", ".", nil},
		{"sibling", "/a/b/c", "/a/d", "../b/c", nil},
		{"descend", "/a/b/c", "/a", "b/c", nil},
		{"ascend", "/a", "/a/b/c", "../..", nil},
		{"relative pair", "a/b", "a/c", "../b", nil},
		{"mixed anchors", "/a", "b", "", pathutil.ErrDifferentAnchors},
		{"base above root", "/a", "/b/..", "", pathutil.ErrWalkAboveRoot},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := pathutil.Relative(c.target, c.base)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("pathutil.Relative(%q, %q) error = %v, want %v", c.target, c.base, err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("pathutil.Relative(%q, %q) = %q, want %q", c.target, c.base, got, c.want)
			}
		})
	}
}
