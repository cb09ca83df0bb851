package grammar_test

import (
	"testing"

	"github.com/ghettovoice/gourl/internal/grammar"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		opts grammar.QuoteOptions
		want string
	}{
		{"empty", "", grammar.QuoteOptions{}, ""},
		{"unreserved", "aZ09-._~", grammar.QuoteOptions{}, "aZ09-._~"},
		{"space", "hello world", grammar.QuoteOptions{}, "hello%20world"},
		{"default safe outside qs", "a+b=c&d;e", grammar.QuoteOptions{}, "a+b=c&d;e"},
		{"slash escaped by default", "a/b", grammar.QuoteOptions{}, "a%2Fb"},
		{"safe set", "a/b:c", grammar.QuoteOptions{Safe: "/:"}, "a/b:c"},
		{"upper hex", "\x7f", grammar.QuoteOptions{}, "%7F"},
		{"utf8", "жук", grammar.QuoteOptions{}, "%D0%B6%D1%83%D0%BA"},
		{"invalid utf8 dropped", "a\xffb", grammar.QuoteOptions{}, "ab"},
		{"percent escaped without requote", "100%", grammar.QuoteOptions{}, "100%25"},
		{"qs space to plus", "a b", grammar.QuoteOptions{QS: true}, "a+b"},
		{"qs structural escaped", "a=b&c", grammar.QuoteOptions{QS: true}, "a%3Db%26c"},
		{"qs plus escaped", "a+b", grammar.QuoteOptions{QS: true}, "a%2Bb"},
		{
			"requote keeps protected triplet",
			"a%2Fb",
			grammar.QuoteOptions{Protected: "/", Requote: true},
			"a%2Fb",
		},
		{
			"requote lowers triplet case",
			"a%2fb",
			grammar.QuoteOptions{Protected: "/", Requote: true},
			"a%2Fb",
		},
		{
			"requote decodes unreserved",
			"a%7Eb%61",
			grammar.QuoteOptions{Requote: true},
			"a~ba",
		},
		{
			"requote re-escapes unsafe",
			"a%20b",
			grammar.QuoteOptions{Requote: true},
			"a%20b",
		},
		{
			"requote malformed percent",
			"100%zz%1",
			grammar.QuoteOptions{Requote: true},
			"100%25zz%251",
		},
		{
			"protected literal stays literal",
			"a/b",
			grammar.QuoteOptions{Protected: "/", Requote: true},
			"a/b",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.Quote(c.in, c.opts); got != c.want {
				t.Errorf("grammar.Quote(%q, %+v) = %q, want %q", c.in, c.opts, got, c.want)
			}
		})
	}
}

func TestQuote_bytes(t *testing.T) {
	t.Parallel()

	got := grammar.Quote([]byte("a b"), grammar.QuoteOptions{})
	if string(got) != "a%20b" {
		t.Errorf(`grammar.Quote([]byte("a b")) = %q, want "a%%20b"`, got)
	}
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		opts grammar.UnquoteOptions
		want string
	}{
		{"empty", "", grammar.UnquoteOptions{}, ""},
		{"plain", "abc", grammar.UnquoteOptions{}, "abc"},
		{"single triplet", "a%2Fb", grammar.UnquoteOptions{}, "a/b"},
		{"multibyte unit", "%D0%B6%D1%83%D0%BA", grammar.UnquoteOptions{}, "жук"},
		{"invalid unit passthrough", "%D0stop", grammar.UnquoteOptions{}, "%D0stop"},
		{"bare percent passthrough", "100%", grammar.UnquoteOptions{}, "100%"},
		{"malformed triplet passthrough", "%zz", grammar.UnquoteOptions{}, "%zz"},
		{"unsafe re-escaped", "p%40ss@", grammar.UnquoteOptions{Unsafe: "@"}, "p%40ss%40"},
		{"qs plus to space", "a+b", grammar.UnquoteOptions{QS: true}, "a b"},
		{"plus kept outside qs", "a+b", grammar.UnquoteOptions{}, "a+b"},
		{"qs plus unsafe stays", "a+b", grammar.UnquoteOptions{QS: true, Unsafe: "+"}, "a%2Bb"},
		{"qs structural decoded", "a%3Db%26c", grammar.UnquoteOptions{QS: true}, "a=b&c"},
		{"structural decoded outside qs", "a%3Db%26c", grammar.UnquoteOptions{}, "a=b&c"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.Unquote(c.in, c.opts); got != c.want {
				t.Errorf("grammar.Unquote(%q, %+v) = %q, want %q", c.in, c.opts, got, c.want)
			}
		})
	}
}

func TestUnquote_roundTrip(t *testing.T) {
	t.Parallel()

	// Decoding a freshly encoded human string restores the original.
	inputs := []string{
		"hello world",
		"жук в банке",
		"a/b?c=d&e",
		"100% натурально",
	}
	for _, in := range inputs {
		quoted := grammar.Quote(in, grammar.QuoteOptions{})
		if got := grammar.Unquote(quoted, grammar.UnquoteOptions{}); got != in {
			t.Errorf("grammar.Unquote(grammar.Quote(%q)) = %q, want original", in, got)
		}
	}
}

func TestQuote_requoteIdempotent(t *testing.T) {
	t.Parallel()

	opts := grammar.QuoteOptions{Safe: "@:", Protected: "/+", Requote: true}
	inputs := []string{
		"/path/to%2Ffile",
		"%D0%B6%D1%83%D0%BA",
		"100%25",
		"plain",
	}
	for _, in := range inputs {
		once := grammar.Quote(in, opts)
		if twice := grammar.Quote(once, opts); twice != once {
			t.Errorf("grammar.Quote applied twice to %q: %q != %q", in, twice, once)
		}
	}
}

func TestEscapeOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     string
		unsafe string
		want   string
	}{
		{"empty", "", "#?", ""},
		{"nothing unsafe", "a b/c", "#?", "a b/c"},
		{"escapes listed only", "a#b?c", "#?", "a%23b%3Fc"},
		{"percent", "100%", "%", "100%25"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.EscapeOnly(c.in, c.unsafe); got != c.want {
				t.Errorf("grammar.EscapeOnly(%q, %q) = %q, want %q", c.in, c.unsafe, got, c.want)
			}
		})
	}
}
