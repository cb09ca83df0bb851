package gourl

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gourl/internal/errorutil"
	"github.com/ghettovoice/gourl/internal/grammar"
	"github.com/ghettovoice/gourl/internal/util"
)

// Param is one decoded key/value query pair.
type Param struct {
	Key   string
	Value string
}

// Query is the input variant for query construction. Exactly one concrete
// shape is chosen by the caller: [QueryString] for a pre-formed query string
// (requoted as a unit), [QueryMap] for an unordered mapping (keys emitted in
// sorted order) or [QueryPairs] for an ordered pair sequence. A nil Query
// clears the query.
type Query interface {
	pairs() ([]Param, error)
	encode() (string, error)
}

// QueryString is a pre-formed query string.
type QueryString string

func (q QueryString) encode() (string, error) {
	return grammar.Quote(string(q), queryRequote), nil
}

func (q QueryString) pairs() ([]Param, error) {
	encoded, _ := q.encode()
	return parseQueryPairs(encoded), nil
}

// QueryMap is an unordered key to value mapping.
// Keys are emitted in sorted order to keep the output repeatable.
type QueryMap map[string]any

func (q QueryMap) pairs() ([]Param, error) {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	// Map iteration order is random, sorting keeps construction repeatable.
	slices.Sort(keys)

	out := make([]Param, 0, len(q))
	for _, k := range keys {
		vals, err := queryValueStrings(q[k])
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("query key %q: %w", k, err))
		}
		for _, v := range vals {
			out = append(out, Param{Key: k, Value: v})
		}
	}
	return out, nil
}

func (q QueryMap) encode() (string, error) {
	ps, err := q.pairs()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return encodeQueryPairs(ps), nil
}

// QueryPair is one key/value input pair; the value may be any supported
// query value kind.
type QueryPair struct {
	Key   string
	Value any
}

// QueryPairs is an ordered sequence of key/value input pairs.
type QueryPairs []QueryPair

func (q QueryPairs) pairs() ([]Param, error) {
	out := make([]Param, 0, len(q))
	for _, kv := range q {
		vals, err := queryValueStrings(kv.Value)
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("query key %q: %w", kv.Key, err))
		}
		for _, v := range vals {
			out = append(out, Param{Key: kv.Key, Value: v})
		}
	}
	return out, nil
}

func (q QueryPairs) encode() (string, error) {
	ps, err := q.pairs()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return encodeQueryPairs(ps), nil
}

// queryValueStrings converts one query value into its textual forms.
// A slice value expands into repeated values for the same key.
func queryValueStrings(val any) ([]string, error) {
	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case bool:
		// Booleans are excluded from the numeric coercion on purpose.
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryValueType, "bool %v", v))
	case int:
		return []string{strconv.Itoa(v)}, nil
	case int8:
		return []string{strconv.FormatInt(int64(v), 10)}, nil
	case int16:
		return []string{strconv.FormatInt(int64(v), 10)}, nil
	case int32:
		return []string{strconv.FormatInt(int64(v), 10)}, nil
	case int64:
		return []string{strconv.FormatInt(v, 10)}, nil
	case uint:
		return []string{strconv.FormatUint(uint64(v), 10)}, nil
	case uint8:
		return []string{strconv.FormatUint(uint64(v), 10)}, nil
	case uint16:
		return []string{strconv.FormatUint(uint64(v), 10)}, nil
	case uint32:
		return []string{strconv.FormatUint(uint64(v), 10)}, nil
	case uint64:
		return []string{strconv.FormatUint(v, 10)}, nil
	case float32:
		return errtrace.Wrap2(floatQueryValue(float64(v), 32))
	case float64:
		return errtrace.Wrap2(floatQueryValue(v, 64))
	case []byte:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryValueType, "binary value"))
	case []string:
		return v, nil
	case []any:
		var out []string
		for _, item := range v {
			vals, err := queryValueStrings(item)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			out = append(out, vals...)
		}
		return out, nil
	case []int:
		out := make([]string, len(v))
		for i, n := range v {
			out[i] = strconv.Itoa(n)
		}
		return out, nil
	case nil:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryValueType, "nil value"))
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryValueType, "%T", v))
	}
}

func floatQueryValue(v float64, bits int) ([]string, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadQueryValue, "%v is not a finite number", v))
	}
	return []string{strconv.FormatFloat(v, 'g', -1, bits)}, nil
}

func encodeQueryPairs(pairs []Param) string {
	if len(pairs) == 0 {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(grammar.Quote(p.Key, queryQuote))
		sb.WriteByte('=')
		sb.WriteString(grammar.Quote(p.Value, queryQuote))
	}
	return sb.String()
}

// parseQueryPairs splits an encoded query into ordered, fully decoded pairs.
// Re-encoding happens through [encodeQueryPairs], so structural chars decoded
// here survive a round trip.
func parseQueryPairs(raw string) []Param {
	if raw == "" {
		return nil
	}

	var out []Param
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, Param{
			Key:   grammar.Unquote(k, grammar.UnquoteOptions{QS: true}),
			Value: grammar.Unquote(v, grammar.UnquoteOptions{QS: true}),
		})
	}
	return out
}

// WithQuery returns a new URL with the query replaced by q.
// A nil q clears the query.
func (u *URL) WithQuery(q Query) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if q == nil {
		return newURL(u.scheme, u.authority, u.path, "", u.fragment), nil
	}
	encoded, err := q.encode()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return newURL(u.scheme, u.authority, u.path, encoded, u.fragment), nil
}

// WithoutQuery returns a new URL with the query removed.
func (u *URL) WithoutQuery() *URL {
	if u == nil {
		return nil
	}
	return newURL(u.scheme, u.authority, u.path, "", u.fragment)
}

// ExtendQuery returns a new URL with q's pairs appended to the existing
// query without de-duplication.
func (u *URL) ExtendQuery(q Query) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if q == nil {
		return u.Clone(), nil
	}
	encoded, err := q.encode()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	switch {
	case encoded == "":
		return u.Clone(), nil
	case u.query != "":
		encoded = u.query + "&" + encoded
	}
	return newURL(u.scheme, u.authority, u.path, encoded, u.fragment), nil
}

// UpdateQuery returns a new URL whose query has existing occurrences of q's
// keys overwritten in place and keys not already present appended.
func (u *URL) UpdateQuery(q Query) (*URL, error) {
	if u == nil {
		return nil, errtrace.Wrap(ErrNilURL)
	}
	if q == nil {
		return u.Clone(), nil
	}
	updates, err := q.pairs()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	byKey := make(map[string][]Param, len(updates))
	for _, p := range updates {
		byKey[p.Key] = append(byKey[p.Key], p)
	}

	var out []Param
	emitted := make(map[string]bool, len(byKey))
	for _, p := range u.QueryPairs() {
		repl, ok := byKey[p.Key]
		if !ok {
			out = append(out, p)
			continue
		}
		// Replacement pairs land at the first occurrence of the key,
		// later occurrences are dropped.
		if !emitted[p.Key] {
			out = append(out, repl...)
			emitted[p.Key] = true
		}
	}
	for _, p := range updates {
		if !emitted[p.Key] {
			out = append(out, byKey[p.Key]...)
			emitted[p.Key] = true
		}
	}
	return newURL(u.scheme, u.authority, u.path, encodeQueryPairs(out), u.fragment), nil
}

// WithoutQueryParams returns a new URL with all pairs whose key is in keys
// removed, preserving the order of the remaining pairs.
func (u *URL) WithoutQueryParams(keys ...string) *URL {
	if u == nil {
		return nil
	}
	if len(keys) == 0 {
		return u.Clone()
	}

	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	var out []Param
	for _, p := range u.QueryPairs() {
		if !drop[p.Key] {
			out = append(out, p)
		}
	}
	return newURL(u.scheme, u.authority, u.path, encodeQueryPairs(out), u.fragment)
}
