// Package contentstore defines the read contract used by the site for
// editor-managed content and the backends that satisfy it.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable marks a backend failure worth retrying.
var ErrUnavailable = errors.New("contentstore: unavailable")

// Record is a single content-store row keyed by field name.
type Record map[string]any

// Filter restricts a query to records whose Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Order sorts query results by Field.
type Order struct {
	Field      string
	Descending bool
}

// Eq is shorthand for an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Asc orders by field ascending.
func Asc(field string) Order { return Order{Field: field} }

// Desc orders by field descending.
func Desc(field string) Order { return Order{Field: field, Descending: true} }

// Client is the read-only query surface the engine depends on. Filtering and
// ordering are executed by the backend. QueryOne returns (nil, nil) when no
// record matches.
type Client interface {
	Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) ([]Record, error)
	QueryOne(ctx context.Context, collection string, filters []Filter) (Record, error)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the trimmed string value of key, or "" when absent or not textual.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	}
	return ""
}

// Bool returns the boolean value of key. Missing or non-boolean values,
// including strings such as "true", are false so that decoding agrees with
// equality filters on boolean fields.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// Int returns the integer value of key and whether one was present.
func (r Record) Int(key string) (int, bool) {
	n, ok := toFloat(r[key])
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return int(n), true
}

// Time returns the timestamp stored under key. Strings are parsed with the
// layouts editors commonly use.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		return parseTime(v)
	}
	return time.Time{}
}

// StringMap returns a string-valued map stored under key.
func (r Record) StringMap(key string) map[string]string {
	out := map[string]string{}
	switch v := r[key].(type) {
	case map[string]any:
		for k, val := range v {
			if s, ok := val.(string); ok && strings.TrimSpace(s) != "" {
				out[k] = strings.TrimSpace(s)
			}
		}
	case map[string]string:
		for k, val := range v {
			if strings.TrimSpace(val) != "" {
				out[k] = strings.TrimSpace(val)
			}
		}
	}
	return out
}

func parseTime(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
