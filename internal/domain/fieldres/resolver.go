// Package fieldres resolves logical fields against records whose literal
// field names have drifted across tables and cohorts. A Query is an ordered
// list of candidate names, most canonical first; resolution tries them in
// order and stops at the first present, non-nil value.
package fieldres

import (
	"strconv"
	"strings"

	"github.com/edviva/impactboard/internal/domain/model"
)

// Query is a non-empty ordered sequence of candidate field names.
type Query []string

// Primary returns the canonical candidate name, or "" for an empty query.
func (q Query) Primary() string {
	if len(q) == 0 {
		return ""
	}
	return q[0]
}

// ResolvedValue is the outcome of resolving a Query against a record.
// SourceField is "" exactly when no candidate matched.
type ResolvedValue struct {
	Value       any
	SourceField string
}

// Unset reports whether no candidate matched.
func (r ResolvedValue) Unset() bool { return r.SourceField == "" }

// Fallback reports whether a non-primary candidate satisfied the query.
func (r ResolvedValue) Fallback(q Query) bool {
	return r.SourceField != "" && r.SourceField != q.Primary()
}

// Resolve returns the first present candidate value, unwrapping
// single-element collections produced by rollup/lookup fields. Values in
// longer collections also resolve to their first element; the permissive
// policy keeps partially-migrated tables usable. Empty collections count
// as absent, so resolution moves on to the next candidate.
func Resolve(rec model.RawRecord, q Query) ResolvedValue {
	for _, field := range q {
		val, ok := rec[field]
		if !ok || val == nil {
			continue
		}
		if v := unwrap(val); v != nil {
			return ResolvedValue{Value: v, SourceField: field}
		}
	}
	return ResolvedValue{}
}

// unwrap reduces array-shaped values to their first scalar element.
func unwrap(val any) any {
	switch v := val.(type) {
	case []any:
		if len(v) > 0 {
			return v[0]
		}
		return nil
	case []float64:
		if len(v) > 0 {
			return v[0]
		}
		return nil
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return nil
	default:
		return val
	}
}

// Number resolves q and coerces the value to a float64. Unresolved or
// non-numeric values yield 0; the caller records the absence separately.
func Number(rec model.RawRecord, q Query) (float64, ResolvedValue) {
	res := Resolve(rec, q)
	if res.Unset() {
		return 0, res
	}
	return asNumber(res.Value), res
}

// Text resolves q and coerces the value to a string.
func Text(rec model.RawRecord, q Query) (string, ResolvedValue) {
	res := Resolve(rec, q)
	if res.Unset() {
		return "", res
	}
	return asText(res.Value), res
}

func asNumber(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asText(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
