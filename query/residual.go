package query

import (
	"strconv"
	"time"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/store"
)

// Filter returns the records matching every predicate, in input order.
// It does not modify records and never touches the store.
func Filter(records []store.Record, preds Predicates) []store.Record {
	if len(preds) == 0 {
		return records
	}
	out := make([]store.Record, 0, len(records))
	for _, rec := range records {
		if Match(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

// Match reports whether rec satisfies every predicate. A record missing a
// constrained attribute, or holding a value of the wrong kind, does not match.
func Match(rec store.Record, preds Predicates) bool {
	for attr, c := range preds {
		raw, ok := rec.Attributes[attr]
		if !ok {
			return false
		}
		v, ok := valueOf(raw, c.kind())
		if !ok || !c.Matches(v) {
			return false
		}
	}
	return true
}

// valueOf converts a decoded attribute to a Value of the given kind.
func valueOf(raw any, kind catalog.Kind) (Value, bool) {
	switch kind {
	case catalog.KindString:
		s, ok := raw.(string)
		return String(s), ok

	case catalog.KindNumber:
		switch n := raw.(type) {
		case float64:
			return Number(n), true
		case int:
			return Number(float64(n)), true
		case int64:
			return Number(float64(n)), true
		case string:
			f, err := strconv.ParseFloat(n, 64)
			return Number(f), err == nil
		}
		return Value{}, false

	case catalog.KindTime:
		s, ok := raw.(string)
		if !ok {
			return Value{}, false
		}
		t, err := ParseTime(s)
		return Time(t), err == nil
	}
	return Value{}, false
}

// ParseTime parses an RFC 3339 timestamp or a YYYY-MM-DD date (midnight UTC).
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if d, derr := time.Parse(time.DateOnly, s); derr == nil {
		return d, nil
	}
	return time.Time{}, err
}
