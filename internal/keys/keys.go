// Package keys builds the composite partition and sort keys of the single-table layout.
package keys

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// UpperSentinel is appended to inclusive upper bounds so composite keys that
// extend the bound (e.g. "HOSTED_COUNT#0000000005#USER#id") stay in range.
const UpperSentinel = "~"

// CounterWidth is the zero-padded width of numeric sort key segments.
const CounterWidth = 10

// MaxCounter is the largest value a counter segment can hold.
const MaxCounter = 9_999_999_999

// Entity returns the table partition key for an entity ("USER#<id>").
func Entity(entityType, id string) string {
	return fmt.Sprintf("%s#%s", entityType, id)
}

// LastName returns the sort key that orders users by last name.
func LastName(lastName, userID string) string {
	return fmt.Sprintf("LASTNAME#%s#USER#%s", lastName, userID)
}

// Counter returns a zero-padded counter sort key ("HOSTED_COUNT#0000000003#USER#id").
func Counter(prefix string, n int64, userID string) string {
	return fmt.Sprintf("%s%0*d#USER#%s", prefix, CounterWidth, n, userID)
}

// Date returns a day-granularity sort key ("DATE#2024-01-31").
func Date(t time.Time) string {
	return "DATE#" + t.UTC().Format(time.DateOnly)
}

// TimestampLayout is a fixed-width RFC 3339 layout; fixed width keeps
// lexicographic order equal to chronological order in sort keys.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats t the way timestamp attributes and sort keys are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Interpolate replaces "{attr}" placeholders in template with values.
// It reports false when a placeholder has no value.
func Interpolate(template string, values map[string]string) (string, bool) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), true
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			return b.String(), true
		}
		name := rest[open+1 : open+end]
		v, ok := values[name]
		if !ok {
			return "", false
		}
		b.WriteString(rest[:open])
		b.WriteString(v)
		rest = rest[open+end+1:]
	}
}

// Placeholders lists the attribute names referenced by template, in order.
func Placeholders(template string) []string {
	var names []string
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return names
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return names
		}
		names = append(names, rest[open+1:open+end])
		rest = rest[open+end+1:]
	}
}

// NumberBound encodes n as a zero-padded sort key segment.
// exact is false when n is negative, fractional or wider than CounterWidth
// digits; the returned bound is then widened (floor for lower, ceil for
// upper) and clamped to [0, MaxCounter].
func NumberBound(n float64, upper bool) (bound string, exact bool) {
	if math.IsNaN(n) {
		if upper {
			return fmt.Sprintf("%0*d", CounterWidth, MaxCounter), false
		}
		return fmt.Sprintf("%0*d", CounterWidth, 0), false
	}

	exact = n >= 0 && n <= MaxCounter && n == math.Trunc(n)
	v := n
	if upper {
		v = math.Ceil(v)
	} else {
		v = math.Floor(v)
	}
	v = math.Max(0, math.Min(v, MaxCounter))
	return fmt.Sprintf("%0*d", CounterWidth, int64(v)), exact
}

// DateBound encodes t at day granularity. Day keys never bound a timestamp
// exactly, so callers must re-check the original constraint.
func DateBound(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
