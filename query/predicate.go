package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/keys"
)

// Value is a typed predicate literal.
type Value struct {
	kind catalog.Kind
	str  string
	num  float64
	t    time.Time
}

// String returns a string literal.
func String(s string) Value { return Value{kind: catalog.KindString, str: s} }

// Number returns a numeric literal.
func Number(n float64) Value { return Value{kind: catalog.KindNumber, num: n} }

// Time returns a timestamp literal.
func Time(t time.Time) Value { return Value{kind: catalog.KindTime, t: t.UTC()} }

// Kind returns the semantic type of v.
func (v Value) Kind() catalog.Kind { return v.kind }

// Str returns the string literal. Only valid for string values.
func (v Value) Str() string { return v.str }

// Num returns the numeric literal. Only valid for number values.
func (v Value) Num() float64 { return v.num }

// Timestamp returns the time literal. Only valid for time values.
func (v Value) Timestamp() time.Time { return v.t }

// String renders v canonically.
func (v Value) String() string {
	switch v.kind {
	case catalog.KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case catalog.KindTime:
		return keys.Timestamp(v.t)
	default:
		return v.str
	}
}

// compare orders two values of the same kind.
func (v Value) compare(o Value) int {
	switch v.kind {
	case catalog.KindNumber:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
		return 0
	case catalog.KindTime:
		return v.t.Compare(o.t)
	default:
		return strings.Compare(v.str, o.str)
	}
}

// Constraint restricts one attribute. Exactly one of Eq or (Min, Max) is set.
// Bounds are inclusive.
type Constraint struct {
	Eq  *Value
	Min *Value
	Max *Value
}

// Eq matches attribute values equal to v.
func Eq(v Value) Constraint { return Constraint{Eq: &v} }

// Between matches values in [lo, hi].
func Between(lo, hi Value) Constraint { return Constraint{Min: &lo, Max: &hi} }

// AtLeast matches values >= lo.
func AtLeast(lo Value) Constraint { return Constraint{Min: &lo} }

// AtMost matches values <= hi.
func AtMost(hi Value) Constraint { return Constraint{Max: &hi} }

// Shape reports whether c is an equality or a range.
func (c Constraint) Shape() catalog.Shape {
	if c.Eq != nil {
		return catalog.Equality
	}
	return catalog.Range
}

// Matches reports whether v satisfies c. v must have the constraint's kind.
func (c Constraint) Matches(v Value) bool {
	if c.Eq != nil {
		return v.compare(*c.Eq) == 0
	}
	if c.Min != nil && v.compare(*c.Min) < 0 {
		return false
	}
	if c.Max != nil && v.compare(*c.Max) > 0 {
		return false
	}
	return true
}

func (c Constraint) kind() catalog.Kind {
	switch {
	case c.Eq != nil:
		return c.Eq.kind
	case c.Min != nil:
		return c.Min.kind
	case c.Max != nil:
		return c.Max.kind
	}
	return ""
}

func (c Constraint) String() string {
	if c.Eq != nil {
		return "=" + c.Eq.String()
	}
	var b strings.Builder
	if c.Min != nil {
		b.WriteString(">=" + c.Min.String())
	}
	if c.Max != nil {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString("<=" + c.Max.String())
	}
	return b.String()
}

// Predicates maps attribute names to constraints. All predicates are ANDed.
type Predicates map[string]Constraint

// Attrs returns the constrained attribute names in sorted order.
func (p Predicates) Attrs() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// without returns a copy of p minus the given attributes.
func (p Predicates) without(attrs []string) Predicates {
	out := make(Predicates, len(p))
	for name, c := range p {
		out[name] = c
	}
	for _, name := range attrs {
		delete(out, name)
	}
	return out
}

// validate checks p against the entity's catalog.
func (p Predicates) validate(cat *catalog.Catalog) error {
	for _, name := range p.Attrs() {
		c := p[name]
		kind, ok := cat.Kind(name)
		if !ok {
			return fmt.Errorf("%w: %s has no attribute %q", ErrUnknownFilterAttribute, cat.EntityType, name)
		}

		switch {
		case c.Eq != nil && (c.Min != nil || c.Max != nil):
			return fmt.Errorf("%w: %s: equality cannot be combined with a range", ErrInvalidPredicate, name)
		case c.Eq == nil && c.Min == nil && c.Max == nil:
			return fmt.Errorf("%w: %s: empty constraint", ErrInvalidPredicate, name)
		}

		for _, v := range []*Value{c.Eq, c.Min, c.Max} {
			if v != nil && v.kind != kind {
				return fmt.Errorf("%w: %s expects a %s value, got %s", ErrInvalidPredicate, name, kind, v.kind)
			}
		}

		if c.Shape() == catalog.Range {
			if kind == catalog.KindString {
				return fmt.Errorf("%w: %s: range on a string attribute", ErrInvalidPredicate, name)
			}
			if c.Min != nil && c.Max != nil && c.Min.compare(*c.Max) > 0 {
				return fmt.Errorf("%w: %s: min %s is above max %s", ErrInvalidPredicate, name, c.Min, c.Max)
			}
		}
	}
	return nil
}

// shapes maps each constrained attribute to its constraint shape.
func (p Predicates) shapes() map[string]catalog.Shape {
	out := make(map[string]catalog.Shape, len(p))
	for name, c := range p {
		out[name] = c.Shape()
	}
	return out
}
