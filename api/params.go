package api

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/query"
)

// Reserved query parameters. Every other parameter is a filter.
const (
	ParamLimit     = "limit"
	ParamNextToken = "nextToken"
	ParamOrder     = "order"

	suffixMin = "Min"
	suffixMax = "Max"
)

// ErrInvalidParameter is returned for a malformed reserved parameter or a
// filter value that cannot be parsed as its attribute kind.
var ErrInvalidParameter = errors.New("lattice: invalid parameter")

// ParseRequest builds a filter request for cat from URL query parameters.
//
// "attr=v" is an equality, "attrMin=v" and "attrMax=v" are inclusive bounds.
// Values are typed by the catalog attribute kind. A date-only equality on a
// time attribute matches the whole UTC day. Parameters naming attributes the
// catalog does not declare are passed through as string equalities so the
// planner rejects them.
func ParseRequest(cat *catalog.Catalog, params url.Values) (query.FilterRequest, error) {
	req := query.FilterRequest{
		EntityType: cat.EntityType,
		Predicates: query.Predicates{},
	}

	days := map[string]bool{}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := params[name]
		if len(values) != 1 {
			return query.FilterRequest{}, fmt.Errorf("%w: %s given %d times", ErrInvalidParameter, name, len(values))
		}
		raw := values[0]

		switch name {
		case ParamLimit:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return query.FilterRequest{}, fmt.Errorf("%w: limit %q", ErrInvalidParameter, raw)
			}
			req.Limit = n
			continue
		case ParamNextToken:
			req.Token = raw
			continue
		case ParamOrder:
			switch query.Order(strings.ToLower(raw)) {
			case query.OrderAsc:
				req.Order = query.OrderAsc
			case query.OrderDesc:
				req.Order = query.OrderDesc
			default:
				return query.FilterRequest{}, fmt.Errorf("%w: order must be asc or desc, got %q", ErrInvalidParameter, raw)
			}
			continue
		}

		attr, bound := splitBound(cat, name)
		kind, ok := cat.Kind(attr)
		if !ok {
			req.Predicates[attr] = query.Eq(query.String(raw))
			continue
		}

		c := req.Predicates[attr]
		if days[attr] {
			return query.FilterRequest{}, fmt.Errorf("%w: %s: a date equality cannot be combined with bounds", ErrInvalidParameter, name)
		}
		switch bound {
		case suffixMin:
			v, err := parseValue(kind, raw)
			if err != nil {
				return query.FilterRequest{}, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
			}
			c.Min = &v
		case suffixMax:
			v, err := parseValue(kind, raw)
			if err != nil {
				return query.FilterRequest{}, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
			}
			c.Max = &v
		default:
			if kind == catalog.KindTime && isDateOnly(raw) {
				if c.Min != nil || c.Max != nil {
					return query.FilterRequest{}, fmt.Errorf("%w: %s: a date equality cannot be combined with bounds", ErrInvalidParameter, name)
				}
				day, err := time.Parse(time.DateOnly, raw)
				if err != nil {
					return query.FilterRequest{}, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
				}
				lo, hi := query.Time(day), query.Time(day.Add(24*time.Hour-time.Nanosecond))
				c.Min, c.Max = &lo, &hi
				days[attr] = true
				break
			}
			v, err := parseValue(kind, raw)
			if err != nil {
				return query.FilterRequest{}, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
			}
			c.Eq = &v
		}
		req.Predicates[attr] = c
	}

	return req, nil
}

// splitBound splits "countMin" into ("count", "Min") when count is a declared
// attribute. A declared attribute named with the suffix itself wins.
func splitBound(cat *catalog.Catalog, name string) (string, string) {
	if _, ok := cat.Kind(name); ok {
		return name, ""
	}
	for _, suffix := range []string{suffixMin, suffixMax} {
		attr, found := strings.CutSuffix(name, suffix)
		if !found || attr == "" {
			continue
		}
		if _, ok := cat.Kind(attr); ok {
			return attr, suffix
		}
	}
	return name, ""
}

func parseValue(kind catalog.Kind, raw string) (query.Value, error) {
	switch kind {
	case catalog.KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return query.Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return query.Number(n), nil
	case catalog.KindTime:
		t, err := query.ParseTime(raw)
		if err != nil {
			return query.Value{}, fmt.Errorf("%q is not a timestamp", raw)
		}
		return query.Time(t), nil
	default:
		return query.String(raw), nil
	}
}

func isDateOnly(s string) bool {
	return len(s) == len(time.DateOnly) && !strings.Contains(s, "T")
}
