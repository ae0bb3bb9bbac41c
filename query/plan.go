package query

import (
	"fmt"
	"strings"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/keys"
	"github.com/jacentio/lattice/store"
)

// StrategyKind identifies how a plan reads the store.
type StrategyKind string

const (
	IndexQuery StrategyKind = "index"
	FullScan   StrategyKind = "scan"
)

// Strategy is a self-contained description of the store access. It is pinned
// in continuation tokens, so it must not depend on the catalog once built.
type Strategy struct {
	Kind       StrategyKind `json:"kind"`
	EntityType string       `json:"entity"`

	// Index query fields.
	Index            string               `json:"index,omitempty"`
	PartitionKeyAttr string               `json:"pkAttr,omitempty"`
	PartitionValue   string               `json:"pkValue,omitempty"`
	SortKeyAttr      string               `json:"skAttr,omitempty"`
	Sort             *store.SortCondition `json:"sort,omitempty"`
	Reverse          bool                 `json:"reverse,omitempty"`

	// Pushed lists the predicates fully enforced by the store, entityType included.
	Pushed []string `json:"pushed"`

	// OrderAttr and Descending order each full-scan page.
	OrderAttr  string `json:"orderAttr,omitempty"`
	Descending bool   `json:"desc,omitempty"`
}

// ID is a short human-readable strategy identifier.
func (s Strategy) ID() string {
	if s.Kind == IndexQuery {
		return string(s.Kind) + ":" + s.Index
	}
	return string(s.Kind) + ":" + s.EntityType
}

// keyAttrs returns the index key attributes needed to resume inside the index.
func (s Strategy) keyAttrs() []string {
	if s.Kind != IndexQuery {
		return nil
	}
	return []string{s.PartitionKeyAttr, s.SortKeyAttr}
}

// QueryPlan is the store access chosen for one request.
type QueryPlan struct {
	Strategy Strategy

	// Residual holds the predicates applied in memory after each fetch.
	Residual Predicates
}

// Pushed returns the attributes served by the store.
func (p QueryPlan) Pushed() []string {
	return p.Strategy.Pushed
}

func (p QueryPlan) String() string {
	var b strings.Builder
	b.WriteString(p.Strategy.ID())
	if p.Strategy.Kind == IndexQuery {
		fmt.Fprintf(&b, " %s=%q", p.Strategy.PartitionKeyAttr, p.Strategy.PartitionValue)
		if s := p.Strategy.Sort; s != nil {
			fmt.Fprintf(&b, " %s %s [%q, %q]", s.Attr, s.Op, s.Lower, s.Upper)
		}
		if p.Strategy.Reverse {
			b.WriteString(" reverse")
		}
	}
	fmt.Fprintf(&b, " pushed=%v residual=%v", p.Strategy.Pushed, p.Residual.Attrs())
	return b.String()
}

// Planner selects a QueryPlan from the catalogs. It holds no mutable state
// and is safe for concurrent use.
type Planner struct {
	catalogs *catalog.Registry
}

// NewPlanner creates a planner over the given catalogs.
func NewPlanner(catalogs *catalog.Registry) *Planner {
	return &Planner{catalogs: catalogs}
}

// Catalog returns the catalog of an entity type.
func (p *Planner) Catalog(entityType string) (*catalog.Catalog, error) {
	return p.catalogs.Lookup(entityType)
}

// Select validates the request predicates and picks one access strategy.
//
// The most selective index able to serve an equality predicate is queried and
// every other predicate is applied in memory. When no index applies, the plan
// scans the table restricted by entity type.
func (p *Planner) Select(req FilterRequest) (QueryPlan, error) {
	cat, err := p.catalogs.Lookup(req.EntityType)
	if err != nil {
		return QueryPlan{}, err
	}
	if err := req.Predicates.validate(cat); err != nil {
		return QueryPlan{}, err
	}

	descending := cat.Descending
	switch req.Order {
	case OrderAsc:
		descending = false
	case OrderDesc:
		descending = true
	}

	ranked := cat.Rank(req.Predicates.shapes())
	if len(ranked) == 0 {
		return planFromStrategy(Strategy{
			Kind:       FullScan,
			EntityType: cat.EntityType,
			Pushed:     []string{catalog.EntityTypeAttr},
			OrderAttr:  cat.OrderAttr,
			Descending: descending,
		}, req.Predicates), nil
	}

	idx := ranked[0].Index
	pushed := []string{catalog.EntityTypeAttr}

	literals := make(map[string]string)
	for _, attr := range idx.PartitionAttrs() {
		literals[attr] = req.Predicates[attr].Eq.String()
		if !contains(pushed, attr) {
			pushed = append(pushed, attr)
		}
	}
	pkValue, ok := keys.Interpolate(idx.PartitionTemplate, literals)
	if !ok {
		return QueryPlan{}, fmt.Errorf("%w: %s: partition template %q not satisfied", store.ErrInvalidQuery, idx.Name, idx.PartitionTemplate)
	}

	s := Strategy{
		Kind:             IndexQuery,
		EntityType:       cat.EntityType,
		Index:            idx.Name,
		PartitionKeyAttr: idx.PartitionKeyAttr,
		PartitionValue:   pkValue,
		SortKeyAttr:      idx.SortKeyAttr,
		Reverse:          descending,
	}

	if c, constrained := req.Predicates[idx.SortAttr]; constrained && idx.SortAttr != "" && !contains(pushed, idx.SortAttr) {
		cond, exact := sortCondition(idx, c)
		s.Sort = &cond
		if exact {
			pushed = append(pushed, idx.SortAttr)
		}
	}
	s.Pushed = pushed

	return planFromStrategy(s, req.Predicates), nil
}

// planFromStrategy derives the residual predicates of a pinned strategy.
func planFromStrategy(s Strategy, preds Predicates) QueryPlan {
	return QueryPlan{
		Strategy: s,
		Residual: preds.without(s.Pushed),
	}
}

// sortCondition encodes a constraint on the index sort attribute as an
// inclusive key range. exact is false when the key range is wider than the
// constraint and the predicate must also be applied in memory.
func sortCondition(idx catalog.Index, c Constraint) (store.SortCondition, bool) {
	lo, hi := c.Min, c.Max
	if c.Eq != nil {
		lo, hi = c.Eq, c.Eq
	}

	exact := idx.SortFormat == catalog.SortNumber
	lower, upper := idx.SortPrefix, idx.SortPrefix

	if lo != nil {
		enc, ok := encodeBound(idx.SortFormat, *lo, false)
		lower += enc
		exact = exact && ok
	}
	if hi != nil {
		enc, ok := encodeBound(idx.SortFormat, *hi, true)
		upper += enc
		exact = exact && ok
	}
	upper += keys.UpperSentinel

	return store.SortCondition{
		Attr:  idx.SortKeyAttr,
		Op:    store.SortBetween,
		Lower: lower,
		Upper: upper,
	}, exact
}

func encodeBound(format catalog.SortFormat, v Value, upper bool) (string, bool) {
	switch format {
	case catalog.SortNumber:
		return keys.NumberBound(v.num, upper)
	case catalog.SortDate:
		return keys.DateBound(v.t), false
	case catalog.SortTime:
		return keys.Timestamp(v.t), false
	default:
		return v.str, false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
