package query

import (
	"github.com/jacentio/lattice/store"
)

// Order selects the direction results are returned in.
type Order string

const (
	OrderDefault Order = ""     // catalog default
	OrderAsc     Order = "asc"  // ascending by index key or order attribute
	OrderDesc    Order = "desc" // most recent first
)

// FilterRequest is one page request.
type FilterRequest struct {
	EntityType string
	Predicates Predicates

	// Limit is the number of matched items wanted. Zero means the configured default.
	Limit int

	// Token resumes a previous pagination sequence.
	Token string

	Order Order
}

// ResultPage is one page of matched records.
type ResultPage struct {
	Items []store.Record

	// NextToken resumes after this page; empty when the data is exhausted.
	NextToken string

	// Plan is the plan the page was served with.
	Plan QueryPlan

	// Rounds is the number of store calls made.
	Rounds int

	// Scanned is the number of raw items read.
	Scanned int

	// Capped is set when the page stopped at the work cap before filling.
	Capped bool
}

// HasMore reports whether another page may exist.
func (p ResultPage) HasMore() bool {
	return p.NextToken != ""
}
