// Package query plans and paginates filtered reads over the single table.
//
// A FilterRequest names an entity type, a set of attribute predicates and a
// page size. The Planner ranks the entity's indexes by selectivity and picks
// one access strategy:
//
//   - IndexQuery: the most selective index whose partition attributes are all
//     equality-constrained (or whose sort attribute is constrained, for
//     constant-partition indexes). Only that index's predicates are pushed to
//     the store; everything else is residual.
//   - FullScan: a table scan restricted by entity type, with every predicate
//     residual.
//
// The Paginator then loops: fetch a batch sized limit×multiplier, apply the
// residual predicates in memory, and stop once the page is full, the store
// is exhausted, or the scan cap is hit. The multiplier starts at 3 and grows
// by 1.5× per under-filled round up to 5.
//
//	p := query.NewPaginator(catalog.Defaults(), kv, query.DefaultConfig(), logger)
//	page, err := p.Page(ctx, query.FilterRequest{
//	    EntityType: "USER",
//	    Predicates: query.Predicates{
//	        "company":  query.Eq(query.String("Acme")),
//	        "jobTitle": query.Eq(query.String("Dev")),
//	    },
//	    Limit: 10,
//	})
//
// # Continuation Tokens
//
// A non-terminal page carries NextToken, an opaque versioned token that pins
// the strategy and the store cursor. Passing it back with the same predicates
// resumes exactly after the last returned item, even if the catalog changed
// in between. Tokens bound to other predicates or entity types are rejected
// with ErrInvalidContinuationToken.
//
// # Ordering
//
// Index strategies return items in index key order, reversed at the store for
// descending requests. Full scans return store order; when the catalog names
// an order attribute each page is sorted on its own, so ordering holds within
// a page but not across pages.
package query
