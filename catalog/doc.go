// Package catalog describes the secondary indexes of the single-table store
// and estimates which one best serves a set of filters.
//
// A [Catalog] is static configuration for one entity type: its filterable
// attributes, its indexes and their selectivity estimates. Catalogs are built
// once at startup, collected in a [Registry], and shared read-only by every
// request.
//
// # Selection
//
// [Catalog.Rank] returns the indexes able to serve a request, most selective
// first:
//
//	cands := users.Rank(map[string]catalog.Shape{
//	    "company":  catalog.Equality,
//	    "jobTitle": catalog.Equality,
//	})
//	// cands[0].Index.Name == "GSI_ByCompany" (0.1 beats 0.2)
//
// An empty ranking means no index applies and the caller must scan.
package catalog
