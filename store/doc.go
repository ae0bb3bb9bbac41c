// Package store reads the single DynamoDB table that holds every entity type.
//
// Records share one table and are told apart by the entityType attribute.
// Secondary indexes are addressed by name; the store itself knows nothing
// about which index serves which attribute.
//
// # Store Calls
//
// Every Query and Scan performs exactly one DynamoDB round-trip bounded by
// the request limit, and returns a Batch with the decoded records and an
// opaque Cursor for the next call:
//
//	b, err := s.Query(ctx, store.QueryRequest{
//	    IndexName:        "GSI_ByCompany",
//	    PartitionKeyAttr: "GSI_ByCompany_PK",
//	    PartitionValue:   "COMPANY#Acme",
//	    EntityType:       "USER",
//	    Limit:            30,
//	})
//
// Pagination across calls is the caller's job.
//
// # TTL
//
// Items with a ttl attribute in the past are treated as deleted. A filter
// expression excludes them server-side and IsExpired re-checks every decoded
// item, since DynamoDB deletes expired items lazily.
//
// # Errors
//
// Client errors are classified into ErrThrottled and ErrUnavailable
// (transient, see IsTransient) and ErrInvalidQuery (fatal). Context errors
// are returned unchanged.
package store
