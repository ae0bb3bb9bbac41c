package api_test

import (
	"context"
	"sync"
	"time"

	"github.com/jacentio/lattice/api"
	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

// stubKV serves every matching record in a single batch.
type stubKV struct {
	mu      sync.Mutex
	records []store.Record
	err     error
	calls   int
}

func (s *stubKV) Query(_ context.Context, req store.QueryRequest) (store.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return store.Batch{}, s.err
	}

	var items []store.Record
	for _, r := range s.records {
		if r.EntityType == req.EntityType && r.Attributes[req.PartitionKeyAttr] == req.PartitionValue {
			items = append(items, r)
		}
	}
	return store.Batch{Items: items, Scanned: len(items)}, nil
}

func (s *stubKV) Scan(_ context.Context, req store.ScanRequest) (store.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return store.Batch{}, s.err
	}

	var items []store.Record
	for _, r := range s.records {
		if r.EntityType == req.EntityType {
			items = append(items, r)
		}
	}
	return store.Batch{Items: items, Scanned: len(s.records)}, nil
}

func (s *stubKV) ResumeAfter(rec store.Record, _ ...string) (store.Cursor, error) {
	return store.Cursor(rec.PartitionKey + "|" + rec.SortKey), nil
}

func userRecord(id, lastName, company string) store.Record {
	return store.Record{
		PartitionKey: "USER#" + id,
		SortKey:      "PROFILE",
		EntityType:   "USER",
		Attributes: map[string]any{
			"PK":               "USER#" + id,
			"SK":               "PROFILE",
			"entityType":       "USER",
			"id":               id,
			"lastName":         lastName,
			"company":          company,
			"hostedEventCount": float64(1),
			"GSI_ByCompany_PK": "COMPANY#" + company,
			"GSI_ByCompany_SK": "LASTNAME#" + lastName + "#USER#" + id,
		},
	}
}

func newService(kv store.KV) *api.Service {
	cfg := query.DefaultConfig()
	cfg.MaxBackoff = time.Millisecond
	return api.NewService(query.NewPaginator(catalog.Defaults(), kv, cfg, nil), nil)
}

func lookup(entityType string) *catalog.Catalog {
	cat, err := catalog.Defaults().Lookup(entityType)
	if err != nil {
		panic(err)
	}
	return cat
}
