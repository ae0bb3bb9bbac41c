package query_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/keys"
	"github.com/jacentio/lattice/store"
)

// --- In-memory store ---

// memKV is an in-memory store.KV with DynamoDB paging semantics: Limit bounds
// the items evaluated, and the entity filter runs after the limit.
type memKV struct {
	mu      sync.Mutex
	records []store.Record

	queries  []store.QueryRequest
	scans    []store.ScanRequest
	errs     []error // returned by the next calls, in order
	onCall   func(call int)
	numCalls int
}

func newMemKV(records ...store.Record) *memKV {
	return &memKV{records: records}
}

func (m *memKV) Query(_ context.Context, req store.QueryRequest) (store.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, req)
	if err := m.next(); err != nil {
		return store.Batch{}, err
	}

	skAttr := strings.TrimSuffix(req.PartitionKeyAttr, "_PK") + "_SK"
	var part []store.Record
	for _, r := range m.records {
		if r.Attributes[req.PartitionKeyAttr] != req.PartitionValue {
			continue
		}
		if c := req.Sort; c != nil {
			sk, _ := r.Attributes[c.Attr].(string)
			if !sortMatches(*c, sk) {
				continue
			}
		}
		part = append(part, r)
	}

	sort.SliceStable(part, func(i, j int) bool {
		a, _ := part[i].Attributes[skAttr].(string)
		b, _ := part[j].Attributes[skAttr].(string)
		if a != b {
			return a < b
		}
		return keyOf(part[i]) < keyOf(part[j])
	})
	if req.Reverse {
		for i, j := 0, len(part)-1; i < j; i, j = i+1, j-1 {
			part[i], part[j] = part[j], part[i]
		}
	}

	return page(part, req.Cursor, int(req.Limit), req.EntityType)
}

func (m *memKV) Scan(_ context.Context, req store.ScanRequest) (store.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans = append(m.scans, req)
	if err := m.next(); err != nil {
		return store.Batch{}, err
	}

	return page(m.records, req.Cursor, int(req.Limit), req.EntityType)
}

func (m *memKV) ResumeAfter(rec store.Record, _ ...string) (store.Cursor, error) {
	return store.Cursor(keyOf(rec)), nil
}

func (m *memKV) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries) + len(m.scans)
}

func (m *memKV) next() error {
	m.numCalls++
	if m.onCall != nil {
		m.onCall(m.numCalls)
	}
	if len(m.errs) == 0 {
		return nil
	}
	err := m.errs[0]
	m.errs = m.errs[1:]
	return err
}

func keyOf(r store.Record) string {
	return r.PartitionKey + "|" + r.SortKey
}

func sortMatches(c store.SortCondition, sk string) bool {
	switch c.Op {
	case store.SortEQ:
		return sk == c.Lower
	case store.SortBetween:
		return sk >= c.Lower && sk <= c.Upper
	case store.SortGE:
		return sk >= c.Lower
	case store.SortLE:
		return sk <= c.Upper
	}
	return false
}

func page(ordered []store.Record, cursor store.Cursor, limit int, entityType string) (store.Batch, error) {
	start := 0
	if len(cursor) > 0 {
		start = -1
		for i, r := range ordered {
			if keyOf(r) == string(cursor) {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return store.Batch{}, fmt.Errorf("%w: %q", store.ErrInvalidCursor, cursor)
		}
	}

	end := len(ordered)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	b := store.Batch{Items: []store.Record{}, Scanned: end - start}
	for _, r := range ordered[start:end] {
		if entityType == "" || r.EntityType == entityType {
			b.Items = append(b.Items, r)
		}
	}
	if end < len(ordered) && end > start {
		b.Cursor = store.Cursor(keyOf(ordered[end-1]))
		b.HasMore = true
	}
	return b, nil
}

// --- Mock store ---

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Query(ctx context.Context, req store.QueryRequest) (store.Batch, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(store.Batch), args.Error(1)
}

func (m *mockKV) Scan(ctx context.Context, req store.ScanRequest) (store.Batch, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(store.Batch), args.Error(1)
}

func (m *mockKV) ResumeAfter(rec store.Record, keyAttrs ...string) (store.Cursor, error) {
	args := m.Called(rec, keyAttrs)
	return args.Get(0).(store.Cursor), args.Error(1)
}

// --- Fixtures ---

func user(id, lastName, company, jobTitle string, hosted int64) store.Record {
	return store.Record{
		PartitionKey: keys.Entity(catalog.EntityUser, id),
		SortKey:      "PROFILE",
		EntityType:   catalog.EntityUser,
		Attributes: map[string]any{
			"entityType":                catalog.EntityUser,
			"id":                        id,
			"lastName":                  lastName,
			"company":                   company,
			"jobTitle":                  jobTitle,
			"hostedEventCount":          float64(hosted),
			"GSI_ByCompany_PK":          "COMPANY#" + company,
			"GSI_ByCompany_SK":          keys.LastName(lastName, id),
			"GSI_ByJobTitle_PK":         "JOBTITLE#" + jobTitle,
			"GSI_ByJobTitle_SK":         keys.LastName(lastName, id),
			"GSI_UsersByHostedCount_PK": "USER_PROFILE",
			"GSI_UsersByHostedCount_SK": keys.Counter("HOSTED_COUNT#", hosted, id),
		},
	}
}

var emailEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func email(i int, status, campaign string) store.Record {
	id := fmt.Sprintf("e%03d", i)
	created := keys.Timestamp(emailEpoch.Add(time.Duration(i) * time.Minute))
	return store.Record{
		PartitionKey: keys.Entity(catalog.EntityEmail, id),
		SortKey:      "ANALYTICS",
		EntityType:   catalog.EntityEmail,
		Attributes: map[string]any{
			"entityType":              catalog.EntityEmail,
			"id":                      id,
			"status":                  status,
			"utmCampaign":             campaign,
			"createdAt":               created,
			"GSI_EmailsByCampaign_PK": "CAMPAIGN#" + campaign,
			"GSI_EmailsByCampaign_SK": "CREATED#" + created + "#EMAIL#" + id,
		},
	}
}

func ids(records []store.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Attributes["id"].(string))
	}
	return out
}
