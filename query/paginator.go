package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/metrics"
	"github.com/jacentio/lattice/store"
)

// Paginator serves pages of filtered records. It keeps no per-request state
// and is safe for concurrent use.
type Paginator struct {
	planner *Planner
	fetcher *Fetcher
	kv      store.KV
	config  Config
	logger  *slog.Logger
}

// NewPaginator creates a paginator reading kv with the given catalogs.
// If logger is nil, slog.Default() is used.
func NewPaginator(catalogs *catalog.Registry, kv store.KV, config Config, logger *slog.Logger) *Paginator {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{
		planner: NewPlanner(catalogs),
		fetcher: NewFetcher(kv, config, logger),
		kv:      kv,
		config:  config,
		logger:  logger,
	}
}

// Planner returns the planner used for fresh requests.
func (p *Paginator) Planner() *Planner {
	return p.planner
}

// Explain returns the plan a request would run with, without touching the store.
// A token in the request pins its strategy as it would in Page.
func (p *Paginator) Explain(req FilterRequest) (QueryPlan, error) {
	plan, _, err := p.resolve(req)
	if err != nil {
		return QueryPlan{}, &Error{Op: "plan", Entity: req.EntityType, Err: err}
	}
	return plan, nil
}

// Page fetches until the requested number of matches is collected, the store
// is exhausted, or the work cap is reached.
//
// A page shorter than the limit is not the end of the data unless NextToken
// is empty. Cancellation between rounds returns the items collected so far
// with a resumable token; cancellation before the first round completes
// returns the context error.
func (p *Paginator) Page(ctx context.Context, req FilterRequest) (ResultPage, error) {
	limit, err := p.limit(req.Limit)
	if err != nil {
		return ResultPage{}, &Error{Op: "page", Entity: req.EntityType, Err: err}
	}

	plan, tok, err := p.resolve(req)
	if err != nil {
		return ResultPage{}, &Error{Op: "page", Entity: req.EntityType, Err: err}
	}
	if tok != nil && tok.Exhausted {
		return ResultPage{Items: []store.Record{}, Plan: plan}, nil
	}

	var cursor store.Cursor
	if tok != nil {
		cursor = tok.Cursor
	}

	page, err := p.run(ctx, plan, cursor, limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			err = fmt.Errorf("%w: %w", ErrInvalidContinuationToken, err)
		}
		if errors.Is(err, store.ErrInvalidQuery) {
			p.logger.Error("store rejected planned query",
				"entity", req.EntityType,
				"strategy", plan.Strategy.ID(),
				"error", err,
			)
		}
		return ResultPage{}, &Error{Op: "page", Entity: req.EntityType, Err: err}
	}

	if page.hasMore {
		next, err := ContinuationToken{
			Version:     TokenVersion,
			Strategy:    plan.Strategy,
			Cursor:      page.cursor,
			Fingerprint: fingerprint(plan.Strategy.EntityType, req.Predicates, req.Order),
		}.Encode()
		if err != nil {
			return ResultPage{}, &Error{Op: "page", Entity: req.EntityType, Err: err}
		}
		page.NextToken = next
	}

	metrics.PagesTotal.WithLabelValues(plan.Strategy.EntityType, string(plan.Strategy.Kind)).Inc()
	metrics.FetchRounds.Observe(float64(page.Rounds))
	metrics.ItemsScanned.WithLabelValues(plan.Strategy.EntityType).Add(float64(page.Scanned))
	if page.Capped {
		metrics.WorkCapHits.WithLabelValues(plan.Strategy.EntityType).Inc()
	}

	p.logger.Info("page served",
		"entity", plan.Strategy.EntityType,
		"strategy", plan.Strategy.ID(),
		"items", len(page.Items),
		"rounds", page.Rounds,
		"scanned", page.Scanned,
		"capped", page.Capped,
		"hasMore", page.NextToken != "",
	)

	return page.ResultPage, nil
}

// resolve returns the plan for req: pinned by its token, or freshly selected.
func (p *Paginator) resolve(req FilterRequest) (QueryPlan, *ContinuationToken, error) {
	if req.Token == "" {
		plan, err := p.planner.Select(req)
		return plan, nil, err
	}

	cat, err := p.planner.Catalog(req.EntityType)
	if err != nil {
		return QueryPlan{}, nil, err
	}
	if err := req.Predicates.validate(cat); err != nil {
		return QueryPlan{}, nil, err
	}

	tok, err := DecodeToken(req.Token)
	if err != nil {
		return QueryPlan{}, nil, err
	}
	if tok.Strategy.EntityType != cat.EntityType {
		return QueryPlan{}, nil, fmt.Errorf("%w: issued for %s", ErrInvalidContinuationToken, tok.Strategy.EntityType)
	}
	if tok.Fingerprint != fingerprint(cat.EntityType, req.Predicates, req.Order) {
		return QueryPlan{}, nil, fmt.Errorf("%w: filters changed since the token was issued", ErrInvalidContinuationToken)
	}

	return planFromStrategy(tok.Strategy, req.Predicates), &tok, nil
}

func (p *Paginator) limit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, requested)
	case requested == 0:
		return p.config.DefaultLimit, nil
	case requested > p.config.MaxLimit:
		return p.config.MaxLimit, nil
	}
	return requested, nil
}

// pageState is a ResultPage under construction.
type pageState struct {
	ResultPage
	cursor  store.Cursor
	hasMore bool
}

// run is the fetch/filter loop.
func (p *Paginator) run(ctx context.Context, plan QueryPlan, cursor store.Cursor, limit int) (pageState, error) {
	st := pageState{ResultPage: ResultPage{Plan: plan}, cursor: cursor}
	multiplier := p.config.InitialMultiplier
	var matched []store.Record

	for {
		if err := ctx.Err(); err != nil {
			if st.Rounds == 0 {
				return pageState{}, err
			}
			p.logger.Debug("page interrupted", "strategy", plan.Strategy.ID(), "rounds", st.Rounds, "error", err)
			break
		}
		if st.Rounds >= p.config.MaxRounds || st.Scanned >= p.config.ScanCap {
			st.Capped = true
			break
		}

		batchSize := int(math.Ceil(float64(limit) * multiplier))
		batchSize = min(batchSize, p.config.MaxBatchSize, p.config.ScanCap-st.Scanned)

		batch, err := p.fetcher.Fetch(ctx, plan.Strategy, st.cursor, batchSize)
		if err != nil {
			if st.Rounds > 0 && interrupted(ctx, err) {
				p.logger.Debug("page interrupted", "strategy", plan.Strategy.ID(), "rounds", st.Rounds, "error", err)
				break
			}
			return pageState{}, err
		}

		st.Rounds++
		st.Scanned += batch.Scanned
		st.cursor = batch.Cursor
		st.hasMore = batch.HasMore

		hits := Filter(batch.Items, plan.Residual)
		matched = append(matched, hits...)

		p.logger.Debug("fetch round",
			"strategy", plan.Strategy.ID(),
			"round", st.Rounds,
			"batchSize", batchSize,
			"fetched", len(batch.Items),
			"matched", len(hits),
			"scanned", st.Scanned,
		)

		if len(matched) >= limit || !st.hasMore {
			break
		}
		multiplier = min(multiplier*p.config.EscalationFactor, p.config.MaxMultiplier)
	}

	if len(matched) > limit {
		matched = matched[:limit]
		resume, err := p.kv.ResumeAfter(matched[limit-1], plan.Strategy.keyAttrs()...)
		if err != nil {
			return pageState{}, err
		}
		st.cursor = resume
		st.hasMore = true
	}
	if !st.hasMore {
		st.cursor = nil
	}

	if plan.Strategy.Kind == FullScan && plan.Strategy.OrderAttr != "" {
		sortPage(matched, plan.Strategy.OrderAttr, plan.Strategy.Descending)
	}

	if matched == nil {
		matched = []store.Record{}
	}
	st.Items = matched
	return st, nil
}

// interrupted reports whether err ended a round because the request ran out
// of time rather than because the store failed.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// sortPage orders one full-scan page by attr. Records missing the attribute
// sort last. Ordering is per page only.
func sortPage(items []store.Record, attr string, descending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := items[i].Attributes[attr]
		b, bok := items[j].Attributes[attr]
		if !aok || !bok {
			return aok && !bok
		}
		c := compareAny(a, b)
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func compareAny(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			// Stored timestamps share one fixed-width layout, so string
			// order is chronological.
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return 0
}
