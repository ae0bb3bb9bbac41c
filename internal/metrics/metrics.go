// Package metrics exposes Prometheus instruments for the pagination engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesTotal counts pages served by entity type and access strategy.
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_pages_total",
			Help: "Total number of result pages served",
		},
		[]string{"entity", "strategy"},
	)
	// FetchRounds is the number of store round-trips needed to fill one page.
	FetchRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lattice_fetch_rounds",
			Help:    "Store round-trips per page",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 16, 32, 64},
		},
	)
	// ItemsScanned counts raw items read from the store before residual filtering.
	ItemsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_items_scanned_total",
			Help: "Total number of raw items read from the store",
		},
		[]string{"entity"},
	)
	// StoreRetries counts retried store calls by error class.
	StoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_store_retries_total",
			Help: "Total number of retried store calls",
		},
		[]string{"reason"},
	)
	// WorkCapHits counts pages cut short by the scan cap or round limit.
	WorkCapHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_work_cap_hits_total",
			Help: "Total number of pages that stopped at the work cap",
		},
		[]string{"entity"},
	)
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lattice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
