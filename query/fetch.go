package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	smithytime "github.com/aws/smithy-go/time"
	"golang.org/x/time/rate"

	"github.com/jacentio/lattice/internal/metrics"
	"github.com/jacentio/lattice/store"
)

// Fetcher performs single bounded store calls for a strategy and retries
// transient store errors with exponential backoff.
type Fetcher struct {
	kv      store.KV
	backoff *retry.ExponentialJitterBackoff
	limiter *rate.Limiter
	config  Config
	logger  *slog.Logger
}

// NewFetcher creates a fetcher over kv. If logger is nil, slog.Default() is used.
func NewFetcher(kv store.KV, config Config, logger *slog.Logger) *Fetcher {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fetcher{
		kv:      kv,
		backoff: retry.NewExponentialJitterBackoff(config.MaxBackoff),
		config:  config,
		logger:  logger,
	}
	if config.ReadsPerSecond > 0 {
		burst := max(1, int(math.Ceil(config.ReadsPerSecond)))
		f.limiter = rate.NewLimiter(rate.Limit(config.ReadsPerSecond), burst)
	}
	return f
}

// Fetch performs one store call for s starting at cursor and returning at
// most batchSize raw items.
func (f *Fetcher) Fetch(ctx context.Context, s Strategy, cursor store.Cursor, batchSize int) (store.Batch, error) {
	if batchSize <= 0 || batchSize > math.MaxInt32 {
		return store.Batch{}, fmt.Errorf("%w: batch size %d", store.ErrInvalidQuery, batchSize)
	}

	var lastErr error
	for attempt := 1; attempt <= f.config.MaxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				if ctx.Err() == nil {
					// The limiter refuses up front a wait that would outlast the deadline.
					err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
				}
				return store.Batch{}, err
			}
		}

		batch, err := f.call(ctx, s, cursor, int32(batchSize))
		if err == nil {
			return batch, nil
		}
		if !store.IsTransient(err) {
			return store.Batch{}, err
		}

		lastErr = err
		if attempt == f.config.MaxAttempts {
			break
		}

		delay, berr := f.backoff.BackoffDelay(attempt, err)
		if berr != nil {
			return store.Batch{}, err
		}

		reason := "unavailable"
		if errors.Is(err, store.ErrThrottled) {
			reason = "throttled"
		}
		metrics.StoreRetries.WithLabelValues(reason).Inc()
		f.logger.Warn("retrying store call",
			"strategy", s.ID(),
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		if err := smithytime.SleepWithContext(ctx, delay); err != nil {
			return store.Batch{}, err
		}
	}

	return store.Batch{}, fmt.Errorf("after %d attempts: %w", f.config.MaxAttempts, lastErr)
}

func (f *Fetcher) call(ctx context.Context, s Strategy, cursor store.Cursor, limit int32) (store.Batch, error) {
	switch s.Kind {
	case IndexQuery:
		return f.kv.Query(ctx, store.QueryRequest{
			IndexName:        s.Index,
			PartitionKeyAttr: s.PartitionKeyAttr,
			PartitionValue:   s.PartitionValue,
			Sort:             s.Sort,
			EntityType:       s.EntityType,
			Cursor:           cursor,
			Limit:            limit,
			Reverse:          s.Reverse,
		})
	case FullScan:
		return f.kv.Scan(ctx, store.ScanRequest{
			EntityType: s.EntityType,
			Cursor:     cursor,
			Limit:      limit,
		})
	default:
		return store.Batch{}, fmt.Errorf("%w: unknown strategy %q", store.ErrInvalidQuery, s.Kind)
	}
}
