package middleware

import (
	"context"
	"log/slog"
	"time"

	"waterquality/internal/ratelimit/metrics"
	"waterquality/internal/ratelimit/models"
	"waterquality/internal/ratelimit/store/bucket"
)

// Store is a sliding window bucket store.
type Store interface {
	AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.Result, error)
}

// Limiter applies one limit per key against a primary store, falling back to
// an in-memory store while the primary is failing.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *CircuitBreaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type LimiterOption func(*Limiter)

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithLimiterMetrics(m *metrics.Metrics) LimiterOption {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// NewLimiter builds a limiter admitting limit requests per window. A nil
// primary means the in-memory store is the only store.
func NewLimiter(primary Store, limit int, window time.Duration, opts ...LimiterOption) *Limiter {
	fallback := bucket.NewInMemoryBucketStore()
	if primary == nil {
		primary = fallback
	}
	l := &Limiter{
		primary:  primary,
		fallback: fallback,
		breaker:  newCircuitBreaker(),
		limit:    limit,
		window:   window,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records one request for key.
func (l *Limiter) Check(ctx context.Context, key string) (*models.Result, error) {
	if l.breaker.AllowPrimary(l.now()) {
		result, err := l.primary.AllowN(ctx, key, 1, l.limit, l.window)
		if err == nil {
			if l.breaker.IsOpen() {
				if l.breaker.RecordSuccess() {
					l.logger.InfoContext(ctx, "rate limit store recovered")
					l.metrics.SetDegraded(false)
				}
			} else {
				l.breaker.RecordSuccess()
			}
			if !l.breaker.IsOpen() {
				return result, nil
			}
		} else {
			wasOpen := l.breaker.IsOpen()
			if l.breaker.RecordFailure() && !wasOpen {
				l.logger.ErrorContext(ctx, "rate limit store failing, using in-memory fallback", "error", err)
				l.metrics.SetDegraded(true)
			} else {
				l.logger.WarnContext(ctx, "rate limit store error", "error", err)
			}
		}
	}

	result, err := l.fallback.AllowN(ctx, key, 1, l.limit, l.window)
	if err != nil {
		return nil, err
	}
	result.Degraded = l.primary != l.fallback
	l.metrics.IncrementFallback()
	return result, nil
}
