package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitDenied   *prometheus.CounterVec
	RateLimitFallback prometheus.Counter
	RateLimitDegraded prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RateLimitDenied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "water_quality_ratelimit_denied_total",
			Help: "Requests rejected by the rate limiter, by scope",
		}, []string{"scope"}),
		RateLimitFallback: f.NewCounter(prometheus.CounterOpts{
			Name: "water_quality_ratelimit_fallback_checks_total",
			Help: "Rate limit checks answered by the in-memory fallback store",
		}),
		RateLimitDegraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "water_quality_ratelimit_degraded",
			Help: "1 while the shared rate limit store is bypassed by the circuit breaker",
		}),
	}
}

func (m *Metrics) IncrementDenied(scope string) {
	if m != nil {
		m.RateLimitDenied.WithLabelValues(scope).Inc()
	}
}

func (m *Metrics) IncrementFallback() {
	if m != nil {
		m.RateLimitFallback.Inc()
	}
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.RateLimitDegraded.Set(1)
		return
	}
	m.RateLimitDegraded.Set(0)
}
