package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the inference module.
type Metrics struct {
	// Prediction latency, success or failure
	PredictLatency prometheus.Histogram

	// Outcomes by result ("success", "failure") and failure kind ("" on success)
	PredictOutcome *prometheus.CounterVec
}

// New creates inference metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers inference metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PredictLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "water_quality_predict_duration_seconds",
			Help:    "Duration of a single prediction including encoding",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}),
		PredictOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "water_quality_predictions_total",
			Help: "Predictions by outcome and internal failure kind",
		}, []string{"outcome", "kind"}),
	}
}

// ObservePredictLatency records how long one prediction took.
func (m *Metrics) ObservePredictLatency(d time.Duration) {
	if m != nil {
		m.PredictLatency.Observe(d.Seconds())
	}
}

// IncrementSuccess records a successful prediction.
func (m *Metrics) IncrementSuccess() {
	if m != nil {
		m.PredictOutcome.WithLabelValues("success", "").Inc()
	}
}

// IncrementFailure records a failed prediction by kind.
func (m *Metrics) IncrementFailure(kind string) {
	if m != nil {
		m.PredictOutcome.WithLabelValues("failure", kind).Inc()
	}
}
