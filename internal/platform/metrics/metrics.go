package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process-wide Prometheus metrics describing what was loaded at startup.
type Metrics struct {
	BundleInfo          *prometheus.GaugeVec
	VocabularySize      prometheus.Gauge
	SelectableCountries prometheus.Gauge
	UnknownSelectable   prometheus.Gauge
}

// New creates and registers the startup metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BundleInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_quality_model_bundle_info",
			Help: "Loaded model bundle, labelled by model kind and bundle version (always 1)",
		}, []string{"kind", "version"}),
		VocabularySize: f.NewGauge(prometheus.GaugeOpts{
			Name: "water_quality_encoder_vocabulary_size",
			Help: "Number of country names the category encoder recognizes",
		}),
		SelectableCountries: f.NewGauge(prometheus.GaugeOpts{
			Name: "water_quality_reference_countries",
			Help: "Number of countries offered by the reference dataset",
		}),
		UnknownSelectable: f.NewGauge(prometheus.GaugeOpts{
			Name: "water_quality_reference_countries_unknown_to_encoder",
			Help: "Selectable countries the encoder cannot encode; predictions for them always fail",
		}),
	}
}

// SetBundle records the loaded bundle's identity and vocabulary size.
func (m *Metrics) SetBundle(kind, version string, vocabulary int) {
	if m == nil {
		return
	}
	m.BundleInfo.WithLabelValues(kind, version).Set(1)
	m.VocabularySize.Set(float64(vocabulary))
}

// SetReference records the reference dataset size and its drift from the encoder vocabulary.
func (m *Metrics) SetReference(selectable, unknown int) {
	if m == nil {
		return
	}
	m.SelectableCountries.Set(float64(selectable))
	m.UnknownSelectable.Set(float64(unknown))
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
