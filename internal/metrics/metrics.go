// Package metrics exposes prediction metrics in the Prometheus format.
//
// nil *Metrics 는 아무것도 기록하지 않음 (테스트, CLI 용)
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeIncident    = "incident"
	OutcomeNotIncident = "not_incident"
	OutcomeError       = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	predictions       *prometheus.CounterVec
	probability       prometheus.Histogram
	duration          prometheus.Histogram
	artifactsLoaded   prometheus.Gauge
	unknownCategories *prometheus.CounterVec
}

// New creates the metric set on a private registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by outcome.",
		}, []string{"outcome"}),
		probability: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probability",
			Help:      "Incident probability returned by the classifier.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 0.95, 1.0},
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "Time spent encoding and classifying one alert.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		artifactsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifacts_loaded",
			Help:      "1 when the vocabulary and classifier artifacts are loaded.",
		}),
		unknownCategories: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_category_total",
			Help:      "Alerts whose categorical value was not in the training vocabulary, by field.",
		}, []string{"field"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePrediction(isIncident bool, probability float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeNotIncident
	if isIncident {
		outcome = OutcomeIncident
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.probability.Observe(probability)
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveError(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(OutcomeError).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) SetArtifactsLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.artifactsLoaded.Set(1)
		return
	}
	m.artifactsLoaded.Set(0)
}

func (m *Metrics) IncUnknownCategory(fields ...string) {
	if m == nil {
		return
	}
	for _, field := range fields {
		m.unknownCategories.WithLabelValues(field).Inc()
	}
}
