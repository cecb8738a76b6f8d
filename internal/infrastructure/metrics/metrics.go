package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes used as the "outcome" label
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics holds the service collectors on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	ProductsNormalized *prometheus.CounterVec
	Imports            *prometheus.CounterVec
	QualityScore       *prometheus.HistogramVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ProductsNormalized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_products_normalized_total",
				Help: "Number of raw products normalized",
			},
			[]string{"platform"},
		),
		Imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_imports_total",
				Help: "Number of import attempts by outcome",
			},
			[]string{"platform", "outcome"},
		),
		QualityScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_quality_score",
				Help:    "Validation quality score of imported products",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"platform"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.ProductsNormalized,
		m.Imports,
		m.QualityScore,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveNormalized counts one normalized product
func (m *Metrics) ObserveNormalized(platform string) {
	m.ProductsNormalized.WithLabelValues(platform).Inc()
}

// ObserveImport counts one import attempt and records its quality score
func (m *Metrics) ObserveImport(platform string, accepted bool, score int) {
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	m.Imports.WithLabelValues(platform, outcome).Inc()
	m.QualityScore.WithLabelValues(platform).Observe(float64(score))
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
