package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for report generation.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec // labels: level={Low,Moderate,High}
	ReportFailures   *prometheus.CounterVec // labels: dependency={weather,air_quality,document_store,other}

	// External call metrics.
	ProviderCalls    *prometheus.CounterVec   // labels: provider, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: provider

	DocumentsRetrieved prometheus.Histogram
	DependencyUp       *prometheus.GaugeVec // labels: dependency
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Risk reports produced, by risk level.",
		}, []string{"level"}),
		ReportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_failures_total",
			Help:      "Risk report requests that failed, by failing dependency.",
		}, []string{"dependency"}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "External provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "External provider call duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		DocumentsRetrieved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "documents_retrieved",
			Help:      "Deduplicated documents retrieved per report.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		DependencyUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_up",
			Help:      "1 when the last readiness probe of the dependency succeeded, 0 otherwise.",
		}, []string{"dependency"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportFailures,
		m.ProviderCalls,
		m.ProviderDuration,
		m.DocumentsRetrieved,
		m.DependencyUp,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveProviderCall records the outcome and duration of one external call.
// A nil receiver is a no-op.
func (m *Metrics) ObserveProviderCall(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveReport records a finished report.
func (m *Metrics) ObserveReport(level string, documents int) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(level).Inc()
	m.DocumentsRetrieved.Observe(float64(documents))
}

// ObserveFailure records a failed report attributed to dependency.
func (m *Metrics) ObserveFailure(dependency string) {
	if m == nil {
		return
	}
	if dependency == "" {
		dependency = "other"
	}
	m.ReportFailures.WithLabelValues(dependency).Inc()
}

// SetDependencyUp records the latest probe result for dependency.
func (m *Metrics) SetDependencyUp(dependency string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.DependencyUp.WithLabelValues(dependency).Set(v)
}
