// Package metrics provides Prometheus metrics for the impactboard engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Reconciliation metrics.
	recordsProcessed prometheus.Counter
	recordsDropped   prometheus.Counter
	issuesLogged     *prometheus.CounterVec
	fetchFailures    prometheus.Counter
	runsTotal        prometheus.Counter
	runDuration      prometheus.Histogram

	// State gauges.
	entitiesTracked prometheus.Gauge
	issuesTotal     prometheus.Gauge
	lastRunUnix     prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "impactboard",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_processed_total",
		Help:      "Total number of raw records ingested into observations",
	})

	m.recordsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_dropped_total",
		Help:      "Total number of raw records dropped for lack of an identifier",
	})

	m.issuesLogged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "issues_logged_total",
		Help:      "Total number of data-quality issues logged, by kind",
	}, []string{"kind"})

	m.fetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_failures_total",
		Help:      "Total number of cohort/table fetches that failed",
	})

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconciliation_runs_total",
		Help:      "Total number of completed reconciliation runs",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconciliation_run_duration_milliseconds",
		Help:      "Histogram of reconciliation run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.entitiesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_tracked",
		Help:      "Number of entities in the latest reconciled bundle",
	})

	m.issuesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "issues_current",
		Help:      "Number of issues in the latest reconciled bundle",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed reconciliation run",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers backed by the global manager.

// RecordRecordProcessed increments the processed-record counter.
func RecordRecordProcessed() { globalManager.recordsProcessed.Inc() }

// RecordRecordDropped increments the dropped-record counter.
func RecordRecordDropped() { globalManager.recordsDropped.Inc() }

// RecordIssue increments the issue counter for the given kind.
func RecordIssue(kind string) { globalManager.issuesLogged.WithLabelValues(kind).Inc() }

// RecordFetchFailure increments the fetch-failure counter.
func RecordFetchFailure() { globalManager.fetchFailures.Inc() }

// RecordRun increments the run counter and observes the run duration.
func RecordRun(duration time.Duration) {
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(float64(duration.Milliseconds()))
}

// UpdateEntityCount sets the entities-tracked gauge.
func UpdateEntityCount(n int) { globalManager.entitiesTracked.Set(float64(n)) }

// UpdateIssueCount sets the current-issues gauge.
func UpdateIssueCount(n int) { globalManager.issuesTotal.Set(float64(n)) }

// UpdateLastRun sets the last-run timestamp gauge.
func UpdateLastRun(ts time.Time) { globalManager.lastRunUnix.Set(float64(ts.Unix())) }

// RecordHTTPRequest records an HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of an HTTP request in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}
