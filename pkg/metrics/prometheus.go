// Package metrics provides Prometheus metrics for the crease scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingestion
	matchesIngested   prometheus.Counter
	matchesDuplicate  prometheus.Counter
	matchesRejected   prometheus.Counter
	deliveriesIngested prometheus.Counter

	// Analysis
	analysisRuns     prometheus.Counter
	analysisErrors   prometheus.Counter
	stageDuration    *prometheus.HistogramVec
	players          *prometheus.GaugeVec
	rosterPicks      *prometheus.GaugeVec
	rosterShortfall  *prometheus.GaugeVec
	snapshotCount    prometheus.Counter
	snapshotLastUnix prometheus.Gauge

	// Read path
	repositoryQueryLatency prometheus.Histogram
	httpRequests           *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	errorsByComponent      *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crease",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesIngested = auto.NewCounter(m.counterOpts("matches_ingested_total", "Total number of match files accepted"))
	m.matchesDuplicate = auto.NewCounter(m.counterOpts("matches_duplicate_total", "Total number of match files skipped as duplicates"))
	m.matchesRejected = auto.NewCounter(m.counterOpts("matches_rejected_total", "Total number of match files that failed to decode or validate"))
	m.deliveriesIngested = auto.NewCounter(m.counterOpts("deliveries_ingested_total", "Total number of deliveries flattened from accepted matches"))

	m.analysisRuns = auto.NewCounter(m.counterOpts("analysis_runs_total", "Total number of completed analysis runs"))
	m.analysisErrors = auto.NewCounter(m.counterOpts("analysis_errors_total", "Total number of failed analysis runs"))
	m.stageDuration = auto.NewHistogramVec(
		m.histogramOpts("analysis_stage_duration_milliseconds", "Duration of each analysis stage in milliseconds", m.histogramBuckets),
		[]string{"stage"},
	)
	m.players = auto.NewGaugeVec(
		m.gaugeOpts("players", "Players per pool after aggregation and after eligibility"),
		[]string{"pool", "status"},
	)
	m.rosterPicks = auto.NewGaugeVec(
		m.gaugeOpts("roster_picks", "Players picked per context"),
		[]string{"context"},
	)
	m.rosterShortfall = auto.NewGaugeVec(
		m.gaugeOpts("roster_shortfall", "Unfilled roster places per context"),
		[]string{"context"},
	)
	m.snapshotCount = auto.NewCounter(m.counterOpts("snapshot_count_total", "Total number of result snapshots published"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last snapshot publish"))

	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogramOpts("repository_query_latency_milliseconds", "Repository query latency in milliseconds", m.histogramBuckets),
	)
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordMatchIngested counts an accepted match and its deliveries.
func RecordMatchIngested(deliveries int) {
	globalManager.matchesIngested.Inc()
	globalManager.deliveriesIngested.Add(float64(deliveries))
}

// RecordMatchDuplicate counts a match skipped as already seen.
func RecordMatchDuplicate() {
	globalManager.matchesDuplicate.Inc()
}

// RecordMatchRejected counts a match that could not be used.
func RecordMatchRejected() {
	globalManager.matchesRejected.Inc()
}

// RecordAnalysisRun counts a completed run.
func RecordAnalysisRun() {
	globalManager.analysisRuns.Inc()
}

// RecordAnalysisError counts a failed run.
func RecordAnalysisError() {
	globalManager.analysisErrors.Inc()
}

// RecordStageDuration records how long a pipeline stage took.
func RecordStageDuration(stage string, durationMs float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(durationMs)
}

// UpdatePlayers sets the player count for pool at status (aggregated or eligible).
func UpdatePlayers(pool, status string, count int) {
	globalManager.players.WithLabelValues(pool, status).Set(float64(count))
}

// UpdateRoster sets the roster size and shortfall for a context.
func UpdateRoster(context string, picks, shortfall int) {
	globalManager.rosterPicks.WithLabelValues(context).Set(float64(picks))
	globalManager.rosterShortfall.WithLabelValues(context).Set(float64(shortfall))
}

// RecordSnapshotPublished counts a publish and stamps its time.
func RecordSnapshotPublished(unix int64) {
	globalManager.snapshotCount.Inc()
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordRepositoryQueryLatency records repository query operation latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
