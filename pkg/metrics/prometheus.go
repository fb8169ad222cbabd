// Package metrics provides Prometheus metrics for the tripboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission results used as label values.
const (
	SubmissionStored   = "stored"
	SubmissionDemo     = "demo"
	SubmissionFailed   = "failed"
	SubmissionRejected = "rejected"
)

// Store operations used as label values.
const (
	StoreOpList   = "list"
	StoreOpInsert = "insert"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feedback flow
	submissions       *prometheus.CounterVec
	identityStarts    prometheus.Counter
	resets            *prometheus.CounterVec
	recordsSnapshot   prometheus.Gauge
	snapshotRefreshes prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Sessions
	activeSessions prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	// System
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure rebuilds the global manager on a fresh registry with opts. It
// must run before anything is recorded or scraped.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// NewManager creates a metrics manager. Collectors are registered on the
// configured registry (prometheus.DefaultRegisterer unless overridden).
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tripboard",
		subsystem:        "feedback",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Feedback submissions by result",
	}, []string{"result"})

	m.identityStarts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_starts_total",
		Help:      "Sessions that picked an identity and opened the itinerary form",
	})

	m.resets = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resets_total",
		Help:      "Session resets by kind (switch, reset)",
	}, []string{"kind"})

	m.recordsSnapshot = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_in_snapshot",
		Help:      "Number of feedback records in the latest read",
	})

	m.snapshotRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refresh_total",
		Help:      "Completed reads of the full feedback table",
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "latency_milliseconds",
		Help:      "Store call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Store call failures by operation",
	}, []string{"op"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held by the session store",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the submit rate limiter",
	})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
}

// RecordSubmission counts a submission attempt by result.
func RecordSubmission(result string) {
	globalManager.submissions.WithLabelValues(result).Inc()
}

// RecordIdentityStart counts a completed identity selection.
func RecordIdentityStart() {
	globalManager.identityStarts.Inc()
}

// RecordReset counts a switch-person or full reset.
func RecordReset(kind string) {
	globalManager.resets.WithLabelValues(kind).Inc()
}

// UpdateRecordsInSnapshot sets the size of the latest read.
func UpdateRecordsInSnapshot(n int) {
	globalManager.recordsSnapshot.Set(float64(n))
	globalManager.snapshotRefreshes.Inc()
}

// RecordStoreLatency observes a store call duration.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store call.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(n int) {
	globalManager.activeSessions.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited() {
	globalManager.httpRateLimited.Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemory.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutines.Set(float64(n))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
