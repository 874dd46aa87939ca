// Package metrics provides Prometheus metrics for the kibitz relay service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Outbound collaborators (analysis engine, text generation)
	collaboratorCalls   *prometheus.CounterVec
	collaboratorLatency *prometheus.HistogramVec

	// Parsing
	boardsParsed  prometheus.Counter
	parseWarnings prometheus.Counter

	// Extraction
	momentsExtracted *prometheus.CounterVec
	boardIMPCost     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kibitz",
		subsystem:        "relay",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.collaboratorCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collaborator_calls_total",
		Help:      "Outbound collaborator calls by collaborator and outcome",
	}, []string{"collaborator", "outcome"})

	m.collaboratorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collaborator_latency_milliseconds",
		Help:      "Outbound collaborator call latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
	}, []string{"collaborator"})

	m.boardsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "boards_parsed_total",
		Help:      "Boards successfully extracted from PBN input",
	})

	m.parseWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_warnings_total",
		Help:      "Non-fatal warnings emitted by the PBN parser",
	})

	m.momentsExtracted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "key_moments_total",
		Help:      "Key moments extracted by kind",
	}, []string{"kind"})

	m.boardIMPCost = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_imp_cost",
		Help:      "Total IMP cost of mistakes per analyzed board",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 21, 34},
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response on an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordCollaboratorCall records an outbound call outcome ("success" or "error").
func RecordCollaboratorCall(collaborator, outcome string) {
	globalManager.collaboratorCalls.WithLabelValues(collaborator, outcome).Inc()
}

// RecordCollaboratorLatency records outbound call latency in milliseconds.
func RecordCollaboratorLatency(collaborator string, latencyMs float64) {
	globalManager.collaboratorLatency.WithLabelValues(collaborator).Observe(latencyMs)
}

// RecordBoardParsed increments the parsed boards counter.
func RecordBoardParsed() {
	globalManager.boardsParsed.Inc()
}

// RecordParseWarnings adds n parser warnings.
func RecordParseWarnings(n int) {
	globalManager.parseWarnings.Add(float64(n))
}

// RecordMomentExtracted increments the moment counter for a kind.
func RecordMomentExtracted(kind string) {
	globalManager.momentsExtracted.WithLabelValues(kind).Inc()
}

// RecordBoardIMPCost records the total IMP cost of one analyzed board.
func RecordBoardIMPCost(imp float64) {
	globalManager.boardIMPCost.Observe(imp)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
