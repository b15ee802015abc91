// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Business metrics track application-specific operations
var (
	// DocumentsTotal tracks total number of documents in database
	DocumentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "documents_total",
			Help: "Total number of documents in the database",
		},
	)

	// CorporaTotal tracks total number of corpora in database
	CorporaTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpora_total",
			Help: "Total number of corpora in the database",
		},
	)

	// DocumentsIngestedTotal counts documents ingested into each corpus
	DocumentsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_ingested_total",
			Help: "Total number of documents ingested into corpora",
		},
		[]string{"corpus", "corpus_id"},
	)

	// DocumentsClassifiedTotal counts documents classified by status
	DocumentsClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_classified_total",
			Help: "Total number of documents classified",
		},
		[]string{"status"},
	)

	// ClassificationDuration measures time to classify a document
	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classification_duration_seconds",
			Help:    "Time taken to classify a document",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// IngestDuration measures time to ingest a corpus source
	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Time taken to ingest a corpus source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"corpus_id"},
	)

	// IngestErrors counts errors during corpus ingestion
	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of corpus ingest errors",
		},
		[]string{"corpus_id", "error_type"},
	)

	// SourceLoadAttemptsTotal counts raw source load attempts by result
	SourceLoadAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_load_attempts_total",
			Help: "Total number of source load attempts",
		},
		[]string{"result"}, // result: success, failure, cached
	)

	// SourceLoadDuration measures time to load raw source text
	SourceLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "source_load_duration_seconds",
			Help:    "Time taken to load raw source text",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// SourceLoadSize measures loaded source size in bytes
	SourceLoadSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "source_load_size_bytes",
			Help: "Loaded raw source size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760, // up to 10MB
			},
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
