// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (corpora, documents, classifications)
//   - Database query metrics
//   - Application performance metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "textmill/internal/observability/metrics"
//
//	func ingestDocuments(corpus string) {
//	    start := time.Now()
//	    // ... ingest documents ...
//	    count := 10
//
//	    metrics.RecordDocumentsIngested(corpus, 1, count)
//	    metrics.RecordOperationDuration("ingest_documents", time.Since(start))
//	}
package metrics
