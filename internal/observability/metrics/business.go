package metrics

import (
	"fmt"
	"time"
)

// RecordDocumentsIngested records the number of documents ingested into a corpus.
// This metric helps track ingest throughput and corpus activity.
func RecordDocumentsIngested(corpusName string, corpusID int64, count int) {
	DocumentsIngestedTotal.WithLabelValues(
		corpusName,
		fmt.Sprintf("%d", corpusID),
	).Add(float64(count))
}

// RecordDocumentClassified records the result of a document classification operation.
// Status should be either "success" or "failure".
func RecordDocumentClassified(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	DocumentsClassifiedTotal.WithLabelValues(status).Inc()
}

// RecordClassificationDuration records the time taken to classify a document.
// This helps identify performance issues with the AI classification service.
func RecordClassificationDuration(duration time.Duration) {
	ClassificationDuration.Observe(duration.Seconds())
}

// RecordIngest records metrics for a corpus ingest operation.
func RecordIngest(corpusID int64, duration time.Duration, docsFound, docsInserted, docsSkipped int64) {
	IngestDuration.WithLabelValues(
		fmt.Sprintf("%d", corpusID),
	).Observe(duration.Seconds())

	// Record the breakdown of documents processed
	if docsFound > 0 {
		RecordDocumentsIngested("", corpusID, int(docsFound))
	}
}

// RecordIngestError records an error during corpus ingestion.
func RecordIngestError(corpusID int64, errorType string) {
	IngestErrors.WithLabelValues(
		fmt.Sprintf("%d", corpusID),
		errorType,
	).Inc()
}

// UpdateDocumentsTotal updates the total count of documents in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateDocumentsTotal(count int) {
	DocumentsTotal.Set(float64(count))
}

// UpdateCorporaTotal updates the total count of corpora in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateCorporaTotal(count int) {
	CorporaTotal.Set(float64(count))
}

// RecordSourceLoadSuccess records a successful raw source load operation.
// This tracks both the duration and size of loaded text.
//
// Parameters:
//   - duration: Time taken to load the source
//   - size: Size of loaded text in bytes
//
// Example:
//
//	start := time.Now()
//	raw, err := loader.Load(ctx, url)
//	if err == nil {
//	    RecordSourceLoadSuccess(time.Since(start), len(raw))
//	}
func RecordSourceLoadSuccess(duration time.Duration, size int) {
	SourceLoadAttemptsTotal.WithLabelValues("success").Inc()
	SourceLoadDuration.Observe(duration.Seconds())
	SourceLoadSize.Observe(float64(size))
}

// RecordSourceLoadFailed records a failed raw source load operation.
//
// Parameters:
//   - duration: Time taken before the load failed
//
// Example:
//
//	start := time.Now()
//	_, err := loader.Load(ctx, url)
//	if err != nil {
//	    RecordSourceLoadFailed(time.Since(start))
//	}
func RecordSourceLoadFailed(duration time.Duration) {
	SourceLoadAttemptsTotal.WithLabelValues("failure").Inc()
	SourceLoadDuration.Observe(duration.Seconds())
}

// RecordSourceLoadCached records a source load served from the in-memory cache.
// Cached loads skip the network entirely.
//
// Example:
//
//	if raw, ok := cache.Get(url); ok {
//	    RecordSourceLoadCached()
//	    return raw, nil
//	}
func RecordSourceLoadCached() {
	SourceLoadAttemptsTotal.WithLabelValues("cached").Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_documents", "insert_document").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
