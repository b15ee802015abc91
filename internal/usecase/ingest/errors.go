// Package ingest provides use cases for ingesting text corpora from remote
// and local sources. It implements the pipeline that loads raw source text,
// splits it into documents, cleans and tokenizes them, tabulates token
// frequencies, classifies documents through an external backend, and stores
// everything in the repository.
package ingest

import "errors"

// Sentinel errors for ingest use case operations.
var (
	// ErrSourceLoadFailed indicates that loading raw text from the corpus
	// source URL or path failed. This can occur due to network issues,
	// invalid URLs, or unreadable files.
	ErrSourceLoadFailed = errors.New("failed to load corpus source")

	// ErrScrapeFailed indicates that the loaded raw text could not be split
	// into documents. This typically happens when the source format does not
	// match the corpus kind (e.g. a CSV corpus pointing at HTML).
	ErrScrapeFailed = errors.New("failed to scrape corpus source")

	// ErrClassificationFailed indicates that AI classification of a document
	// failed. This can occur due to API errors, rate limits, or unparseable
	// backend responses.
	ErrClassificationFailed = errors.New("failed to classify document")
)
