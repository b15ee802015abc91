// Package classify provides use cases for labeling documents through an
// external classification backend. Classification is opaque: the backend
// returns a categorical label with an optional confidence score, and this
// package persists it verbatim without deriving labels locally.
package classify

import "errors"

// Sentinel errors for classify use case operations.
var (
	// ErrNoBackend indicates that no classification backend is configured.
	// Classification endpoints return this when the feature is disabled.
	ErrNoBackend = errors.New("no classification backend configured")

	// ErrDocumentNotFound indicates the document to classify does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentInvalid indicates the document was excluded from analysis
	// and is therefore not classified.
	ErrDocumentInvalid = errors.New("document is excluded from analysis")
)
