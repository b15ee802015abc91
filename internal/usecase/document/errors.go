// Package document provides use cases for managing document entities.
// It implements business logic for querying documents, updating their
// validity, and removing them, including validation and interaction with the
// document repository. Documents are created by the ingest pipeline, not
// through this package.
package document

import "errors"

// Sentinel errors for document use case operations.
var (
	// ErrDocumentNotFound indicates that the requested document was not found.
	// This error is typically returned when attempting to retrieve or update
	// a document that does not exist in the repository.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocumentID indicates that the provided document ID is invalid.
	// Document IDs must be positive integers.
	ErrInvalidDocumentID = errors.New("invalid document ID")
)
