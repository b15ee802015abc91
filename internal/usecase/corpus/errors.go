// Package corpus provides use cases for managing text corpora.
// It implements business logic for creating, updating, deleting, and querying
// corpora, including validation and interaction with the corpus repository.
package corpus

import "errors"

// Sentinel errors for corpus use case operations.
var (
	// ErrCorpusNotFound indicates that the requested corpus was not found.
	// This error is typically returned when attempting to retrieve or update
	// a corpus that does not exist in the repository.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrInvalidSourceURL indicates that the provided corpus source is invalid.
	// Remote sources must be valid HTTP/HTTPS URLs; file sources a non-empty path.
	ErrInvalidSourceURL = errors.New("invalid source URL")

	// ErrDuplicateCorpus indicates that a corpus with the same source URL
	// already exists. This prevents the same text from being ingested twice
	// under different corpus records.
	ErrDuplicateCorpus = errors.New("corpus with this source URL already exists")
)
