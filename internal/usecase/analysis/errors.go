// Package analysis provides on-demand analysis use cases over ingested
// corpora: frequency tables, per-chapter matrices, relative frequency
// series, dispersion profiles, correlations, topics, named entities, and
// render-ready chart specifications. All state is loaded from repositories
// per call; configuration is passed explicitly, never held in globals.
package analysis

import "errors"

// Sentinel errors for analysis use case operations.
var (
	// ErrCorpusNotFound indicates the requested corpus does not exist.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrTokenRequired indicates an operation that needs one or more target
	// tokens was called without any.
	ErrTokenRequired = errors.New("at least one token is required")
)
