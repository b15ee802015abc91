package ingest

import (
	"context"

	"textmill/internal/domain/entity"
)

// RawDocument is one segmented unit of source text, before cleaning.
// The ingest service assigns the zero-based sequence number from the
// slice position, so scrapers must emit documents in source order.
type RawDocument struct {
	Title string
	Text  string
}

// Scraper splits loaded raw source text into ordered documents.
// Implementations exist per corpus kind (book chapters, article body,
// feed entries, CSV rows, delimited plain files) and are selected by the
// ingest service from a registry keyed by Corpus.Kind.
//
// Implementations:
//   - Receive the raw text already loaded by a SourceLoader; they never
//     perform network I/O themselves
//   - Read kind-specific settings from corpus.SourceConfig
//   - Must preserve source order: document i in the result is the i-th
//     unit of the source
//
// Returns ErrScrapeFailed-wrapped errors when the raw text cannot be
// segmented (malformed feed XML, missing CSV column, unreadable HTML).
type Scraper interface {
	Scrape(ctx context.Context, raw string, corpus *entity.Corpus) ([]RawDocument, error)
}
