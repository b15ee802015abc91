package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ingest"
)

// blankLineRe matches one or more blank lines (paragraph separators).
var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// FileScraper handles plain text files with a configurable document
// delimiter. Useful for corpora that are already one-document-per-line or
// one-document-per-paragraph (sentence lists, prompt sets, chat logs).
type FileScraper struct{}

// NewFileScraper creates a new FileScraper.
func NewFileScraper() *FileScraper {
	return &FileScraper{}
}

// Scrape splits raw text according to SourceConfig.DocDelimiter:
//   - "newline": each non-empty line is a document
//   - "blankline": each blank-line-separated block is a document
//   - empty: the whole file is a single document
func (f *FileScraper) Scrape(_ context.Context, raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	delimiter := ""
	if corpus.SourceConfig != nil {
		delimiter = corpus.SourceConfig.DocDelimiter
	}

	var parts []string
	switch delimiter {
	case "newline":
		parts = strings.Split(raw, "\n")
	case "blankline":
		parts = blankLineRe.Split(raw, -1)
	case "":
		parts = []string{raw}
	default:
		return nil, fmt.Errorf("%w: unknown doc_delimiter %q (must be newline or blankline)", ingest.ErrScrapeFailed, delimiter)
	}

	docs := make([]ingest.RawDocument, 0, len(parts))
	for _, p := range parts {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		docs = append(docs, ingest.RawDocument{Text: text})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ingest.ErrScrapeFailed)
	}

	return docs, nil
}
