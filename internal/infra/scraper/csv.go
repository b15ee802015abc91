package scraper

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ingest"
)

// CSVScraper turns a CSV dump (tweets, survey responses, chat exports)
// into one document per row, in row order. The text column is mandatory
// and is resolved from SourceConfig; a title column is optional.
type CSVScraper struct{}

// NewCSVScraper creates a new CSVScraper.
func NewCSVScraper() *CSVScraper {
	return &CSVScraper{}
}

// Scrape parses the raw CSV and emits one document per data row.
//
// SourceConfig fields used:
//   - TextColumn (required): column holding the document text, by header
//     name when SkipHeader is set, otherwise by zero-based index
//   - TitleColumn (optional): column holding the document title
//   - Delimiter (optional): field separator, default comma
//   - SkipHeader: treat the first row as a header row
//
// Rows with a missing or empty text field are skipped with a debug log;
// the rest of the file continues to parse.
func (c *CSVScraper) Scrape(_ context.Context, raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	cfg := corpus.SourceConfig
	if cfg == nil || cfg.TextColumn == "" {
		return nil, fmt.Errorf("%w: csv source requires source_config.text_column", ingest.ErrScrapeFailed)
	}

	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1 // Real-world dumps have ragged rows
	reader.LazyQuotes = true
	if cfg.Delimiter != "" {
		reader.Comma = []rune(cfg.Delimiter)[0]
	}

	textIdx := -1
	titleIdx := -1

	if cfg.SkipHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: read csv header: %v", ingest.ErrScrapeFailed, err)
		}
		textIdx = resolveColumn(header, cfg.TextColumn)
		titleIdx = resolveColumn(header, cfg.TitleColumn)
		if textIdx < 0 {
			return nil, fmt.Errorf("%w: text column %q not found in csv header", ingest.ErrScrapeFailed, cfg.TextColumn)
		}
	} else {
		idx, err := strconv.Atoi(cfg.TextColumn)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: text column %q must be a column index when the csv has no header", ingest.ErrScrapeFailed, cfg.TextColumn)
		}
		textIdx = idx
		if cfg.TitleColumn != "" {
			if idx, err := strconv.Atoi(cfg.TitleColumn); err == nil && idx >= 0 {
				titleIdx = idx
			}
		}
	}

	var docs []ingest.RawDocument
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row %d: %v", ingest.ErrScrapeFailed, row, err)
		}
		row++

		if textIdx >= len(record) {
			slog.Debug("skipping csv row without text column",
				slog.Int64("corpus_id", corpus.ID),
				slog.Int("row", row))
			continue
		}

		text := strings.TrimSpace(record[textIdx])
		if text == "" {
			slog.Debug("skipping csv row with empty text",
				slog.Int64("corpus_id", corpus.ID),
				slog.Int("row", row))
			continue
		}

		title := ""
		if titleIdx >= 0 && titleIdx < len(record) {
			title = strings.TrimSpace(record[titleIdx])
		}

		docs = append(docs, ingest.RawDocument{Title: title, Text: text})
	}

	return docs, nil
}

// resolveColumn finds a column by header name (case-insensitive), falling
// back to interpreting the name as a zero-based index. Returns -1 when the
// column cannot be resolved or name is empty.
func resolveColumn(header []string, name string) int {
	if name == "" {
		return -1
	}

	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}

	if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < len(header) {
		return idx
	}

	return -1
}
