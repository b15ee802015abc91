// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Corpus, Document and Label, along
// with their validation rules and domain-specific errors.
package entity

import (
	"errors"
	"fmt"
	"time"
)

// Corpus represents an ordered collection of documents in the system.
// Document order inside a corpus is meaningful (chapter number, feed position,
// CSV row order) and is preserved from ingestion through analysis output.
type Corpus struct {
	ID             int64
	Title          string
	SourceURL      string
	Kind           string        `json:"kind"`          // book, article, feed, csv, file
	SourceConfig   *SourceConfig `json:"source_config"` // Kind-specific ingestion settings
	Language       string
	DocumentCount  int
	LastIngestedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SourceConfig holds kind-specific settings for ingesting a corpus source.
// Different fields are used depending on the corpus kind:
// - book: ChapterPattern (heading regex override)
// - csv: TextColumn, TitleColumn, Delimiter, SkipHeader
// - feed: MaxItems
// - file: DocDelimiter
type SourceConfig struct {
	// Book chapter splitting
	ChapterPattern string `json:"chapter_pattern,omitempty"`

	// CSV extraction
	TextColumn  string `json:"text_column,omitempty"`
	TitleColumn string `json:"title_column,omitempty"`
	Delimiter   string `json:"delimiter,omitempty"`
	SkipHeader  bool   `json:"skip_header,omitempty"`

	// Feed ingestion
	MaxItems int `json:"max_items,omitempty"`

	// Plain file splitting ("newline" or "blankline")
	DocDelimiter string `json:"doc_delimiter,omitempty"`
}

// Validate validates the Corpus entity fields.
// It checks that the kind is valid and that required kind-specific
// configuration is present.
func (c *Corpus) Validate() error {
	// Kindが空の場合はbookとみなす（後方互換性）
	if c.Kind == "" {
		c.Kind = "book"
	}

	// Kindの妥当性チェック
	validKinds := map[string]bool{
		"book":    true,
		"article": true,
		"feed":    true,
		"csv":     true,
		"file":    true,
	}
	if !validKinds[c.Kind] {
		return fmt.Errorf("invalid kind: %s (must be book, article, feed, csv, or file)", c.Kind)
	}

	// CSVソースにはテキスト列の指定が必須
	if c.Kind == "csv" && (c.SourceConfig == nil || c.SourceConfig.TextColumn == "") {
		return errors.New("source_config.text_column is required for csv sources")
	}

	return nil
}
