package entity

import "time"

// TokenRank is one entry in an ingest summary's top-token list, in rank order.
type TokenRank struct {
	Token string
	Count int
}

// LabelTally is one entry in an ingest summary's label distribution.
type LabelTally struct {
	Value string // label value, e.g. "positive"
	Count int    // documents carrying the label
}

// IngestSummary describes the outcome of one completed corpus ingest run.
// It is the payload handed to notification channels after the pipeline
// finishes, so channel formatters never reach back into repositories.
type IngestSummary struct {
	CorpusID    int64
	CorpusTitle string
	Documents   int // documents ingested and counted
	Skipped     int // documents skipped (empty after cleaning, scrape failures)
	Failed      int // documents whose classification failed
	Tokens      int // total token occurrences across the corpus
	TopTokens   []TokenRank
	Labels      []LabelTally
	Duration    time.Duration // wall-clock pipeline duration
	CompletedAt time.Time
}

// Validate validates the IngestSummary entity fields.
func (s *IngestSummary) Validate() error {
	if s.CorpusID <= 0 {
		return &ValidationError{Field: "corpus_id", Message: "corpus_id is required"}
	}
	if s.CorpusTitle == "" {
		return &ValidationError{Field: "corpus_title", Message: "corpus_title is required"}
	}
	if s.Documents < 0 || s.Skipped < 0 || s.Failed < 0 || s.Tokens < 0 {
		return &ValidationError{Field: "counts", Message: "counts must be non-negative"}
	}
	return nil
}
