// Package document provides HTTP handlers for document query and maintenance
// endpoints. Documents are created by the ingest pipeline, so there is no
// create route; clients list, inspect, search, label and flag them.
package document

import (
	"time"

	"textmill/internal/domain/entity"
)

type DTO struct {
	ID            int64     `json:"id"`
	CorpusID      int64     `json:"corpus_id"`
	CorpusTitle   string    `json:"corpus_title,omitempty"`
	Seq           int       `json:"seq"`
	Title         string    `json:"title"`
	Text          string    `json:"text,omitempty"`
	TokenCount    int       `json:"token_count"`
	Valid         bool      `json:"valid"`
	InvalidReason string    `json:"invalid_reason,omitempty"`
	Language      string    `json:"language,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// toDTO converts a document for list responses. Text is left out to keep
// page payloads small; GetHandler includes it.
func toDTO(d *entity.Document) DTO {
	return DTO{
		ID:            d.ID,
		CorpusID:      d.CorpusID,
		Seq:           d.Seq,
		Title:         d.Title,
		TokenCount:    d.TokenCount,
		Valid:         d.Valid,
		InvalidReason: d.InvalidReason,
		Language:      d.Language,
		CreatedAt:     d.CreatedAt,
	}
}

type labelDTO struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Classifier string    `json:"classifier"`
	Value      string    `json:"value"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}
