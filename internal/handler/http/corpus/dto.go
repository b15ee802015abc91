// Package corpus provides HTTP handlers for corpus management endpoints.
// It exposes CRUD operations plus on-demand re-ingestion of a single corpus.
package corpus

import (
	"time"

	"textmill/internal/domain/entity"
)

type DTO struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	SourceURL      string               `json:"source_url"`
	Kind           string               `json:"kind"`
	SourceConfig   *entity.SourceConfig `json:"source_config,omitempty"`
	Language       string               `json:"language,omitempty"`
	DocumentCount  int                  `json:"document_count"`
	LastIngestedAt *time.Time           `json:"last_ingested_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toDTO(c *entity.Corpus) DTO {
	return DTO{
		ID:             c.ID,
		Title:          c.Title,
		SourceURL:      c.SourceURL,
		Kind:           c.Kind,
		SourceConfig:   c.SourceConfig,
		Language:       c.Language,
		DocumentCount:  c.DocumentCount,
		LastIngestedAt: c.LastIngestedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
