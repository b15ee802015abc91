package repository

import (
	"context"

	"textmill/internal/domain/entity"
)

// DocumentWithCorpus represents a document along with its corpus title.
type DocumentWithCorpus struct {
	Document    *entity.Document
	CorpusTitle string
}

// DocumentSearchFilters contains optional filters for document search.
type DocumentSearchFilters struct {
	CorpusID *int64 // Optional: Filter by corpus ID
	Valid    *bool  // Optional: Filter by validity flag
}

type DocumentRepository interface {
	// ListByCorpus retrieves all documents of a corpus ordered by seq ASC,
	// preserving the original chapter order.
	ListByCorpus(ctx context.Context, corpusID int64) ([]*entity.Document, error)
	// ListByCorpusPaginated retrieves a seq-ordered page of a corpus's
	// documents.
	ListByCorpusPaginated(ctx context.Context, corpusID int64, offset, limit int) ([]*entity.Document, error)
	// CountByCorpus returns the number of documents in a corpus.
	// This is used for calculating pagination metadata (total pages, etc.).
	CountByCorpus(ctx context.Context, corpusID int64) (int64, error)
	Get(ctx context.Context, id int64) (*entity.Document, error)
	// GetWithCorpus retrieves a document by ID and includes the corpus title.
	// Returns (nil, "", nil) if the document is not found.
	GetWithCorpus(ctx context.Context, id int64) (*entity.Document, string, error)
	// SearchWithFilters searches document titles and text with multi-keyword
	// AND logic and optional filters.
	SearchWithFilters(ctx context.Context, keywords []string, filters DocumentSearchFilters) ([]*entity.Document, error)
	Create(ctx context.Context, document *entity.Document) error
	// CreateBatch はドキュメントを一括INSERTし、N+1問題を解消する
	// Generated IDs are assigned back to the given documents in order.
	CreateBatch(ctx context.Context, documents []*entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id int64) error
	// DeleteByCorpus removes all documents of a corpus ahead of a re-ingest.
	// Returns the number of deleted rows.
	DeleteByCorpus(ctx context.Context, corpusID int64) (int64, error)
}
