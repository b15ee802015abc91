package repository

import (
	"context"
	"time"

	"textmill/internal/domain/entity"
)

type CorpusRepository interface {
	Get(ctx context.Context, id int64) (*entity.Corpus, error)
	List(ctx context.Context) ([]*entity.Corpus, error)
	// ListPaginated retrieves corpora ordered by created_at DESC.
	// Uses LIMIT and OFFSET for efficient pagination.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Corpus, error)
	// Count returns the total number of corpora, used for pagination metadata.
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, keyword string) ([]*entity.Corpus, error)
	Create(ctx context.Context, corpus *entity.Corpus) error
	Update(ctx context.Context, corpus *entity.Corpus) error
	Delete(ctx context.Context, id int64) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
	// TouchIngestedAt records a completed ingest run and the resulting
	// document count.
	TouchIngestedAt(ctx context.Context, id int64, t time.Time, documentCount int) error
}
