package repository

import (
	"context"

	"textmill/internal/domain/entity"
)

// LabelCount is one row of a corpus label summary: how many documents carry
// a given label value.
type LabelCount struct {
	Value     string
	Documents int64
}

type LabelRepository interface {
	// Upsert creates a label or replaces an existing one. The unique key is
	// (document_id, classifier); re-classifying a document overwrites its
	// previous label from the same backend.
	Upsert(ctx context.Context, label *entity.Label) error
	// ListByDocument retrieves all labels of a document ordered by
	// classifier. Returns an empty slice (not nil) if none exist.
	ListByDocument(ctx context.Context, documentID int64) ([]*entity.Label, error)
	// CorpusSummary counts labeled documents per label value across a
	// corpus, ordered by document count DESC then value ASC.
	CorpusSummary(ctx context.Context, corpusID int64, classifier string) ([]LabelCount, error)
	// DeleteByDocumentID removes all labels of a document. Returns the
	// number of deleted rows; 0 is not an error.
	DeleteByDocumentID(ctx context.Context, documentID int64) (int64, error)
}
