package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"textmill/internal/domain/entity"
	"textmill/internal/repository"

	"github.com/pgvector/pgvector-go"
)

// DefaultSearchTimeout is the default timeout for similarity search queries.
const DefaultSearchTimeout = 5 * time.Second

// DocumentEmbeddingRepo implements the DocumentEmbeddingRepository interface for PostgreSQL.
type DocumentEmbeddingRepo struct {
	db *sql.DB
}

// NewDocumentEmbeddingRepo creates a new PostgreSQL-based DocumentEmbeddingRepository.
func NewDocumentEmbeddingRepo(db *sql.DB) repository.DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepo{
		db: db,
	}
}

// Upsert creates a new embedding or updates an existing one.
// Uses INSERT ... ON CONFLICT DO UPDATE to handle unique constraint violations.
func (repo *DocumentEmbeddingRepo) Upsert(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	// Check for nil pointer
	if embedding == nil {
		return fmt.Errorf("Upsert: embedding is nil")
	}

	// Validate entity before database operation
	if err := embedding.Validate(); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	// Convert []float32 to pgvector.Vector
	vector := pgvector.NewVector(embedding.Embedding)

	const query = `
INSERT INTO document_embeddings (document_id, embedding_type, provider, model, dimension, embedding, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (document_id, embedding_type, provider, model)
DO UPDATE SET
	dimension = EXCLUDED.dimension,
	embedding = EXCLUDED.embedding,
	updated_at = NOW()
RETURNING id, created_at, updated_at`

	err := repo.db.QueryRowContext(ctx, query,
		embedding.DocumentID,
		string(embedding.EmbeddingType),
		string(embedding.Provider),
		embedding.Model,
		embedding.Dimension,
		vector,
	).Scan(&embedding.ID, &embedding.CreatedAt, &embedding.UpdatedAt)

	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	return nil
}

// FindByDocumentID retrieves all embeddings for a given document ID.
// Returns an empty slice if no embeddings are found.
func (repo *DocumentEmbeddingRepo) FindByDocumentID(ctx context.Context, documentID int64) ([]*entity.DocumentEmbedding, error) {
	const query = `
SELECT id, document_id, embedding_type, provider, model, dimension, embedding, created_at, updated_at
FROM document_embeddings
WHERE document_id = $1
ORDER BY embedding_type, provider, model`

	rows, err := repo.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("FindByDocumentID: %w", err)
	}
	defer func() { _ = rows.Close() }()

	embeddings := make([]*entity.DocumentEmbedding, 0)
	for rows.Next() {
		emb := &entity.DocumentEmbedding{}
		var vector pgvector.Vector
		var embType string
		var provider string

		err := rows.Scan(
			&emb.ID,
			&emb.DocumentID,
			&embType,
			&provider,
			&emb.Model,
			&emb.Dimension,
			&vector,
			&emb.CreatedAt,
			&emb.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("FindByDocumentID: Scan: %w", err)
		}

		// Convert pgvector.Vector to []float32
		emb.EmbeddingType = entity.EmbeddingType(embType)
		emb.Provider = entity.EmbeddingProvider(provider)
		emb.Embedding = vector.Slice()

		embeddings = append(embeddings, emb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindByDocumentID: %w", err)
	}

	return embeddings, nil
}

// DeleteByDocumentID removes all embeddings associated with a document.
// Returns the number of deleted rows.
func (repo *DocumentEmbeddingRepo) DeleteByDocumentID(ctx context.Context, documentID int64) (int64, error) {
	const query = `DELETE FROM document_embeddings WHERE document_id = $1`

	result, err := repo.db.ExecContext(ctx, query, documentID)
	if err != nil {
		return 0, fmt.Errorf("DeleteByDocumentID: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByDocumentID: RowsAffected: %w", err)
	}

	return count, nil
}

// SearchSimilar finds documents with embeddings similar to the provided vector.
// Uses cosine distance operator (<=>) for similarity comparison.
func (repo *DocumentEmbeddingRepo) SearchSimilar(ctx context.Context, embedding []float32, embeddingType entity.EmbeddingType, limit int) ([]repository.SimilarDocument, error) {
	// Apply timeout to search query
	searchCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	// Validate and apply limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	// Convert []float32 to pgvector.Vector
	vector := pgvector.NewVector(embedding)

	const query = `
SELECT document_id, 1 - (embedding <=> $1) AS similarity
FROM document_embeddings
WHERE embedding_type = $2
ORDER BY embedding <=> $1
LIMIT $3`

	rows, err := repo.db.QueryContext(searchCtx, query, vector, string(embeddingType), limit)
	if err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.SimilarDocument, 0, limit)
	for rows.Next() {
		var result repository.SimilarDocument
		err := rows.Scan(&result.DocumentID, &result.Similarity)
		if err != nil {
			return nil, fmt.Errorf("SearchSimilar: Scan: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}

	return results, nil
}
