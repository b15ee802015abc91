package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"textmill/internal/domain/entity"
	"textmill/internal/repository"
)

type LabelRepo struct{ db *sql.DB }

func NewLabelRepo(db *sql.DB) repository.LabelRepository {
	return &LabelRepo{db: db}
}

// Upsert creates a label or replaces an existing one.
// Uses INSERT ... ON CONFLICT DO UPDATE on the (document_id, classifier) key.
func (repo *LabelRepo) Upsert(ctx context.Context, label *entity.Label) error {
	if label == nil {
		return fmt.Errorf("Upsert: label is nil")
	}

	// Validate entity before database operation
	if err := label.Validate(); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	const query = `
INSERT INTO labels (document_id, classifier, value, score, created_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (document_id, classifier)
DO UPDATE SET
	value = EXCLUDED.value,
	score = EXCLUDED.score,
	created_at = NOW()
RETURNING id, created_at`

	err := repo.db.QueryRowContext(ctx, query,
		label.DocumentID,
		label.Classifier,
		label.Value,
		label.Score,
	).Scan(&label.ID, &label.CreatedAt)

	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	return nil
}

// ListByDocument retrieves all labels of a document ordered by classifier.
// Returns an empty slice if no labels are found.
func (repo *LabelRepo) ListByDocument(ctx context.Context, documentID int64) ([]*entity.Label, error) {
	const query = `
SELECT id, document_id, classifier, value, score, created_at
FROM labels
WHERE document_id = $1
ORDER BY classifier ASC`
	rows, err := repo.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("ListByDocument: %w", err)
	}
	defer func() { _ = rows.Close() }()

	labels := make([]*entity.Label, 0)
	for rows.Next() {
		var label entity.Label
		if err := rows.Scan(&label.ID, &label.DocumentID, &label.Classifier,
			&label.Value, &label.Score, &label.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByDocument: Scan: %w", err)
		}
		labels = append(labels, &label)
	}
	return labels, rows.Err()
}

// CorpusSummary counts labeled documents per label value across a corpus.
// Ordered by document count DESC, then value ASC for a stable output.
func (repo *LabelRepo) CorpusSummary(ctx context.Context, corpusID int64, classifier string) ([]repository.LabelCount, error) {
	const query = `
SELECT l.value, COUNT(*) AS documents
FROM labels l
INNER JOIN documents d ON l.document_id = d.id
WHERE d.corpus_id = $1 AND l.classifier = $2
GROUP BY l.value
ORDER BY COUNT(*) DESC, l.value ASC`
	rows, err := repo.db.QueryContext(ctx, query, corpusID, classifier)
	if err != nil {
		return nil, fmt.Errorf("CorpusSummary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make([]repository.LabelCount, 0, 4)
	for rows.Next() {
		var lc repository.LabelCount
		if err := rows.Scan(&lc.Value, &lc.Documents); err != nil {
			return nil, fmt.Errorf("CorpusSummary: Scan: %w", err)
		}
		summary = append(summary, lc)
	}
	return summary, rows.Err()
}

// DeleteByDocumentID removes all labels of a document.
// Returns the number of deleted rows.
func (repo *LabelRepo) DeleteByDocumentID(ctx context.Context, documentID int64) (int64, error) {
	const query = `DELETE FROM labels WHERE document_id = $1`
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
