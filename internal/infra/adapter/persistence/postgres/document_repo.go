package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/pkg/search"
	"textmill/internal/repository"
)

type DocumentRepo struct {
	db           *sql.DB
	queryBuilder *DocumentQueryBuilder
}

func NewDocumentRepo(db *sql.DB) repository.DocumentRepository {
	return &DocumentRepo{
		db:           db,
		queryBuilder: NewDocumentQueryBuilder(),
	}
}

func scanDocument(rows *sql.Rows) (*entity.Document, error) {
	var doc entity.Document
	if err := rows.Scan(&doc.ID, &doc.CorpusID, &doc.Seq, &doc.Title,
		&doc.Text, &doc.RawText, &doc.TokenCount, &doc.Valid,
		&doc.InvalidReason, &doc.Language, &doc.CreatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByCorpus retrieves all documents of a corpus in seq order. The seq
// ordering is what keeps chapter order stable through every downstream
// analysis.
func (repo *DocumentRepo) ListByCorpus(ctx context.Context, corpusID int64) ([]*entity.Document, error) {
	const query = `
SELECT id, corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at
FROM documents
WHERE corpus_id = $1
ORDER BY seq ASC`
	rows, err := repo.db.QueryContext(ctx, query, corpusID)
	if err != nil {
		return nil, fmt.Errorf("ListByCorpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	documents := make([]*entity.Document, 0, 100)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByCorpus: Scan: %w", err)
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

// ListByCorpusPaginated retrieves a seq-ordered page of a corpus's documents.
// Uses LIMIT and OFFSET for efficient pagination.
func (repo *DocumentRepo) ListByCorpusPaginated(ctx context.Context, corpusID int64, offset, limit int) ([]*entity.Document, error) {
	const query = `
SELECT id, corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at
FROM documents
WHERE corpus_id = $1
ORDER BY seq ASC
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, corpusID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListByCorpusPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	documents := make([]*entity.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByCorpusPaginated: Scan: %w", err)
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

// CountByCorpus returns the number of documents in a corpus.
func (repo *DocumentRepo) CountByCorpus(ctx context.Context, corpusID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM documents WHERE corpus_id = $1`
	var count int64
	err := repo.db.QueryRowContext(ctx, query, corpusID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountByCorpus: %w", err)
	}
	return count, nil
}

func (repo *DocumentRepo) Get(ctx context.Context, id int64) (*entity.Document, error) {
	const query = `
SELECT id, corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at
FROM documents
WHERE id = $1
LIMIT 1`
	var doc entity.Document
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&doc.ID, &doc.CorpusID, &doc.Seq, &doc.Title,
			&doc.Text, &doc.RawText, &doc.TokenCount, &doc.Valid,
			&doc.InvalidReason, &doc.Language, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &doc, nil
}

func (repo *DocumentRepo) GetWithCorpus(ctx context.Context, id int64) (*entity.Document, string, error) {
	const query = `
SELECT d.id, d.corpus_id, d.seq, d.title, d.text, d.raw_text, d.token_count, d.valid, d.invalid_reason, d.language, d.created_at, c.title AS corpus_title
FROM documents d
INNER JOIN corpora c ON d.corpus_id = c.id
WHERE d.id = $1
LIMIT 1`
	var doc entity.Document
	var corpusTitle string
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&doc.ID, &doc.CorpusID, &doc.Seq, &doc.Title,
			&doc.Text, &doc.RawText, &doc.TokenCount, &doc.Valid,
			&doc.InvalidReason, &doc.Language, &doc.CreatedAt, &corpusTitle)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("GetWithCorpus: %w", err)
	}
	return &doc, corpusTitle, nil
}

func (repo *DocumentRepo) SearchWithFilters(ctx context.Context, keywords []string, filters repository.DocumentSearchFilters) ([]*entity.Document, error) {
	// Check if there are any search criteria (keywords or filters)
	hasKeywords := len(keywords) > 0
	hasFilters := filters.CorpusID != nil || filters.Valid != nil

	// No keywords and no filters -> return empty result
	if !hasKeywords && !hasFilters {
		return []*entity.Document{}, nil
	}

	// Apply search timeout to prevent long-running queries
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	// Build WHERE clause using QueryBuilder
	whereClause, args := repo.queryBuilder.BuildWhereClause(keywords, filters, "")

	query := fmt.Sprintf(`
SELECT id, corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at
FROM documents
%s
ORDER BY corpus_id ASC, seq ASC`, whereClause)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchWithFilters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	documents := make([]*entity.Document, 0, 100)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("SearchWithFilters: Scan: %w", err)
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

func (repo *DocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	const query = `
INSERT INTO documents
	   (corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, query,
		document.CorpusID, document.Seq, document.Title,
		document.Text, document.RawText, document.TokenCount,
		document.Valid, document.InvalidReason, document.Language,
		document.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// CreateBatch はドキュメントを一括INSERTし、N+1問題を解消する
// Generated IDs are scanned back into the given documents in input order.
func (repo *DocumentRepo) CreateBatch(ctx context.Context, documents []*entity.Document) error {
	if len(documents) == 0 {
		return nil
	}

	const cols = 10
	placeholders := make([]string, 0, len(documents))
	args := make([]interface{}, 0, len(documents)*cols)
	for i, doc := range documents {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args,
			doc.CorpusID, doc.Seq, doc.Title, doc.Text, doc.RawText,
			doc.TokenCount, doc.Valid, doc.InvalidReason, doc.Language, doc.CreatedAt,
		)
	}

	query := `
INSERT INTO documents
	   (corpus_id, seq, title, text, raw_text, token_count, valid, invalid_reason, language, created_at)
VALUES ` + strings.Join(placeholders, ", ") + `
RETURNING id`
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CreateBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// VALUESリストのRETURNINGは入力順に行を返すため、IDは位置で対応付けられる
	i := 0
	for rows.Next() {
		if i >= len(documents) {
			return fmt.Errorf("CreateBatch: more ids returned than documents inserted")
		}
		if err := rows.Scan(&documents[i].ID); err != nil {
			return fmt.Errorf("CreateBatch: Scan: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("CreateBatch: %w", err)
	}
	return nil
}

func (repo *DocumentRepo) Update(ctx context.Context, document *entity.Document) error {
	const query = `
UPDATE documents SET
       title          = $1,
       text           = $2,
       raw_text       = $3,
       token_count    = $4,
       valid          = $5,
       invalid_reason = $6,
       language       = $7
WHERE id = $8`
	res, err := repo.db.ExecContext(ctx, query,
		document.Title, document.Text, document.RawText,
		document.TokenCount, document.Valid, document.InvalidReason,
		document.Language, document.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *DocumentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

// DeleteByCorpus removes all documents of a corpus ahead of a re-ingest.
func (repo *DocumentRepo) DeleteByCorpus(ctx context.Context, corpusID int64) (int64, error) {
	const query = `DELETE FROM documents WHERE corpus_id = $1`
	res, err := repo.db.ExecContext(ctx, query, corpusID)
	if err != nil {
		return 0, fmt.Errorf("DeleteByCorpus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByCorpus: RowsAffected: %w", err)
	}
	return n, nil
}
