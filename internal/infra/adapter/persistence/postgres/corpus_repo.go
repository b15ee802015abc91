package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"textmill/internal/domain/entity"
	"textmill/internal/repository"
)

type CorpusRepo struct{ db *sql.DB }

func NewCorpusRepo(db *sql.DB) repository.CorpusRepository {
	return &CorpusRepo{db: db}
}

// scanCorpus is a helper function to scan a corpus row including source_config
func scanCorpus(rows *sql.Rows) (*entity.Corpus, error) {
	var corpus entity.Corpus
	var sourceConfigJSON []byte
	if err := rows.Scan(
		&corpus.ID, &corpus.Title, &corpus.SourceURL, &corpus.Kind, &sourceConfigJSON,
		&corpus.Language, &corpus.DocumentCount, &corpus.LastIngestedAt,
		&corpus.CreatedAt, &corpus.UpdatedAt,
	); err != nil {
		return nil, err
	}

	// Unmarshal source_config if present
	if len(sourceConfigJSON) > 0 {
		var config entity.SourceConfig
		if err := json.Unmarshal(sourceConfigJSON, &config); err != nil {
			return nil, fmt.Errorf("unmarshal source_config: %w", err)
		}
		corpus.SourceConfig = &config
	}

	return &corpus, nil
}

func (repo *CorpusRepo) Get(ctx context.Context, id int64) (*entity.Corpus, error) {
	const query = `
SELECT id, title, source_url, kind, source_config, language, document_count, last_ingested_at, created_at, updated_at
FROM corpora
WHERE id = $1
LIMIT 1`
	var corpus entity.Corpus
	var sourceConfigJSON []byte
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&corpus.ID, &corpus.Title, &corpus.SourceURL, &corpus.Kind, &sourceConfigJSON,
		&corpus.Language, &corpus.DocumentCount, &corpus.LastIngestedAt,
		&corpus.CreatedAt, &corpus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	// Unmarshal source_config if present
	if len(sourceConfigJSON) > 0 {
		var config entity.SourceConfig
		if err := json.Unmarshal(sourceConfigJSON, &config); err != nil {
			return nil, fmt.Errorf("Get: unmarshal source_config: %w", err)
		}
		corpus.SourceConfig = &config
	}

	return &corpus, nil
}

func (repo *CorpusRepo) List(ctx context.Context) ([]*entity.Corpus, error) {
	const query = `
SELECT id, title, source_url, kind, source_config, language, document_count, last_ingested_at, created_at, updated_at
FROM corpora
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	corpora := make([]*entity.Corpus, 0, 50)
	for rows.Next() {
		corpus, err := scanCorpus(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		corpora = append(corpora, corpus)
	}
	return corpora, rows.Err()
}

// ListPaginated retrieves corpora ordered by created_at DESC.
// Uses LIMIT and OFFSET for efficient pagination.
func (repo *CorpusRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Corpus, error) {
	const query = `
SELECT id, title, source_url, kind, source_config, language, document_count, last_ingested_at, created_at, updated_at
FROM corpora
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	corpora := make([]*entity.Corpus, 0, limit)
	for rows.Next() {
		corpus, err := scanCorpus(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPaginated: %w", err)
		}
		corpora = append(corpora, corpus)
	}
	return corpora, rows.Err()
}

// Count returns the total number of corpora in the database.
func (repo *CorpusRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM corpora`
	var count int64
	err := repo.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *CorpusRepo) Search(ctx context.Context, kw string) ([]*entity.Corpus, error) {
	const query = `
SELECT id, title, source_url, kind, source_config, language, document_count, last_ingested_at, created_at, updated_at
FROM corpora
WHERE title      ILIKE $1
OR source_url ILIKE $1
ORDER BY id ASC`
	param := "%" + kw + "%"
	rows, err := repo.db.QueryContext(ctx, query, param)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	corpora := make([]*entity.Corpus, 0, 50)
	for rows.Next() {
		corpus, err := scanCorpus(rows)
		if err != nil {
			return nil, fmt.Errorf("Search: %w", err)
		}
		corpora = append(corpora, corpus)
	}
	return corpora, rows.Err()
}

func (repo *CorpusRepo) Create(ctx context.Context, corpus *entity.Corpus) error {
	// Default to book if kind is empty
	if corpus.Kind == "" {
		corpus.Kind = "book"
	}

	// Marshal source_config to JSON if present
	var sourceConfigJSON []byte
	if corpus.SourceConfig != nil {
		var err error
		sourceConfigJSON, err = json.Marshal(corpus.SourceConfig)
		if err != nil {
			return fmt.Errorf("Create: marshal source_config: %w", err)
		}
	}

	const query = `
INSERT INTO corpora (title, source_url, kind, source_config, language, document_count, last_ingested_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		corpus.Title, corpus.SourceURL, corpus.Kind, sourceConfigJSON,
		corpus.Language, corpus.DocumentCount, corpus.LastIngestedAt,
		corpus.CreatedAt, corpus.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CorpusRepo) Update(ctx context.Context, corpus *entity.Corpus) error {
	// Default to book if kind is empty
	if corpus.Kind == "" {
		corpus.Kind = "book"
	}

	// Marshal source_config to JSON if present
	var sourceConfigJSON []byte
	if corpus.SourceConfig != nil {
		var err error
		sourceConfigJSON, err = json.Marshal(corpus.SourceConfig)
		if err != nil {
			return fmt.Errorf("Update: marshal source_config: %w", err)
		}
	}

	const query = `
UPDATE corpora SET
       title         = $1,
       source_url    = $2,
       kind          = $3,
       source_config = $4,
       language      = $5,
       updated_at    = $6
WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, query,
		corpus.Title, corpus.SourceURL, corpus.Kind, sourceConfigJSON,
		corpus.Language, corpus.UpdatedAt, corpus.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *CorpusRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM corpora WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *CorpusRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM corpora WHERE source_url = $1)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

func (repo *CorpusRepo) TouchIngestedAt(ctx context.Context, id int64, t time.Time, documentCount int) error {
	const query = `UPDATE corpora SET last_ingested_at = $1, document_count = $2, updated_at = $1 WHERE id = $3`
	_, err := repo.db.ExecContext(ctx, query, t, documentCount, id)
	return err
}
