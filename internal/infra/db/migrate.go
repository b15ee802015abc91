package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/corpora.sql
var seedCorporaSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS corpora (
    id               SERIAL PRIMARY KEY,
    title            TEXT NOT NULL,
    source_url       TEXT NOT NULL UNIQUE,
    kind             VARCHAR(20) NOT NULL DEFAULT 'book',
    source_config    JSONB,
    language         VARCHAR(16) NOT NULL DEFAULT '',
    document_count   INTEGER NOT NULL DEFAULT 0,
    last_ingested_at TIMESTAMPTZ,
    created_at       TIMESTAMPTZ DEFAULT now(),
    updated_at       TIMESTAMPTZ DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id             SERIAL PRIMARY KEY,
    corpus_id      INTEGER NOT NULL REFERENCES corpora(id) ON DELETE CASCADE,
    seq            INTEGER NOT NULL,
    title          TEXT NOT NULL,
    text           TEXT NOT NULL,
    raw_text       TEXT NOT NULL,
    token_count    INTEGER NOT NULL DEFAULT 0,
    valid          BOOLEAN NOT NULL DEFAULT TRUE,
    invalid_reason TEXT NOT NULL DEFAULT '',
    language       VARCHAR(16) NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ DEFAULT now(),
    UNIQUE(corpus_id, seq)
)`); err != nil {
		return err
	}

	// first_posはコーパス先頭からの通し位置(文書オフセット+文書内位置)
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS term_counts (
    id          BIGSERIAL PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    token       TEXT NOT NULL,
    count       INTEGER NOT NULL,
    first_pos   BIGINT NOT NULL,
    UNIQUE(document_id, token)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS labels (
    id          SERIAL PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    classifier  VARCHAR(50) NOT NULL,
    value       VARCHAR(100) NOT NULL,
    score       DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(document_id, classifier)
)`); err != nil {
		return err
	}

	// パフォーマンス最適化: インデックス追加
	indexes := []string{
		// 章順取得用(UNIQUE(corpus_id, seq)があるが明示しておく)
		`CREATE INDEX IF NOT EXISTS idx_documents_corpus_id ON documents(corpus_id)`,
		// 頻度集計のJOIN用
		`CREATE INDEX IF NOT EXISTS idx_term_counts_document_id ON term_counts(document_id)`,
		// トークン横断検索用(推移・相関のIN句で使用)
		`CREATE INDEX IF NOT EXISTS idx_term_counts_token ON term_counts(token)`,
		// ラベル集計用
		`CREATE INDEX IF NOT EXISTS idx_labels_document_id ON labels(document_id)`,
		// コーパス種別絞り込み用
		`CREATE INDEX IF NOT EXISTS idx_corpora_kind ON corpora(kind)`,
	}

	// pg_trgm拡張を有効化(ILIKE検索高速化用)
	// エラーを無視(既に存在する場合やスーパーユーザー権限がない場合)
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)

	// ILIKE検索用GINインデックス追加(マルチキーワード検索高速化)
	searchIndexes := []string{
		// 文書タイトル・本文のILIKE検索用
		`CREATE INDEX IF NOT EXISTS idx_documents_title_gin ON documents USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_text_gin ON documents USING gin(text gin_trgm_ops)`,
		// コーパスタイトル・URLのILIKE検索用
		`CREATE INDEX IF NOT EXISTS idx_corpora_title_gin ON corpora USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_corpora_source_url_gin ON corpora USING gin(source_url gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		// pg_trgm拡張がない場合はエラーになるため無視
		_, _ = db.Exec(idx)
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// コーパス種別の制約追加
	// PostgreSQL特有の制約構文のため、エラーを無視(既に存在する場合)
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_corpus_kind'
    ) THEN
        ALTER TABLE corpora ADD CONSTRAINT chk_corpus_kind
        CHECK (kind IN ('book', 'article', 'feed', 'csv', 'file'));
    END IF;
END $$;
`)

	// Embedding Feature: pgvector拡張を有効化
	// エラーを無視(既に存在する場合やスーパーユーザー権限がない場合)
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`)

	// Embedding Feature: document_embeddings テーブル作成
	// Note: document_id is INTEGER to match documents.id (SERIAL = INTEGER)
	// Note: vector(1536) is fixed size for OpenAI text-embedding-3-small model
	//       The dimension column stores metadata for validation purposes
	//       If multi-dimension support is needed, consider separate tables per dimension
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS document_embeddings (
    id              SERIAL PRIMARY KEY,
    document_id     INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    embedding_type  VARCHAR(50) NOT NULL,
    provider        VARCHAR(50) NOT NULL,
    model           VARCHAR(100) NOT NULL,
    dimension       INT NOT NULL,
    embedding       vector(1536) NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(document_id, embedding_type, provider, model)
)`); err != nil {
		return err
	}

	// Embedding Feature: document_embeddings インデックス追加
	embeddingIndexes := []string{
		// document_id による検索用 B-tree インデックス
		`CREATE INDEX IF NOT EXISTS idx_document_embeddings_document_id ON document_embeddings(document_id)`,
	}
	for _, idx := range embeddingIndexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Embedding Feature: IVFFlat ベクトル類似検索インデックス
	// エラーを無視(pgvector拡張がない場合にエラーとなるため)
	// lists=100 は <1M レコードに適した値
	_, _ = db.Exec(`
CREATE INDEX IF NOT EXISTS idx_document_embeddings_vector
    ON document_embeddings USING ivfflat (embedding vector_cosine_ops)
    WITH (lists = 100)`)

	// シードデータの投入(重複は自動的にスキップ)
	if _, err := db.Exec(seedCorporaSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown rolls back the database schema.
// This function removes tables and indexes in reverse order of creation.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	// Embedding Feature: Drop document_embeddings table and related objects
	// Drop indexes first (CASCADE will handle this automatically, but explicit is safer)
	dropStatements := []string{
		// Drop IVFFlat vector index
		`DROP INDEX IF EXISTS idx_document_embeddings_vector`,
		// Drop document_id index
		`DROP INDEX IF EXISTS idx_document_embeddings_document_id`,
		// Drop document_embeddings table (CASCADE to handle foreign key references)
		`DROP TABLE IF EXISTS document_embeddings CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Note: We do NOT drop the vector extension as it may be used by other tables
	// Note: We do NOT drop corpora/documents tables as they are core tables

	return nil
}

// MigrateDownEmbeddingsOnly rolls back only the embedding feature.
// This is a targeted rollback that preserves other schema elements.
func MigrateDownEmbeddingsOnly(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_document_embeddings_vector`,
		`DROP INDEX IF EXISTS idx_document_embeddings_document_id`,
		`DROP TABLE IF EXISTS document_embeddings CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
