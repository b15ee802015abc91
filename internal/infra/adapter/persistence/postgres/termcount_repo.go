package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"textmill/internal/repository"
)

// insertChunkSize bounds rows per INSERT so the parameter count stays well
// under PostgreSQL's 65535 placeholder limit (4 parameters per row).
const insertChunkSize = 5000

type TermCountRepo struct{ db *sql.DB }

func NewTermCountRepo(db *sql.DB) repository.TermCountRepository {
	return &TermCountRepo{db: db}
}

// ReplaceForDocument atomically replaces the full token count row set of a
// document. Delete and insert run in one transaction so concurrent readers
// never observe a half-written table.
func (repo *TermCountRepo) ReplaceForDocument(ctx context.Context, documentID int64, counts []repository.TermCount) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceForDocument: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const deleteQuery = `DELETE FROM term_counts WHERE document_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, documentID); err != nil {
		return fmt.Errorf("ReplaceForDocument: delete: %w", err)
	}

	// 一括INSERTでN+1問題を解消する
	for start := 0; start < len(counts); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(counts) {
			end = len(counts)
		}
		chunk := counts[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*4)
		for i, tc := range chunk {
			base := i * 4
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4))
			args = append(args, documentID, tc.Token, tc.Count, tc.FirstPos)
		}

		query := `
INSERT INTO term_counts (document_id, token, count, first_pos)
VALUES ` + strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("ReplaceForDocument: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceForDocument: Commit: %w", err)
	}
	return nil
}

// DocumentRow retrieves all token counts of one document ordered by count
// DESC with first appearance breaking ties.
func (repo *TermCountRepo) DocumentRow(ctx context.Context, documentID int64) ([]repository.TermCount, error) {
	const query = `
SELECT token, count, first_pos
FROM term_counts
WHERE document_id = $1
ORDER BY count DESC, first_pos ASC`
	rows, err := repo.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("DocumentRow: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	counts := make([]repository.TermCount, 0, 100)
	for rows.Next() {
		var tc repository.TermCount
		if err := rows.Scan(&tc.Token, &tc.Count, &tc.FirstPos); err != nil {
			return nil, fmt.Errorf("DocumentRow: Scan: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// CorpusTable aggregates token counts across a corpus ordered by count DESC
// with first appearance breaking ties.
func (repo *TermCountRepo) CorpusTable(ctx context.Context, corpusID int64) ([]repository.CorpusTermCount, error) {
	const query = `
SELECT tc.token, SUM(tc.count) AS count, MIN(tc.first_pos) AS first_pos
FROM term_counts tc
INNER JOIN documents d ON tc.document_id = d.id
WHERE d.corpus_id = $1
GROUP BY tc.token
ORDER BY SUM(tc.count) DESC, MIN(tc.first_pos) ASC`
	rows, err := repo.db.QueryContext(ctx, query, corpusID)
	if err != nil {
		return nil, fmt.Errorf("CorpusTable: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	counts := make([]repository.CorpusTermCount, 0, 1000)
	for rows.Next() {
		var tc repository.CorpusTermCount
		if err := rows.Scan(&tc.Token, &tc.Count, &tc.FirstPos); err != nil {
			return nil, fmt.Errorf("CorpusTable: Scan: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// TopN returns the corpus's most frequent tokens. The ordering matches
// CorpusTable: count DESC, then earliest first occurrence.
func (repo *TermCountRepo) TopN(ctx context.Context, corpusID int64, limit int) ([]repository.CorpusTermCount, error) {
	const query = `
SELECT tc.token, SUM(tc.count) AS count, MIN(tc.first_pos) AS first_pos
FROM term_counts tc
INNER JOIN documents d ON tc.document_id = d.id
WHERE d.corpus_id = $1
GROUP BY tc.token
ORDER BY SUM(tc.count) DESC, MIN(tc.first_pos) ASC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, corpusID, limit)
	if err != nil {
		return nil, fmt.Errorf("TopN: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]repository.CorpusTermCount, 0, limit)
	for rows.Next() {
		var tc repository.CorpusTermCount
		if err := rows.Scan(&tc.Token, &tc.Count, &tc.FirstPos); err != nil {
			return nil, fmt.Errorf("TopN: Scan: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// TokenCounts retrieves per-document counts of the given tokens in seq
// order. Documents where a token never occurs produce no row.
func (repo *TermCountRepo) TokenCounts(ctx context.Context, corpusID int64, tokens []string) ([]repository.DocumentTermCount, error) {
	if len(tokens) == 0 {
		return []repository.DocumentTermCount{}, nil
	}

	placeholders := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)+1)
	args = append(args, corpusID)
	for i, token := range tokens {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, token)
	}

	query := fmt.Sprintf(`
SELECT tc.document_id, d.seq, tc.token, tc.count
FROM term_counts tc
INNER JOIN documents d ON tc.document_id = d.id
WHERE d.corpus_id = $1 AND tc.token IN (%s)
ORDER BY d.seq ASC, tc.token ASC`, strings.Join(placeholders, ", "))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TokenCounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]repository.DocumentTermCount, 0, len(tokens)*16)
	for rows.Next() {
		var dtc repository.DocumentTermCount
		if err := rows.Scan(&dtc.DocumentID, &dtc.Seq, &dtc.Token, &dtc.Count); err != nil {
			return nil, fmt.Errorf("TokenCounts: Scan: %w", err)
		}
		counts = append(counts, dtc)
	}
	return counts, rows.Err()
}

// DocumentTotals retrieves every document's token total in seq order. The
// totals come from the documents table itself, so empty documents appear
// with a zero total instead of vanishing.
func (repo *TermCountRepo) DocumentTotals(ctx context.Context, corpusID int64) ([]repository.DocumentTotal, error) {
	const query = `
SELECT id, seq, token_count
FROM documents
WHERE corpus_id = $1
ORDER BY seq ASC`
	rows, err := repo.db.QueryContext(ctx, query, corpusID)
	if err != nil {
		return nil, fmt.Errorf("DocumentTotals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make([]repository.DocumentTotal, 0, 100)
	for rows.Next() {
		var dt repository.DocumentTotal
		if err := rows.Scan(&dt.DocumentID, &dt.Seq, &dt.Total); err != nil {
			return nil, fmt.Errorf("DocumentTotals: Scan: %w", err)
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}

// DeleteByDocumentID removes all counts of a document.
// Returns the number of deleted rows.
func (repo *TermCountRepo) DeleteByDocumentID(ctx context.Context, documentID int64) (int64, error) {
	const query = `DELETE FROM term_counts WHERE document_id = $1`
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
