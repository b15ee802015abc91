// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"textmill/internal/pkg/search"
	"textmill/internal/repository"
)

// DocumentQueryBuilder builds WHERE clauses for document search in PostgreSQL.
// This builder is shared between COUNT and SELECT queries to eliminate duplication.
// It uses PostgreSQL-specific features like ILIKE and numbered placeholders ($1, $2, etc.).
type DocumentQueryBuilder struct{}

// NewDocumentQueryBuilder creates a new query builder instance.
func NewDocumentQueryBuilder() *DocumentQueryBuilder {
	return &DocumentQueryBuilder{}
}

// BuildWhereClause builds WHERE clause and arguments for document search.
// It supports multi-keyword AND logic and optional filters (corpus_id, validity).
// Returns empty string if no conditions are provided.
// PostgreSQL-specific: Uses ILIKE for case-insensitive search and $N placeholders.
func (qb *DocumentQueryBuilder) BuildWhereClause(keywords []string, filters repository.DocumentSearchFilters, tableAlias string) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	// Add keyword conditions (multi-keyword AND logic)
	// Each keyword searches in both title and text using ILIKE (case-insensitive)
	for _, keyword := range keywords {
		// Escape special characters for ILIKE
		escapedKeyword := search.EscapeILIKE(keyword)

		// Build condition with table alias if provided
		var titleCol, textCol string
		if tableAlias != "" {
			titleCol = tableAlias + ".title"
			textCol = tableAlias + ".text"
		} else {
			titleCol = "title"
			textCol = "text"
		}

		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)", titleCol, paramIndex, textCol, paramIndex))
		args = append(args, escapedKeyword)
		paramIndex++
	}

	// Add corpus ID filter
	if filters.CorpusID != nil {
		var col string
		if tableAlias != "" {
			col = tableAlias + ".corpus_id"
		} else {
			col = "corpus_id"
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, paramIndex))
		args = append(args, *filters.CorpusID)
		paramIndex++
	}

	// Add validity filter
	if filters.Valid != nil {
		var col string
		if tableAlias != "" {
			col = tableAlias + ".valid"
		} else {
			col = "valid"
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, paramIndex))
		args = append(args, *filters.Valid)
	}

	// Return empty if no conditions
	if len(conditions) == 0 {
		return "", args
	}

	// Join all conditions with AND
	return "WHERE " + strings.Join(conditions, " AND "), args
}
