// Package search provides shared helpers for keyword search: query string
// parsing with bounds, ILIKE pattern escaping, and the timeout applied to
// search queries.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultMaxKeywordCount limits how many space-separated keywords a
	// single search accepts.
	DefaultMaxKeywordCount = 5
	// DefaultMaxKeywordLength limits the rune length of one keyword.
	DefaultMaxKeywordLength = 100
	// DefaultSearchTimeout bounds search query execution.
	DefaultSearchTimeout = 5 * time.Second
)

var (
	// ErrNoKeywords indicates the query string contained only whitespace.
	ErrNoKeywords = errors.New("no keywords provided")
	// ErrTooManyKeywords indicates the keyword count limit was exceeded.
	ErrTooManyKeywords = errors.New("too many keywords")
	// ErrKeywordTooLong indicates a single keyword exceeded the length limit.
	ErrKeywordTooLong = errors.New("keyword too long")
)

// ParseKeywords splits a raw query string into keywords on whitespace and
// validates them against the given bounds. Keywords combine with AND logic
// downstream, so order is preserved but duplicates are kept as-is.
func ParseKeywords(raw string, maxCount, maxLength int) ([]string, error) {
	keywords := strings.Fields(raw)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if len(keywords) > maxCount {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyKeywords, len(keywords), maxCount)
	}
	for _, kw := range keywords {
		if utf8.RuneCountInString(kw) > maxLength {
			return nil, fmt.Errorf("%w: max %d characters", ErrKeywordTooLong, maxLength)
		}
	}
	return keywords, nil
}

// EscapeILIKE escapes LIKE metacharacters in a keyword and wraps it in
// wildcards for a contains-match. The result is passed as a bind parameter,
// never interpolated into SQL.
func EscapeILIKE(keyword string) string {
	escaped := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(keyword)
	return "%" + escaped + "%"
}
