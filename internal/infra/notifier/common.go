package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"textmill/internal/domain/entity"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

// Common webhook error types used by Discord and Slack notifiers

// RateLimitError represents a 429 rate limit error from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// is429Error checks if the error is a rate limit error and extracts retry_after.
func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError checks if the error is worth retrying (5xx server errors, network errors).
// Client errors (4xx) are not retryable except for rate limits (429).
func isRetryableError(err error) bool {
	// Server errors are retryable
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}

	// Client errors are NOT retryable
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}

	// Rate limit errors are handled separately
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false // Handled by is429Error
	}

	// Network errors, context errors, etc. are retryable
	return true
}

// truncateText truncates text to maxLength characters.
// If truncated, appends suffix to indicate continuation.
func truncateText(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}

	// Reserve space for suffix
	truncateAt := maxLength - len(suffix)
	if truncateAt < 0 {
		truncateAt = 0
	}

	return text[:truncateAt] + suffix
}

// formatTopTokens renders a top-token ranking as "whale (1685) · ahab (512)".
// At most max entries are rendered; the rest are elided.
func formatTopTokens(tokens []entity.TokenRank, max int) string {
	if len(tokens) == 0 {
		return ""
	}
	if max > 0 && len(tokens) > max {
		tokens = tokens[:max]
	}

	parts := make([]string, 0, len(tokens))
	for _, tr := range tokens {
		parts = append(parts, fmt.Sprintf("%s (%d)", tr.Token, tr.Count))
	}
	return strings.Join(parts, " · ")
}

// formatLabelTallies renders a label distribution as "positive 60 · negative 75".
func formatLabelTallies(labels []entity.LabelTally) string {
	if len(labels) == 0 {
		return ""
	}

	parts := make([]string, 0, len(labels))
	for _, lt := range labels {
		parts = append(parts, fmt.Sprintf("%s %d", lt.Value, lt.Count))
	}
	return strings.Join(parts, " · ")
}

// formatDocumentCounts renders ingest outcome counts, omitting zero skip/fail tallies.
func formatDocumentCounts(summary *entity.IngestSummary) string {
	s := fmt.Sprintf("%d ingested", summary.Documents)
	if summary.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", summary.Skipped)
	}
	if summary.Failed > 0 {
		s += fmt.Sprintf(", %d failed", summary.Failed)
	}
	return s
}
