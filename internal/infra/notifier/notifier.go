// Package notifier provides abstraction for delivering ingest-run summaries.
// It defines the Notifier interface which allows different delivery mechanisms
// (Discord, Slack, email, etc.) to be used interchangeably through dependency injection.
//
// The package includes implementations for Discord and Slack webhooks and a
// no-op notifier for when notifications are disabled.
package notifier

import (
	"context"

	"textmill/internal/domain/entity"
)

// Notifier is an interface for delivering ingest summaries.
// Implementations should handle rate limiting, retries, and error logging internally.
type Notifier interface {
	// NotifyIngestCompleted delivers a summary of a finished corpus ingest run.
	// The notification should include the corpus title, document and token counts,
	// the top-token ranking, and the label distribution when classification ran.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - summary: The ingest summary to deliver (must not be nil)
	//
	// Returns:
	//   - error: Non-nil if the notification failed after all retry attempts
	//
	// Implementations should:
	//   - Generate a unique request ID for tracing
	//   - Apply rate limiting to prevent API abuse
	//   - Retry transient failures with exponential backoff
	//   - Log all attempts with the request ID for debugging
	//   - Respect context cancellation
	NotifyIngestCompleted(ctx context.Context, summary *entity.IngestSummary) error
}
