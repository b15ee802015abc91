package ai

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"textmill/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// embeddingTimeout is the maximum time to wait for embedding generation.
	// This prevents the embedding goroutine from running indefinitely.
	embeddingTimeout = 30 * time.Second

	// requestIDKey is the context key for request ID.
	requestIDKey contextKey = "request_id"
)

// Prometheus metrics for embedding hook
var (
	// embeddingPendingTotal tracks pending embedding operations.
	embeddingPendingTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ai_embedding_pending_total",
			Help: "Number of pending embedding operations",
		},
	)

	// embeddingProcessedTotal tracks processed embeddings.
	embeddingProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_embedding_processed_total",
			Help: "Total embeddings processed",
		},
		[]string{"status"},
	)
)

// EmbeddingHook provides asynchronous document embedding functionality.
// It spawns a goroutine to generate embeddings without blocking the caller.
type EmbeddingHook struct {
	service   *Service
	aiEnabled bool
}

// NewEmbeddingHook creates a new embedding hook backed by the given service.
//
// Parameters:
//   - service: AI service that generates and stores embeddings
//   - aiEnabled: Feature flag to enable/disable embedding generation
//
// Returns:
//   - *EmbeddingHook: Configured embedding hook ready to use
func NewEmbeddingHook(service *Service, aiEnabled bool) *EmbeddingHook {
	return &EmbeddingHook{
		service:   service,
		aiEnabled: aiEnabled,
	}
}

// EmbedDocumentAsync generates a document embedding asynchronously.
// This method is non-blocking and returns immediately.
// The embedding generation happens in a background goroutine.
//
// Behavior:
//   - Spawns a goroutine for embedding generation
//   - Returns immediately (does not block caller)
//   - Uses detached context with 30s timeout
//   - Gracefully handles failures (logs warnings, no error propagation)
//   - Skips execution if AI_ENABLED=false
//
// Parameters:
//   - ctx: Context from caller (used for logging only, not propagated)
//   - doc: Document to embed (must not be nil)
//
// Example:
//
//	// In ingest service after document creation:
//	if err := documentRepo.CreateBatch(ctx, docs); err != nil {
//	    return err
//	}
//	for _, doc := range docs {
//	    embeddingHook.EmbedDocumentAsync(ctx, doc) // Non-blocking
//	}
//	// Execution continues immediately
func (h *EmbeddingHook) EmbedDocumentAsync(ctx context.Context, doc *entity.Document) {
	// Check feature flag before spawning goroutine
	if !h.aiEnabled {
		// AI disabled, skip embedding
		return
	}

	// Validate input before spawning goroutine
	if doc == nil {
		slog.Warn("Cannot embed nil document")
		return
	}

	// Extract request ID from parent context for tracing
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		requestID = "unknown"
	}

	// Spawn goroutine for async execution
	go h.embedDocument(requestID, doc)
}

// embedDocument performs the actual embedding generation in a goroutine.
// This method runs asynchronously and handles all errors gracefully.
func (h *EmbeddingHook) embedDocument(requestID string, doc *entity.Document) {
	// Track pending operation - must be decremented on all exit paths including panic
	embeddingPendingTotal.Inc()
	completed := false
	defer func() {
		// Ensure gauge is decremented even on panic
		if !completed {
			embeddingPendingTotal.Dec()
			embeddingProcessedTotal.WithLabelValues("panic").Inc()
		}
		if r := recover(); r != nil {
			slog.Error("Panic in embedding hook",
				slog.String("request_id", requestID),
				slog.Int64("document_id", doc.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	// Create detached context with timeout
	// We use context.Background() instead of parent context to avoid cancellation
	// when the parent request completes
	ctx, cancel := context.WithTimeout(context.Background(), embeddingTimeout)
	defer cancel()

	// Add request ID to context for tracing
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Generating document embedding asynchronously",
		slog.String("request_id", requestID),
		slog.Int64("document_id", doc.ID),
		slog.String("title", doc.Title))

	// Call service with metrics tracking
	startTime := time.Now()
	emb, err := h.service.EmbedDocument(ctx, doc)
	duration := time.Since(startTime)

	if err != nil {
		// Record failure and mark as completed
		completed = true
		recordEmbeddingComplete(false)

		// Embedding failed, log warning but do not propagate error
		// This is graceful degradation - document is saved, embedding can be retried later
		slog.Warn("Document embedding failed (non-blocking)",
			slog.String("request_id", requestID),
			slog.Int64("document_id", doc.ID),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return
	}

	// Record success and mark as completed
	completed = true
	recordEmbeddingComplete(true)

	// Success
	slog.Info("Document embedding generated successfully",
		slog.String("request_id", requestID),
		slog.Int64("document_id", doc.ID),
		slog.Int("dimension", int(emb.Dimension)),
		slog.Duration("duration", duration))
}

// recordEmbeddingComplete decrements the pending count and records the result.
func recordEmbeddingComplete(success bool) {
	embeddingPendingTotal.Dec()
	status := "success"
	if !success {
		status = "failure"
	}
	embeddingProcessedTotal.WithLabelValues(status).Inc()
}
