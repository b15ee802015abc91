package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"textmill/internal/domain/entity"
	"textmill/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrAIDisabled is returned when AI features are disabled.
	ErrAIDisabled = errors.New("AI features are disabled")
	// ErrInvalidDocument is returned when the document is nil or has no text.
	ErrInvalidDocument = errors.New("document has no text to embed")
	// ErrNoEmbedding is returned when a document has no stored text embedding.
	ErrNoEmbedding = errors.New("document has no stored embedding")
)

// Service provides embedding-backed operations for documents.
// It orchestrates provider calls and pgvector storage with logging,
// validation, and error handling.
type Service struct {
	provider      EmbeddingProvider
	embeddingRepo repository.DocumentEmbeddingRepository
	aiEnabled     bool
}

// NewService creates a new AI service with the given provider.
//
// Parameters:
//   - provider: Embedding provider implementation (OpenAIProvider or NoopProvider)
//   - embeddingRepo: pgvector-backed embedding storage
//   - aiEnabled: Feature flag to enable/disable AI operations
//
// Returns:
//   - *Service: Configured AI service ready to use
func NewService(provider EmbeddingProvider, embeddingRepo repository.DocumentEmbeddingRepository, aiEnabled bool) *Service {
	return &Service{
		provider:      provider,
		embeddingRepo: embeddingRepo,
		aiEnabled:     aiEnabled,
	}
}

// EmbedDocument generates a text embedding for the document and stores it.
// Re-embedding a document replaces the previous vector for the same
// (type, provider, model) combination.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - doc: Document to embed (must have text)
//
// Returns:
//   - *entity.DocumentEmbedding: The stored embedding
//   - error: ErrAIDisabled if disabled, ErrInvalidDocument for nil/empty
//     documents, or provider/storage errors
//
// Example:
//
//	emb, err := service.EmbedDocument(ctx, doc)
//	if err != nil {
//	    log.Error("embed failed", "error", err)
//	    return err
//	}
//	fmt.Printf("stored %d-dimensional embedding\n", emb.Dimension)
func (s *Service) EmbedDocument(ctx context.Context, doc *entity.Document) (*entity.DocumentEmbedding, error) {
	// Generate request ID for tracing
	requestID := s.getOrCreateRequestID(ctx)

	// Check feature flag
	if !s.aiEnabled {
		slog.Warn("Document embedding requested but AI is disabled",
			slog.String("request_id", requestID))
		return nil, ErrAIDisabled
	}

	// Validate input
	if doc == nil || doc.ID <= 0 || doc.Text == "" {
		slog.Warn("Invalid document provided for embedding",
			slog.String("request_id", requestID))
		return nil, ErrInvalidDocument
	}

	slog.Info("Generating document embedding",
		slog.String("request_id", requestID),
		slog.Int64("document_id", doc.ID),
		slog.String("title", doc.Title))

	// Call provider
	req := EmbedRequest{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Text:       doc.Text,
	}

	resp, err := s.provider.EmbedText(ctx, req)
	if err != nil {
		slog.Error("Embedding generation failed",
			slog.String("request_id", requestID),
			slog.Int64("document_id", doc.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	embedding := &entity.DocumentEmbedding{
		DocumentID:    doc.ID,
		EmbeddingType: entity.EmbeddingTypeText,
		Provider:      resp.Provider,
		Model:         resp.Model,
		Dimension:     resp.Dimension,
		Embedding:     resp.Vector,
	}
	if err := embedding.Validate(); err != nil {
		return nil, fmt.Errorf("provider returned invalid embedding: %w", err)
	}

	if err := s.embeddingRepo.Upsert(ctx, embedding); err != nil {
		slog.Error("Embedding storage failed",
			slog.String("request_id", requestID),
			slog.Int64("document_id", doc.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("store embedding: %w", err)
	}

	slog.Info("Document embedding stored",
		slog.String("request_id", requestID),
		slog.Int64("document_id", doc.ID),
		slog.Int("dimension", int(resp.Dimension)))

	return embedding, nil
}

// SimilarDocuments finds documents semantically similar to the given one,
// using its stored text embedding and pgvector cosine search.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - documentID: Document to find neighbors of
//   - limit: Maximum number of results to return
//
// Returns:
//   - []repository.SimilarDocument: Neighbors ordered by similarity, the
//     document itself excluded
//   - error: ErrAIDisabled if disabled, ErrNoEmbedding when the document was
//     never embedded, or repository errors
func (s *Service) SimilarDocuments(ctx context.Context, documentID int64, limit int) ([]repository.SimilarDocument, error) {
	// Generate request ID for tracing
	requestID := s.getOrCreateRequestID(ctx)

	// Check feature flag
	if !s.aiEnabled {
		slog.Warn("Similarity search requested but AI is disabled",
			slog.String("request_id", requestID),
			slog.Int64("document_id", documentID))
		return nil, ErrAIDisabled
	}

	if documentID <= 0 {
		return nil, &entity.ValidationError{Field: "documentID", Message: "must be positive"}
	}

	// Set default limit if not specified
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	embeddings, err := s.embeddingRepo.FindByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load embedding: %w", err)
	}

	var query *entity.DocumentEmbedding
	for _, e := range embeddings {
		if e.EmbeddingType == entity.EmbeddingTypeText {
			query = e
			break
		}
	}
	if query == nil {
		return nil, ErrNoEmbedding
	}

	slog.Info("Performing similarity search",
		slog.String("request_id", requestID),
		slog.Int64("document_id", documentID),
		slog.Int("limit", limit))

	// The query document matches itself with similarity 1.0, so fetch one
	// extra row and drop it from the results.
	results, err := s.embeddingRepo.SearchSimilar(ctx, query.Embedding, entity.EmbeddingTypeText, limit+1)
	if err != nil {
		slog.Error("Similarity search failed",
			slog.String("request_id", requestID),
			slog.Int64("document_id", documentID),
			slog.Any("error", err))
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	neighbors := make([]repository.SimilarDocument, 0, limit)
	for _, r := range results {
		if r.DocumentID == documentID {
			continue
		}
		neighbors = append(neighbors, r)
		if len(neighbors) == limit {
			break
		}
	}

	slog.Info("Similarity search completed",
		slog.String("request_id", requestID),
		slog.Int64("document_id", documentID),
		slog.Int("results", len(neighbors)))

	return neighbors, nil
}

// Health checks the health of the embedding provider.
//
// Parameters:
//   - ctx: Context for cancellation and timeout (recommended: 5s)
//
// Returns:
//   - *HealthStatus: Health status with latency and circuit breaker state
//   - error: Provider errors if health check fails
func (s *Service) Health(ctx context.Context) (*HealthStatus, error) {
	return s.provider.Health(ctx)
}

// Close releases resources held by the AI service.
// This method should be called when the service is no longer needed.
//
// Returns:
//   - error: Provider errors if cleanup fails
func (s *Service) Close() error {
	return s.provider.Close()
}

// getOrCreateRequestID extracts request ID from context or creates a new one.
func (s *Service) getOrCreateRequestID(ctx context.Context) string {
	// Try to get request ID from context
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID
	}

	// Generate new request ID
	return uuid.New().String()
}
