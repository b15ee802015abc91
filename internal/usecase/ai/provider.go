package ai

import (
	"context"
	"time"

	"textmill/internal/domain/entity"
)

// EmbeddingProvider defines the interface for embedding generation backends.
// This abstraction allows switching between different providers
// (e.g., OpenAI API, local models) without changing business logic.
type EmbeddingProvider interface {
	// EmbedText generates an embedding vector for the given document text.
	EmbedText(ctx context.Context, req EmbedRequest) (*EmbedResponse, error)

	// Health returns the health status of the embedding provider.
	Health(ctx context.Context) (*HealthStatus, error)

	// Close releases resources held by the provider.
	Close() error
}

// EmbedRequest contains document data for embedding generation.
type EmbedRequest struct {
	DocumentID int64
	Title      string
	Text       string
}

// EmbedResponse contains the generated embedding vector and its provenance.
type EmbedResponse struct {
	Vector    []float32
	Model     string
	Provider  entity.EmbeddingProvider
	Dimension int32
}

// HealthStatus represents the health of an embedding provider.
type HealthStatus struct {
	Healthy     bool
	Latency     time.Duration
	Message     string
	CircuitOpen bool
}
