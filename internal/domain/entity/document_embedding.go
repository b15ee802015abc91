package entity

import (
	"errors"
	"time"
)

// Sentinel errors for embedding validation.
var (
	// ErrInvalidEmbeddingType indicates an unsupported embedding type value
	ErrInvalidEmbeddingType = errors.New("invalid embedding type")

	// ErrInvalidEmbeddingProvider indicates an unsupported embedding provider value
	ErrInvalidEmbeddingProvider = errors.New("invalid embedding provider")

	// ErrEmptyEmbedding indicates a nil or zero-length embedding vector
	ErrEmptyEmbedding = errors.New("embedding vector is empty")

	// ErrInvalidEmbeddingDimension indicates the declared dimension does not
	// match the actual vector length
	ErrInvalidEmbeddingDimension = errors.New("embedding dimension mismatch")
)

// EmbeddingType identifies which part of a document an embedding was computed from.
type EmbeddingType string

// Supported embedding types.
const (
	EmbeddingTypeTitle EmbeddingType = "title"
	EmbeddingTypeText  EmbeddingType = "text"
)

// IsValid reports whether the embedding type is one of the supported values.
func (et EmbeddingType) IsValid() bool {
	switch et {
	case EmbeddingTypeTitle, EmbeddingTypeText:
		return true
	}
	return false
}

// EmbeddingProvider identifies the external service that produced an embedding.
type EmbeddingProvider string

// Supported embedding providers.
const (
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
	EmbeddingProviderVoyage EmbeddingProvider = "voyage"
)

// IsValid reports whether the provider is one of the supported values.
func (ep EmbeddingProvider) IsValid() bool {
	switch ep {
	case EmbeddingProviderOpenAI, EmbeddingProviderVoyage:
		return true
	}
	return false
}

// DocumentEmbedding represents a vector embedding of a document, used for
// similarity search. One document may carry several embeddings distinguished
// by (type, provider, model).
type DocumentEmbedding struct {
	ID            int64
	DocumentID    int64
	EmbeddingType EmbeddingType
	Provider      EmbeddingProvider
	Model         string
	Dimension     int32
	Embedding     []float32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the DocumentEmbedding entity fields.
// It checks identifiers, enum values and that the vector length matches the
// declared dimension.
func (e *DocumentEmbedding) Validate() error {
	if e.DocumentID <= 0 {
		return &ValidationError{Field: "DocumentID", Message: "must be a positive integer"}
	}
	if !e.EmbeddingType.IsValid() {
		return ErrInvalidEmbeddingType
	}
	if !e.Provider.IsValid() {
		return ErrInvalidEmbeddingProvider
	}
	if e.Model == "" {
		return &ValidationError{Field: "Model", Message: "model is required"}
	}
	if len(e.Embedding) == 0 {
		return ErrEmptyEmbedding
	}
	if int(e.Dimension) != len(e.Embedding) {
		return ErrInvalidEmbeddingDimension
	}
	return nil
}
