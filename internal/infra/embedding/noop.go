package embedding

import (
	"context"

	"textmill/internal/usecase/ai"
)

// NoopProvider is a no-op implementation of ai.EmbeddingProvider.
// Used for testing and when AI features are disabled.
type NoopProvider struct{}

// NewNoopProvider creates a new no-op embedding provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// EmbedText returns an error indicating AI is disabled.
func (p *NoopProvider) EmbedText(ctx context.Context, req ai.EmbedRequest) (*ai.EmbedResponse, error) {
	return nil, ai.ErrAIDisabled
}

// Health returns unhealthy status with descriptive message.
func (p *NoopProvider) Health(ctx context.Context) (*ai.HealthStatus, error) {
	return &ai.HealthStatus{
		Healthy:     false,
		Latency:     0,
		Message:     "AI features are disabled",
		CircuitOpen: false,
	}, nil
}

// Close is a no-op for the noop provider.
func (p *NoopProvider) Close() error {
	return nil
}
