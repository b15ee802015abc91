// Package embedding provides EmbeddingProvider implementations backed by
// external vector APIs. The OpenAI provider wraps the embeddings endpoint
// with a circuit breaker and Prometheus instrumentation; the no-op provider
// stands in when AI features are disabled.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"textmill/internal/config"
	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ai"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Prometheus metrics for the embedding provider
var (
	// embeddingRequestsTotal tracks the total number of provider requests.
	embeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_provider_requests_total",
			Help: "Total number of embedding provider requests",
		},
		[]string{"method", "status"},
	)

	// embeddingRequestDuration tracks provider request latency.
	// Buckets are optimized for embedding API response times:
	// - Fast: 0.1s, 0.25s, 0.5s
	// - Normal: 1s, 2s, 5s
	// - Slow: 10s, 30s
	embeddingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_provider_request_duration_seconds",
			Help:    "Embedding provider request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method"},
	)

	// embeddingCircuitBreakerState tracks circuit breaker state.
	// 0 = closed, 1 = open, 2 = half-open
	embeddingCircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "embedding_provider_circuit_breaker_state",
			Help: "Embedding circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)

// Common errors
var (
	// ErrProviderUnavailable indicates the embedding API is not reachable.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrCircuitBreakerOpen indicates too many failures, circuit is open.
	ErrCircuitBreakerOpen = errors.New("embedding provider temporarily disabled (circuit breaker open)")

	// ErrMissingAPIKey indicates the OPENAI_API_KEY env variable is not set.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

	// ErrEmptyInput indicates the embed request carried no text.
	ErrEmptyInput = errors.New("embedding input is empty")
)

// maxInputChars caps the text sent per embedding request. text-embedding-3
// models accept 8191 tokens; this character bound keeps requests safely
// under that for natural-language corpora.
const maxInputChars = 20000

// OpenAIProvider implements ai.EmbeddingProvider using OpenAI's embeddings API.
type OpenAIProvider struct {
	client         *openai.Client
	config         *config.AIConfig
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a new OpenAI embedding provider.
func NewOpenAIProvider(cfg *config.AIConfig) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("AI config is required")
	}

	if !cfg.Enabled {
		return nil, ai.ErrAIDisabled
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	// Configure circuit breaker
	cbSettings := gobreaker.Settings{
		Name:        "embedding-openai",
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.CircuitBreaker.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.CircuitBreaker.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Info("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			// Update circuit breaker state metric
			updateCircuitBreakerMetric(name, to)
		},
	}

	provider := &OpenAIProvider{
		client:         openai.NewClient(apiKey),
		config:         cfg,
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
	}

	slog.Info("Initialized OpenAI embedding provider",
		slog.String("model", cfg.EmbeddingModel),
		slog.Int("dimensions", cfg.EmbeddingDimensions))

	return provider, nil
}

// EmbedText generates an embedding vector for the given document text.
func (p *OpenAIProvider) EmbedText(ctx context.Context, req ai.EmbedRequest) (*ai.EmbedResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}

	input := buildEmbedInput(req)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeouts.EmbedDocument)
	defer cancel()

	// Track request duration
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		embeddingRequestDuration.WithLabelValues("EmbedText").Observe(duration)
	}()

	// Execute through circuit breaker
	result, err := p.circuitBreaker.Execute(func() (any, error) {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      []string{input},
			Model:      openai.EmbeddingModel(p.config.EmbeddingModel),
			Dimensions: p.config.EmbeddingDimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}

		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("%w: empty embedding response", ErrProviderUnavailable)
		}

		vector := resp.Data[0].Embedding
		return &ai.EmbedResponse{
			Vector:    vector,
			Model:     p.config.EmbeddingModel,
			Provider:  entity.EmbeddingProviderOpenAI,
			Dimension: int32(len(vector)),
		}, nil
	})

	// Record request metrics
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) {
			embeddingRequestsTotal.WithLabelValues("EmbedText", "circuit_breaker_open").Inc()
			return nil, ErrCircuitBreakerOpen
		}
	}
	embeddingRequestsTotal.WithLabelValues("EmbedText", status).Inc()

	if err != nil {
		return nil, err
	}

	return result.(*ai.EmbedResponse), nil
}

// Health returns the health status of the embedding provider.
// It checks the circuit breaker state and pings the models endpoint.
func (p *OpenAIProvider) Health(ctx context.Context) (*ai.HealthStatus, error) {
	start := time.Now()

	// Check circuit breaker state
	cbState := p.circuitBreaker.State()
	if cbState == gobreaker.StateOpen {
		return &ai.HealthStatus{
			Healthy:     false,
			Latency:     0,
			Message:     "circuit breaker is open",
			CircuitOpen: true,
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return &ai.HealthStatus{
			Healthy:     false,
			Latency:     time.Since(start),
			Message:     fmt.Sprintf("models endpoint unreachable: %v", err),
			CircuitOpen: false,
		}, nil
	}

	return &ai.HealthStatus{
		Healthy:     true,
		Latency:     time.Since(start),
		Message:     fmt.Sprintf("model: %s", p.config.EmbeddingModel),
		CircuitOpen: false,
	}, nil
}

// Close releases resources held by the provider.
// The OpenAI client is stateless HTTP; nothing to release.
func (p *OpenAIProvider) Close() error {
	return nil
}

// buildEmbedInput combines title and text into a single embedding input,
// truncated to the provider's input bound.
func buildEmbedInput(req ai.EmbedRequest) string {
	input := req.Text
	if req.Title != "" {
		input = req.Title + "\n\n" + req.Text
	}

	if len(input) > maxInputChars {
		// Back up to a rune boundary so the cut never splits a multi-byte rune
		cut := maxInputChars
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		slog.Warn("embedding input truncated",
			slog.Int64("document_id", req.DocumentID),
			slog.Int("original_length", len(input)),
			slog.Int("truncated_length", cut))
		input = input[:cut]
	}

	return input
}

// updateCircuitBreakerMetric updates the Prometheus gauge for circuit breaker state.
func updateCircuitBreakerMetric(name string, state gobreaker.State) {
	var value float64
	switch state {
	case gobreaker.StateClosed:
		value = 0
	case gobreaker.StateOpen:
		value = 1
	case gobreaker.StateHalfOpen:
		value = 2
	}
	embeddingCircuitBreakerState.WithLabelValues(name).Set(value)
}
