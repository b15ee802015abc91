package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"textmill/internal/resilience/circuitbreaker"
	"textmill/internal/resilience/retry"
	"textmill/internal/utils/text"
)

// OpenAIConfig holds configuration parameters for the OpenAI classifier.
// Configuration is loaded from environment variables with fallback to defaults.
type OpenAIConfig struct {
	// MaxTextChars is the maximum number of input characters sent per request.
	// Loaded from CLASSIFIER_MAX_CHARS environment variable.
	// Valid range: 500-50000 characters. Default: 8000.
	MaxTextChars int

	// Labels is the category set the model is asked to choose from.
	// Loaded from CLASSIFIER_LABELS (comma-separated). Default: polarity set.
	Labels []string

	// Model is the OpenAI API model identifier to use for classification.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single classification API call.
	Timeout time.Duration
}

// GetMaxTextChars implements ClassifierConfig.
// Returns the configured input truncation limit.
func (c *OpenAIConfig) GetMaxTextChars() int {
	return c.MaxTextChars
}

// GetLabels implements ClassifierConfig.
// Returns the configured label set.
func (c *OpenAIConfig) GetLabels() []string {
	return c.Labels
}

// Validate implements ClassifierConfig.
// Validates the configuration and returns an error if invalid.
func (c *OpenAIConfig) Validate() error {
	// Validate truncation limit using shared helper
	if err := ValidateMaxTextChars(c.MaxTextChars); err != nil {
		return fmt.Errorf("invalid text limit: %w", err)
	}

	// Validate label set using shared helper
	if err := ValidateLabels(c.Labels); err != nil {
		return fmt.Errorf("invalid label set: %w", err)
	}

	// Validate other fields
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	return nil
}

// LoadOpenAIConfig loads configuration from environment variables.
// It validates the truncation limit and label set and returns an error if
// either is invalid (fail-closed behavior).
//
// Environment variables:
//   - CLASSIFIER_MAX_CHARS: Input truncation limit (default: 8000, range: 500-50000)
//   - CLASSIFIER_LABELS: Comma-separated category set (default: "positive,negative,neutral,mixed")
//
// Returns:
//   - OpenAIConfig with validated settings
//   - error if validation fails
func LoadOpenAIConfig() (*OpenAIConfig, error) {
	const defaultMaxChars = 8000

	maxChars := defaultMaxChars

	if envLimit := os.Getenv("CLASSIFIER_MAX_CHARS"); envLimit != "" {
		parsed, err := strconv.Atoi(envLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid CLASSIFIER_MAX_CHARS format: %s: %w", envLimit, err)
		}

		// Validate truncation limit using shared helper
		if err := ValidateMaxTextChars(parsed); err != nil {
			return nil, fmt.Errorf("CLASSIFIER_MAX_CHARS out of valid range: %w", err)
		}

		maxChars = parsed
	}

	config := &OpenAIConfig{
		MaxTextChars: maxChars,
		Labels:       loadLabelsFromEnv(),
		Model:        "gpt-4o-mini",
		MaxTokens:    256,
		Timeout:      60 * time.Second,
	}

	// Validate the entire configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OpenAI classifier configuration: %w", err)
	}

	return config, nil
}

// OpenAI implements the Classifier interface using OpenAI's chat API.
// It includes circuit breaker and retry logic for improved reliability,
// and supports configurable label sets with comprehensive observability.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          ClassifierConfig
	metricsRecorder PredictionMetricsRecorder
}

// NewOpenAI creates a new OpenAI classifier with the given API key.
// It automatically configures circuit breaker, retry logic, label set
// configuration, and metrics recording.
func NewOpenAI(apiKey string, config ClassifierConfig) *OpenAI {
	slog.Info("Initialized OpenAI classifier with configuration",
		slog.Int("max_text_chars", config.GetMaxTextChars()),
		slog.String("labels", strings.Join(config.GetLabels(), ",")))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusPredictionMetrics(),
	}
}

// Name returns the backend identifier stored on label records.
func (o *OpenAI) Name() string { return "openai" }

// Classify assigns a categorical label to the given text using OpenAI's chat API.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Classify(ctx context.Context, input string) (Prediction, error) {
	// Set individual timeout (60 seconds)
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var result Prediction

	// Wrap with retry logic
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		// Execute through circuit breaker
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doClassify(ctx, input)
		})

		// Handle circuit breaker open state
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(Prediction)
		return nil
	})

	if retryErr != nil {
		return Prediction{}, fmt.Errorf("openai classify failed after retries: %w", retryErr)
	}

	return result, nil
}

// buildPrompt constructs the classification prompt using the configured
// label set. The model is instructed to answer with a single JSON object.
func (o *OpenAI) buildPrompt(input string) string {
	return buildClassifyPrompt(o.config.GetLabels(), input)
}

// doClassify performs the actual API call without retry or circuit breaker.
// It includes comprehensive structured logging and metrics recording for observability.
func (o *OpenAI) doClassify(ctx context.Context, inputText string) (Prediction, error) {
	// Truncate text to keep requests within a predictable token budget.
	truncatedText := truncateForPrompt(inputText, o.config.GetMaxTextChars())
	if len(truncatedText) < len(inputText) {
		slog.Warn("text truncated for openai api",
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncatedText)))
	}

	prompt := o.buildPrompt(truncatedText)
	inputLength := text.CountRunes(truncatedText)

	// Log classification start
	slog.InfoContext(ctx, "Starting classification",
		slog.Int("input_length", inputLength),
		slog.String("labels", strings.Join(o.config.GetLabels(), ",")))

	// Record start time for duration measurement
	start := time.Now()

	// Call OpenAI API
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: "gpt-4o-mini",
		Messages: []openai.ChatCompletionMessage{{
			Role:    "system",
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Classification failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return Prediction{}, fmt.Errorf("openai api error: %w", err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		return Prediction{}, fmt.Errorf("openai api returned empty response")
	}

	prediction, err := parsePrediction(resp.Choices[0].Message.Content, o.config.GetLabels())
	if err != nil {
		o.metricsRecorder.RecordParseFailure()
		slog.ErrorContext(ctx, "Classification response unparseable",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return Prediction{}, fmt.Errorf("openai classify: %w", err)
	}

	// Log classification result
	slog.InfoContext(ctx, "Classification completed",
		slog.String("label", prediction.Label),
		slog.Float64("score", prediction.Score),
		slog.Duration("duration", duration))

	// Record metrics
	o.metricsRecorder.RecordLabel(prediction.Label)
	o.metricsRecorder.RecordScore(prediction.Score)
	o.metricsRecorder.RecordDuration(duration)

	return prediction, nil
}
