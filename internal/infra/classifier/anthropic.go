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

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"textmill/internal/resilience/circuitbreaker"
	"textmill/internal/resilience/retry"
	"textmill/internal/utils/text"
)

// AnthropicConfig holds configuration parameters for the Anthropic classifier.
// Configuration is loaded from environment variables with fallback to defaults.
type AnthropicConfig struct {
	// MaxTextChars is the maximum number of input characters sent per request.
	// Loaded from CLASSIFIER_MAX_CHARS environment variable.
	// Valid range: 500-50000 characters. Default: 8000.
	MaxTextChars int

	// Labels is the category set the model is asked to choose from.
	// Loaded from CLASSIFIER_LABELS (comma-separated). Default: polarity set.
	Labels []string

	// Model is the Anthropic API model identifier to use for classification.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single classification API call.
	Timeout time.Duration
}

// GetMaxTextChars implements ClassifierConfig.
func (c AnthropicConfig) GetMaxTextChars() int { return c.MaxTextChars }

// GetLabels implements ClassifierConfig.
func (c AnthropicConfig) GetLabels() []string { return c.Labels }

// Validate implements ClassifierConfig.
func (c AnthropicConfig) Validate() error {
	if err := ValidateMaxTextChars(c.MaxTextChars); err != nil {
		return fmt.Errorf("invalid text limit: %w", err)
	}
	if err := ValidateLabels(c.Labels); err != nil {
		return fmt.Errorf("invalid label set: %w", err)
	}
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

// LoadAnthropicConfig loads configuration from environment variables.
// It validates the truncation limit and label set; invalid values fall back
// to the defaults with a warning log.
//
// Environment variables:
//   - CLASSIFIER_MAX_CHARS: Input truncation limit (default: 8000, range: 500-50000)
//   - CLASSIFIER_LABELS: Comma-separated category set (default: "positive,negative,neutral,mixed")
//
// Returns AnthropicConfig with validated settings.
func LoadAnthropicConfig() AnthropicConfig {
	const defaultMaxChars = 8000

	maxChars := defaultMaxChars

	if envLimit := os.Getenv("CLASSIFIER_MAX_CHARS"); envLimit != "" {
		parsed, err := strconv.Atoi(envLimit)
		if err != nil {
			slog.Warn("Invalid CLASSIFIER_MAX_CHARS format, using default",
				slog.String("value", envLimit),
				slog.Int("default", defaultMaxChars),
				slog.String("error", err.Error()))
		} else if validateErr := ValidateMaxTextChars(parsed); validateErr != nil {
			slog.Warn("CLASSIFIER_MAX_CHARS out of valid range, using default",
				slog.Int("value", parsed),
				slog.Int("min", minTextChars),
				slog.Int("max", maxTextChars),
				slog.Int("default", defaultMaxChars))
		} else {
			maxChars = parsed
		}
	}

	labels := loadLabelsFromEnv()

	return AnthropicConfig{
		MaxTextChars: maxChars,
		Labels:       labels,
		Model:        string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens:    256,
		Timeout:      60 * time.Second,
	}
}

// loadLabelsFromEnv parses CLASSIFIER_LABELS, falling back to the default
// polarity set on any validation failure.
func loadLabelsFromEnv() []string {
	envLabels := os.Getenv("CLASSIFIER_LABELS")
	if envLabels == "" {
		return DefaultLabels
	}

	parts := strings.Split(envLabels, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			labels = append(labels, trimmed)
		}
	}

	if err := ValidateLabels(labels); err != nil {
		slog.Warn("Invalid CLASSIFIER_LABELS, using default polarity set",
			slog.String("value", envLabels),
			slog.String("error", err.Error()))
		return DefaultLabels
	}

	return labels
}

// Anthropic implements the Classifier interface using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability,
// and supports configurable label sets with comprehensive observability.
type Anthropic struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          AnthropicConfig
	metricsRecorder PredictionMetricsRecorder
}

// NewAnthropic creates a new Anthropic classifier with the given API key.
// It automatically configures circuit breaker, retry logic, label set
// configuration, and metrics recording.
func NewAnthropic(apiKey string) *Anthropic {
	config := LoadAnthropicConfig()

	slog.Info("Initialized Anthropic classifier with configuration",
		slog.Int("max_text_chars", config.MaxTextChars),
		slog.String("labels", strings.Join(config.Labels, ",")),
		slog.String("model", config.Model))

	return &Anthropic{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusPredictionMetrics(),
	}
}

// Name returns the backend identifier stored on label records.
func (a *Anthropic) Name() string { return "anthropic" }

// Classify assigns a categorical label to the given text using Claude.
// It uses circuit breaker and retry logic for improved reliability.
func (a *Anthropic) Classify(ctx context.Context, input string) (Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var result Prediction

	// Wrap with retry logic
	retryErr := retry.WithBackoff(ctx, a.retryConfig, func() error {
		// Execute through circuit breaker
		cbResult, err := a.circuitBreaker.Execute(func() (interface{}, error) {
			return a.doClassify(ctx, input)
		})

		// Handle circuit breaker open state
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("anthropic api circuit breaker open, request rejected",
					slog.String("service", "anthropic-api"),
					slog.String("state", a.circuitBreaker.State().String()))
				return fmt.Errorf("anthropic api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(Prediction)
		return nil
	})

	if retryErr != nil {
		return Prediction{}, fmt.Errorf("anthropic classify failed after retries: %w", retryErr)
	}

	return result, nil
}

// buildPrompt constructs the classification prompt using the configured
// label set. The model is instructed to answer with a single JSON object.
func (a *Anthropic) buildPrompt(input string) string {
	return buildClassifyPrompt(a.config.Labels, input)
}

// doClassify performs the actual API call without retry or circuit breaker.
// It includes comprehensive structured logging and metrics recording for observability.
func (a *Anthropic) doClassify(ctx context.Context, inputText string) (Prediction, error) {
	// Generate unique request ID for tracing
	requestID := uuid.New().String()

	// Truncate text to keep requests within a predictable token budget.
	truncatedText := truncateForPrompt(inputText, a.config.MaxTextChars)
	if len(truncatedText) < len(inputText) {
		slog.Warn("text truncated for anthropic api",
			slog.String("request_id", requestID),
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncatedText)))
	}

	prompt := a.buildPrompt(truncatedText)
	inputLength := text.CountRunes(truncatedText)

	// Log classification start
	slog.InfoContext(ctx, "Starting classification",
		slog.String("request_id", requestID),
		slog.Int("input_length", inputLength),
		slog.String("labels", strings.Join(a.config.Labels, ",")))

	// Record start time for duration measurement
	start := time.Now()

	// Call Claude API
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.config.Model),
		MaxTokens: int64(a.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Classification failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return Prediction{}, fmt.Errorf("anthropic api error: %w", err)
	}

	// Validate response structure
	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Anthropic API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return Prediction{}, fmt.Errorf("anthropic api returned empty response")
	}

	// Extract text from response
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Anthropic API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return Prediction{}, fmt.Errorf("anthropic api returned unexpected response type")
	}

	prediction, err := parsePrediction(textBlock.Text, a.config.Labels)
	if err != nil {
		a.metricsRecorder.RecordParseFailure()
		slog.ErrorContext(ctx, "Classification response unparseable",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return Prediction{}, fmt.Errorf("anthropic classify: %w", err)
	}

	// Log classification result
	slog.InfoContext(ctx, "Classification completed",
		slog.String("request_id", requestID),
		slog.String("label", prediction.Label),
		slog.Float64("score", prediction.Score),
		slog.Duration("duration", duration))

	// Record metrics
	a.metricsRecorder.RecordLabel(prediction.Label)
	a.metricsRecorder.RecordScore(prediction.Score)
	a.metricsRecorder.RecordDuration(duration)

	return prediction, nil
}

// buildClassifyPrompt renders the shared classification prompt for a label
// set. Both backends use the same instruction so predictions stay comparable.
func buildClassifyPrompt(labels []string, input string) string {
	return fmt.Sprintf(
		"Classify the following text into exactly one of these categories: %s.\n"+
			"Respond with a single JSON object and nothing else, in the form "+
			"{\"label\": \"<category>\", \"score\": <confidence between 0 and 1>}.\n\n"+
			"Text:\n%s",
		strings.Join(labels, ", "), input)
}

// truncateForPrompt limits input to maxChars bytes, appending an ellipsis
// marker when truncation happens.
func truncateForPrompt(input string, maxChars int) string {
	if len(input) <= maxChars {
		return input
	}
	return input[:maxChars] + "...\n(text truncated)"
}
