// Package main provides a one-shot CLI for text classification.
// Usage: textmill-classify [file] [--output json]  (reads stdin when no file is given)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"textmill/internal/infra/classifier"
)

// ClassifyOutput represents the JSON output format for a classification.
type ClassifyOutput struct {
	Backend string  `json:"backend"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Chars   int     `json:"chars"`
}

func main() {
	// Load .env before anything reads the environment
	_ = godotenv.Load()

	// Parse command-line arguments
	var (
		outputFormat string
		timeout      time.Duration
	)

	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Classification timeout")
	flag.Parse()

	logger := initLogger()

	text, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read input: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Error: Input text is empty")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: textmill-classify [file] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  textmill-classify review.txt")
		fmt.Fprintln(os.Stderr, "  echo \"what a wonderful read\" | textmill-classify")
		fmt.Fprintln(os.Stderr, "  textmill-classify review.txt --output json")
		os.Exit(1)
	}

	backend := createBackend(logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Classifying text",
		slog.String("backend", backend.Name()),
		slog.Int("chars", len(text)))

	pred, err := backend.Classify(ctx, text)
	if err != nil {
		logger.Error("classification failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Classification failed: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(ClassifyOutput{
			Backend: backend.Name(),
			Label:   pred.Label,
			Score:   pred.Score,
			Chars:   len(text),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Backend: %s\n", backend.Name())
	fmt.Printf("Label:   %s\n", pred.Label)
	if pred.Score > 0 {
		fmt.Printf("Score:   %.2f\n", pred.Score)
	}
}

// readInput returns the text to classify: the named file when a positional
// argument is given, stdin otherwise.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// backendAPI is the subset of the classifier the CLI needs.
type backendAPI interface {
	Name() string
	Classify(ctx context.Context, text string) (classifier.Prediction, error)
}

// createBackend selects the classification backend from CLASSIFIER_BACKEND.
// Unlike the server commands the CLI refuses to run without a real backend,
// because a no-op classification has no standalone value.
func createBackend(logger *slog.Logger) backendAPI {
	backend := os.Getenv("CLASSIFIER_BACKEND")
	switch backend {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Error: ANTHROPIC_API_KEY is required when CLASSIFIER_BACKEND=anthropic")
			os.Exit(1)
		}
		return classifier.NewAnthropic(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY is required when CLASSIFIER_BACKEND=openai")
			os.Exit(1)
		}
		cfg, err := classifier.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load OpenAI classifier configuration", slog.Any("error", err))
			fmt.Fprintf(os.Stderr, "Error: Invalid OpenAI configuration: %v\n", err)
			os.Exit(1)
		}
		return classifier.NewOpenAI(apiKey, cfg)
	case "":
		fmt.Fprintln(os.Stderr, "Error: CLASSIFIER_BACKEND must be set (anthropic or openai)")
		os.Exit(1)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Error: Invalid CLASSIFIER_BACKEND %q (expected anthropic or openai)\n", backend)
		os.Exit(1)
		return nil
	}
}

// initLogger initializes and returns a structured logger.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
