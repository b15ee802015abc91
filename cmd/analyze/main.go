// Package main provides a one-shot CLI for corpus frequency analysis.
// Usage: textmill-analyze <file-or-url> [--top N] [--chart bar|wordcloud] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"textmill/internal/analysis/freq"
	"textmill/internal/infra/loader"
	"textmill/internal/report"
	"textmill/internal/textproc"
)

// AnalyzeOutput represents the JSON output format for the frequency table.
type AnalyzeOutput struct {
	Source      string       `json:"source"`
	TotalTokens int          `json:"total_tokens"`
	UniqueCount int          `json:"unique_count"`
	Top         []freq.Entry `json:"top"`
}

func main() {
	// Load .env before anything reads the environment
	_ = godotenv.Load()

	// Parse command-line arguments
	var (
		topN         int
		chart        string
		outputFormat string
		timeout      time.Duration
	)

	flag.IntVar(&topN, "top", 20, "Number of top tokens to print")
	flag.StringVar(&chart, "chart", "", "Chart spec to emit instead of a table: bar or wordcloud")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Source load timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: Source file or URL is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: textmill-analyze <file-or-url> [--top N] [--chart bar|wordcloud] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  textmill-analyze moby-dick.txt")
		fmt.Fprintln(os.Stderr, "  textmill-analyze https://www.gutenberg.org/files/2701/2701-0.txt --top 50")
		fmt.Fprintln(os.Stderr, "  textmill-analyze moby-dick.txt --chart bar")
		os.Exit(1)
	}
	source := args[0]

	logger := initLogger()

	if topN < 1 {
		fmt.Fprintf(os.Stderr, "Warning: top %d out of range, using 20\n", topN)
		topN = 20
	}
	if chart != "" && chart != "bar" && chart != "wordcloud" {
		fmt.Fprintf(os.Stderr, "Error: Invalid chart %q (expected bar or wordcloud)\n", chart)
		os.Exit(1)
	}

	// Source loading configuration (fail-open to defaults)
	loaderCfg, err := loader.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("failed to load source loader configuration, using defaults", slog.Any("error", err))
		loaderCfg = loader.DefaultConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Loading source", slog.String("source", source))
	raw, err := loader.NewHTTPLoader(loaderCfg).Load(ctx, source)
	if err != nil {
		logger.Error("failed to load source", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load source: %v\n", err)
		os.Exit(1)
	}

	cleaner := textproc.NewCleaner(textproc.DefaultCleanerConfig())
	cleaned, err := cleaner.Clean(raw)
	if err != nil {
		logger.Error("failed to clean text", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to clean text: %v\n", err)
		os.Exit(1)
	}

	tokenizer := textproc.NewTokenizer(textproc.DefaultTokenizerConfig())
	tokens := tokenizer.Tokenize(cleaned)
	if len(tokens) == 0 {
		fmt.Fprintln(os.Stderr, "Error: Source produced no tokens")
		os.Exit(1)
	}

	table := freq.Build(tokens)
	top := table.TopN(topN)

	if chart != "" {
		outputChart(source, chart, top)
		return
	}
	if outputFormat == "json" {
		outputJSON(source, table, top)
		return
	}
	outputText(source, table, top)
}

// outputText prints the frequency table in human-readable form.
func outputText(source string, table *freq.Table, top []freq.Entry) {
	fmt.Printf("Frequency analysis: %s\n", source)
	fmt.Printf("Total tokens: %d, unique: %d\n\n", table.Total(), table.Len())
	fmt.Printf("%4s  %-24s %8s %8s\n", "#", "TOKEN", "COUNT", "REL")
	for i, e := range top {
		fmt.Printf("%4d  %-24s %8d %7.2f%%\n", i+1, e.Token, e.Count, e.Rel)
	}
}

// outputJSON prints the frequency table as indented JSON.
func outputJSON(source string, table *freq.Table, top []freq.Entry) {
	out := AnalyzeOutput{
		Source:      source,
		TotalTokens: table.Total(),
		UniqueCount: table.Len(),
		Top:         top,
	}
	encode(out)
}

// outputChart prints a chart specification built from the top entries.
func outputChart(source, kind string, top []freq.Entry) {
	cfg := report.DefaultConfig()
	switch kind {
	case "bar":
		encode(report.BuildBar(source, top, cfg))
	case "wordcloud":
		encode(report.BuildWordCloud(source, top, cfg))
	}
}

func encode(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
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
