// Package loader implements raw source loading for corpus ingestion.
// It downloads source documents over HTTPS (or reads them from the local
// filesystem) and returns the raw text, leaving format-specific extraction
// to the scraper layer.
package loader

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"textmill/internal/observability/metrics"
	"textmill/internal/resilience/circuitbreaker"
	"textmill/internal/resilience/retry"
	"textmill/internal/usecase/ingest"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// HTTPLoader implements the SourceLoader interface over HTTP(S) and the
// local filesystem.
//
// Features:
//   - SSRF prevention via URL validation
//   - Circuit breaker and retry with backoff for fault tolerance
//   - Outbound rate limiting (token bucket shared across loads)
//   - In-memory TTL cache to avoid refetching unchanged sources
//   - Size limiting to prevent memory exhaustion
//   - Timeout protection against slow servers
//   - Redirect validation for security
//
// Thread safety: HTTPLoader is safe for concurrent use.
type HTTPLoader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
	cache          *gocache.Cache
	config         SourceLoadConfig
}

// NewHTTPLoader creates a new HTTPLoader with the given configuration.
//
// The loader is configured with:
//   - Custom HTTP client with timeout and TLS settings
//   - Circuit breaker and retry with backoff for fault tolerance
//   - Token-bucket rate limiter for outbound politeness
//   - TTL cache for repeated loads of the same source
//   - Redirect validation for security
//   - Custom User-Agent for identification
//
// Parameters:
//   - config: Configuration for source loading (timeouts, limits, security settings)
//
// Returns:
//   - *HTTPLoader: Ready-to-use source loader
//
// Example:
//
//	config := DefaultConfig()
//	loader := NewHTTPLoader(config)
//	text, err := loader.Load(ctx, "https://www.gutenberg.org/cache/epub/1342/pg1342.txt")
func NewHTTPLoader(config SourceLoadConfig) *HTTPLoader {
	loader := &HTTPLoader{
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceLoadConfig()),
		retryConfig:    retry.SourceLoadConfig(),
		limiter:        rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		config:         config,
	}

	if config.CacheTTL > 0 {
		loader.cache = gocache.New(config.CacheTTL, 2*config.CacheTTL)
	}

	// Create HTTP client with redirect validation
	// Each redirect target is validated for security (SSRF check)
	client := &http.Client{
		Timeout: 30 * time.Second, // Overall request timeout
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Check redirect limit
			if len(via) >= loader.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ingest.ErrTooManyRedirects, len(via))
			}

			// Validate each redirect target for SSRF
			if err := validateURL(req.URL.String(), loader.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}

			return nil
		},
	}

	loader.client = client
	return loader
}

// Load fetches the raw text of the given source.
// This method implements the SourceLoader interface.
//
// The load process:
//  1. Dispatches file:// URLs and plain paths to the local filesystem
//  2. Returns a cached copy when one exists within the TTL
//  3. Validates URL for security (SSRF prevention)
//  4. Executes HTTP request through retry and circuit breaker, paying an
//     outbound rate-limit token per physical attempt
//  5. Enforces size limit while reading response
//  6. Caches and returns the raw text
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - source: Source URL (http://, https://, file://) or local path
//
// Returns:
//   - string: Raw source text, exactly as served
//   - error: Error if loading fails
func (l *HTTPLoader) Load(ctx context.Context, source string) (string, error) {
	// Local sources skip the network stack entirely
	if isLocalSource(source) {
		return l.loadLocal(source)
	}

	// Step 1: Return cached copy if present
	if l.cache != nil {
		if cached, found := l.cache.Get(source); found {
			metrics.RecordSourceLoadCached()
			slog.Debug("source load cache hit", slog.String("source", source))
			return cached.(string), nil
		}
	}

	// Step 2: Validate URL for security
	if err := validateURL(source, l.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	var text string
	start := time.Now()

	// Step 3: Wrap with retry logic
	retryErr := retry.WithBackoff(ctx, l.retryConfig, func() error {
		// Every physical attempt consumes a rate-limit token
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait canceled: %w", err)
		}

		// Execute through circuit breaker
		cbResult, err := l.circuitBreaker.Execute(func() (interface{}, error) {
			return l.doFetch(ctx, source)
		})

		// Handle circuit breaker open state
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("source load circuit breaker open, request rejected",
					slog.String("service", "source-load"),
					slog.String("source", source),
					slog.String("state", l.circuitBreaker.State().String()))
				return err
			}
			return err
		}

		text = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		metrics.RecordSourceLoadFailed(time.Since(start))
		return "", retryErr
	}

	metrics.RecordSourceLoadSuccess(time.Since(start), len(text))

	if l.cache != nil {
		l.cache.Set(source, text, gocache.DefaultExpiration)
	}

	return text, nil
}

// doFetch performs the actual HTTP request.
// This is called by Load through the circuit breaker.
//
// Steps:
//  1. Create HTTP request with context and custom User-Agent
//  2. Execute HTTP request
//  3. Read response body with size limiting
//  4. Return raw text
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - source: Source URL to fetch
//
// Returns:
//   - interface{}: Raw source text (as interface{} for circuit breaker)
//   - error: Error if fetching fails
func (l *HTTPLoader) doFetch(ctx context.Context, source string) (interface{}, error) {
	// Apply per-request timeout from config
	reqCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	// Create HTTP request
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ingest.ErrInvalidURL, err)
	}

	// Set custom User-Agent to identify our bot
	req.Header.Set("User-Agent", "TextmillBot/1.0")

	// Execute HTTP request
	resp, err := l.client.Do(req)
	if err != nil {
		// Check if error is timeout
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ingest.ErrTimeout, l.config.Timeout)
		}
		// Check if error is due to redirect validation
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Check HTTP status code
	// HTTPError lets the retry layer distinguish retryable 5xx/429 from
	// permanent 4xx failures
	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	// Read response body with size limit
	// This prevents memory exhaustion from oversized responses
	limitedReader := io.LimitReader(resp.Body, l.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// Check if response exceeded size limit
	if int64(len(body)) > l.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ingest.ErrBodyTooLarge, len(body), l.config.MaxBodySize)
	}

	return string(body), nil
}

// loadLocal reads a source from the local filesystem, honoring the same
// size limit as remote loads. Local reads bypass the cache, rate limiter,
// and circuit breaker: the filesystem needs none of them.
func (l *HTTPLoader) loadLocal(source string) (string, error) {
	if !l.config.AllowLocalFiles {
		return "", fmt.Errorf("%w: local file loading is disabled", ingest.ErrInvalidURL)
	}

	path := strings.TrimPrefix(source, "file://")

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		metrics.RecordSourceLoadFailed(time.Since(start))
		return "", fmt.Errorf("failed to open local source: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	limitedReader := io.LimitReader(f, l.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		metrics.RecordSourceLoadFailed(time.Since(start))
		return "", fmt.Errorf("failed to read local source: %w", err)
	}

	if int64(len(body)) > l.config.MaxBodySize {
		metrics.RecordSourceLoadFailed(time.Since(start))
		return "", fmt.Errorf("%w: file size %d bytes exceeds limit %d bytes",
			ingest.ErrBodyTooLarge, len(body), l.config.MaxBodySize)
	}

	metrics.RecordSourceLoadSuccess(time.Since(start), len(body))
	return string(body), nil
}

// isLocalSource reports whether the source names a local file rather than
// a remote URL. file:// URLs and anything without a URL scheme (plain
// relative or absolute paths) are treated as local.
func isLocalSource(source string) bool {
	if strings.HasPrefix(source, "file://") {
		return true
	}
	return !strings.Contains(source, "://")
}
