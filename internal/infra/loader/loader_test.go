package loader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"textmill/internal/infra/loader"
)

// testConfig returns a config suitable for local test servers: SSRF
// protection off, rate limit high enough not to slow the suite down.
func testConfig() loader.SourceLoadConfig {
	cfg := loader.DefaultConfig()
	cfg.DenyPrivateIPs = false // Disable SSRF protection for local test server
	cfg.RateLimit = 100
	cfg.RateBurst = 100
	return cfg
}

func TestLoad_Success(t *testing.T) {
	body := "It is a truth universally acknowledged, that a single man in\npossession of a good fortune, must be in want of a wife.\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify User-Agent
		if r.Header.Get("User-Agent") != "TextmillBot/1.0" {
			t.Errorf("expected User-Agent='TextmillBot/1.0', got %q", r.Header.Get("User-Agent"))
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	sourceLoader := loader.NewHTTPLoader(testConfig())

	text, err := sourceLoader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// The loader must return the body verbatim, whitespace included;
	// cleaning is a later pipeline stage.
	if text != body {
		t.Errorf("expected raw body to be preserved exactly, got: %q", text)
	}
}

func TestLoad_CacheHit(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requestCount, 1)
		if _, err := w.Write([]byte("cached body")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	sourceLoader := loader.NewHTTPLoader(cfg)

	// First load hits the server
	first, err := sourceLoader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	// Second load within the TTL must come from the cache
	second, err := sourceLoader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if first != second {
		t.Errorf("expected identical text from cache, got %q and %q", first, second)
	}

	if got := atomic.LoadInt64(&requestCount); got != 1 {
		t.Errorf("expected exactly 1 HTTP request, got %d", got)
	}
}

func TestLoad_CacheDisabled(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requestCount, 1)
		if _, err := w.Write([]byte("uncached body")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.CacheTTL = 0 // Disable caching
	sourceLoader := loader.NewHTTPLoader(cfg)

	for i := 0; i < 2; i++ {
		if _, err := sourceLoader.Load(context.Background(), server.URL); err != nil {
			t.Fatalf("Load() %d error = %v", i, err)
		}
	}

	if got := atomic.LoadInt64(&requestCount); got != 2 {
		t.Errorf("expected 2 HTTP requests with caching disabled, got %d", got)
	}
}

func TestLoad_ErrorNotCached(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requestCount, 1)
		if n == 1 {
			// 404 is not retried, so the first Load fails after one attempt
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if _, err := w.Write([]byte("recovered")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	sourceLoader := loader.NewHTTPLoader(cfg)

	// First load fails and must not populate the cache
	if _, err := sourceLoader.Load(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for HTTP 404, got nil")
	}

	// Second load hits the server again and succeeds
	text, err := sourceLoader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if text != "recovered" {
		t.Errorf("expected %q, got %q", "recovered", text)
	}

	if got := atomic.LoadInt64(&requestCount); got != 2 {
		t.Errorf("expected 2 HTTP requests, got %d", got)
	}
}

/* ───────── Local file loading ───────── */

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	content := "CHAPTER I.\n\nCall me Ishmael.\n"

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sourceLoader := loader.NewHTTPLoader(testConfig())

	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "plain path",
			source: path,
		},
		{
			name:   "file URL",
			source: "file://" + path,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := sourceLoader.Load(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if text != content {
				t.Errorf("expected file content to be preserved exactly, got: %q", text)
			}
		})
	}
}

func TestLoad_LocalFileDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte("text"), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg := testConfig()
	cfg.AllowLocalFiles = false
	sourceLoader := loader.NewHTTPLoader(cfg)

	_, err := sourceLoader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected error with AllowLocalFiles=false, got nil")
	}
	if !strings.Contains(err.Error(), "local file loading is disabled") {
		t.Errorf("expected local-files-disabled error, got: %v", err)
	}
}

func TestLoad_LocalFileMissing(t *testing.T) {
	sourceLoader := loader.NewHTTPLoader(testConfig())

	_, err := sourceLoader.Load(context.Background(), filepath.Join(t.TempDir(), "no-such-file.txt"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to open local source") {
		t.Errorf("expected open error, got: %v", err)
	}
}

func TestLoad_LocalFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")

	// 2KB file against a 1KB limit
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 2048)), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg := testConfig()
	cfg.MaxBodySize = 1024
	sourceLoader := loader.NewHTTPLoader(cfg)

	_, err := sourceLoader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for oversized file, got nil")
	}
	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("expected size limit error, got: %v", err)
	}
}

/* ───────── URL validation and security ───────── */

func TestLoad_InvalidScheme(t *testing.T) {
	sourceLoader := loader.NewHTTPLoader(testConfig())

	tests := []struct {
		name string
		url  string
	}{
		{
			name: "ftp scheme",
			url:  "ftp://ftp.example.com/file.txt",
		},
		{
			name: "gopher scheme",
			url:  "gopher://example.com/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sourceLoader.Load(context.Background(), tt.url)
			if err == nil {
				t.Error("expected error for disallowed scheme, got nil")
			}
			if !strings.Contains(err.Error(), "not allowed") {
				t.Errorf("expected scheme validation error, got: %v", err)
			}
		})
	}
}

func TestLoad_PrivateIP(t *testing.T) {
	cfg := loader.DefaultConfig()
	cfg.DenyPrivateIPs = true
	sourceLoader := loader.NewHTTPLoader(cfg)

	tests := []struct {
		name string
		url  string
	}{
		{
			name: "localhost",
			url:  "http://localhost/corpus.txt",
		},
		{
			name: "127.0.0.1",
			url:  "http://127.0.0.1:8080/corpus.txt",
		},
		{
			name: "private 10.x",
			url:  "http://10.0.0.1/corpus.txt",
		},
		{
			name: "private 192.168.x",
			url:  "http://192.168.1.1/corpus.txt",
		},
		{
			name: "cloud metadata",
			url:  "http://169.254.169.254/latest/meta-data/",
		},
		{
			name: "IPv6 loopback",
			url:  "http://[::1]/corpus.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sourceLoader.Load(context.Background(), tt.url)
			if err == nil {
				t.Errorf("expected error for private address, got nil")
			}
			if !strings.Contains(err.Error(), "private IP") {
				t.Errorf("expected private IP error, got: %v", err)
			}
		})
	}
}

func TestLoad_HTTPError(t *testing.T) {
	// All client errors here are non-retryable, so each Load makes exactly
	// one attempt
	tests := []struct {
		name       string
		statusCode int
	}{
		{
			name:       "404 Not Found",
			statusCode: http.StatusNotFound,
		},
		{
			name:       "403 Forbidden",
			statusCode: http.StatusForbidden,
		},
		{
			name:       "401 Unauthorized",
			statusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestCount int64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt64(&requestCount, 1)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			sourceLoader := loader.NewHTTPLoader(testConfig())

			_, err := sourceLoader.Load(context.Background(), server.URL)
			if err == nil {
				t.Errorf("expected error for HTTP %d, got nil", tt.statusCode)
			}
			if !strings.Contains(err.Error(), fmt.Sprintf("%d", tt.statusCode)) {
				t.Errorf("expected error to contain status code %d, got: %v", tt.statusCode, err)
			}
			if got := atomic.LoadInt64(&requestCount); got != 1 {
				t.Errorf("expected 1 attempt for HTTP %d, got %d", tt.statusCode, got)
			}
		})
	}
}

func TestLoad_RetriesServerError(t *testing.T) {
	var requestCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requestCount, 1)
		if n == 1 {
			// 503 is retryable; the second attempt succeeds
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("second attempt")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	sourceLoader := loader.NewHTTPLoader(testConfig())

	text, err := sourceLoader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "second attempt" {
		t.Errorf("expected %q, got %q", "second attempt", text)
	}
	if got := atomic.LoadInt64(&requestCount); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestLoad_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		if _, err := w.Write([]byte("too late")); err != nil {
			t.Logf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Timeout = 500 * time.Millisecond
	sourceLoader := loader.NewHTTPLoader(cfg)

	_, err := sourceLoader.Load(context.Background(), server.URL)
	if err == nil {
		t.Error("expected timeout error, got nil")
	}

	if !strings.Contains(err.Error(), "timeout") && !strings.Contains(err.Error(), "deadline") && !strings.Contains(err.Error(), "context") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestLoad_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 2KB response against a 1KB limit
		if _, err := w.Write([]byte(strings.Repeat("x", 2048))); err != nil {
			t.Logf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024
	sourceLoader := loader.NewHTTPLoader(cfg)

	_, err := sourceLoader.Load(context.Background(), server.URL)
	if err == nil {
		t.Error("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("expected body too large error, got: %v", err)
	}
}

func TestLoad_TooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Redirect to self forever
		http.Redirect(w, r, r.URL.String(), http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 3
	sourceLoader := loader.NewHTTPLoader(cfg)

	_, err := sourceLoader.Load(context.Background(), server.URL)
	if err == nil {
		t.Error("expected error for too many redirects, got nil")
	}
	if !strings.Contains(err.Error(), "redirect") {
		t.Errorf("expected redirect error, got: %v", err)
	}
}

func TestLoad_SuccessfulRedirect(t *testing.T) {
	finalServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("final text")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer finalServer.Close()

	initialServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, finalServer.URL, http.StatusFound)
	}))
	defer initialServer.Close()

	sourceLoader := loader.NewHTTPLoader(testConfig())

	text, err := sourceLoader.Load(context.Background(), initialServer.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "final text" {
		t.Errorf("expected content from final destination, got: %q", text)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		if _, err := w.Write([]byte("response")); err != nil {
			t.Logf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	sourceLoader := loader.NewHTTPLoader(testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sourceLoader.Load(ctx, server.URL)
	if err == nil {
		t.Error("expected error from cancelled context, got nil")
	}
	if !strings.Contains(err.Error(), "cancel") && !strings.Contains(err.Error(), "context") {
		t.Errorf("expected cancellation error, got: %v", err)
	}
}

func TestLoad_CircuitBreakerOpen(t *testing.T) {
	failCount := int64(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&failCount, 1)
		// 404 is non-retryable, so each Load is exactly one breaker failure
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	sourceLoader := loader.NewHTTPLoader(testConfig())

	// Make multiple requests to trip the circuit breaker
	// Circuit breaker config: MinRequests=10, FailureThreshold=0.7
	for i := 0; i < 15; i++ {
		_, err := sourceLoader.Load(context.Background(), server.URL)
		if err == nil {
			t.Errorf("request %d: expected error, got nil", i)
		}

		if i >= 9 {
			if strings.Contains(err.Error(), "circuit breaker is open") || strings.Contains(err.Error(), "open state") {
				t.Logf("Circuit breaker opened after %d requests (expected)", i+1)
				// Verify no more HTTP requests are made
				previous := atomic.LoadInt64(&failCount)
				_, _ = sourceLoader.Load(context.Background(), server.URL)
				if atomic.LoadInt64(&failCount) > previous {
					t.Error("HTTP request made even though circuit breaker should be open")
				}
				return
			}
		}
	}

	t.Log("Circuit breaker did not open as expected (may need more failures)")
}
