package ingest

import (
	"context"
	"errors"
)

// SourceLoader is an interface for loading raw corpus text from URLs or
// local paths. Implementations fetch the bytes and return them as a UTF-8
// string; splitting into documents is the scraper's job, not the loader's.
//
// Example usage:
//
//	loader := NewHTTPLoader(config)
//	raw, err := loader.Load(ctx, "https://www.gutenberg.org/files/2701/2701-0.txt")
//	if err != nil {
//	    // Handle error; the corpus ingest is aborted
//	}
//
// Security considerations:
//   - Implementations MUST prevent Server-Side Request Forgery (SSRF) attacks
//   - Implementations MUST enforce size limits to prevent memory exhaustion
//   - Implementations MUST enforce timeouts to prevent resource starvation
//   - Implementations MUST validate redirect targets
type SourceLoader interface {
	// Load fetches the raw text of the given source.
	//
	// The implementation should:
	// 1. Validate the URL for security (prevent SSRF)
	// 2. Serve repeat loads from a TTL cache where possible
	// 3. Fetch the bytes via HTTPS or read them from the local filesystem
	// 4. Return the raw text unmodified
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - source: Remote URL (http/https), file:// URL, or plain local path
	//
	// Returns:
	//   - string: Raw source text
	//   - error: Error if loading fails
	//
	// Errors:
	//   - ErrInvalidURL: URL format is invalid or uses unsupported scheme
	//   - ErrPrivateIP: URL resolves to a private IP address (SSRF prevention)
	//   - ErrTooManyRedirects: Redirect chain exceeds configured maximum
	//   - ErrBodyTooLarge: Response or file exceeds size limit
	//   - ErrTimeout: Request timed out
	//   - gobreaker.ErrOpenState: Circuit breaker is open (too many failures)
	Load(ctx context.Context, source string) (string, error)
}

// Sentinel errors for source loading operations.
// These errors allow callers to distinguish between different failure modes.
var (
	// ErrInvalidURL indicates the source format is invalid or uses an
	// unsupported scheme. Supported: http://, https://, file://, plain paths.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	// This error prevents Server-Side Request Forgery (SSRF) attacks.
	//
	// Blocked IP ranges:
	//   - 127.0.0.0/8 (loopback)
	//   - 10.0.0.0/8 (private)
	//   - 172.16.0.0/12 (private)
	//   - 192.168.0.0/16 (private)
	//   - 169.254.0.0/16 (link-local)
	//   - ::1 (IPv6 loopback)
	//   - fc00::/7 (IPv6 private)
	//   - fe80::/10 (IPv6 link-local)
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the
	// configured maximum. This prevents infinite redirect loops.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body or local file exceeded the
	// size limit. This prevents memory exhaustion from oversized sources.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")
)
