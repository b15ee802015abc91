package loader

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// SourceLoadConfig holds the configuration for raw source loading operations.
// This configuration controls security, performance, and caching behavior of
// corpus ingestion.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized sources
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Prevents resource starvation from slow servers
//
// Performance settings:
//   - RateLimit/RateBurst: Outbound request budget shared across loads
//   - CacheTTL: Avoids refetching sources that were loaded recently
type SourceLoadConfig struct {
	// CacheTTL is how long a loaded source stays in the in-memory cache.
	// Repeat loads within the TTL skip the network entirely; public-domain
	// books rarely change, so a generous TTL is safe.
	// Set to 0 to disable caching.
	// Default: 15m
	CacheTTL time.Duration

	// Timeout is the maximum duration for a single HTTP request.
	// This prevents resource starvation from slow or unresponsive servers.
	// Default: 30s
	Timeout time.Duration

	// RateLimit is the sustained outbound request rate in requests/second.
	// Loads above the budget wait rather than fail.
	// Default: 2
	RateLimit float64

	// RateBurst is the token-bucket burst size for outbound requests.
	// Default: 4
	RateBurst int

	// MaxBodySize is the maximum source size in bytes, enforced while
	// reading the response (not from the Content-Length header) and when
	// reading local files. Default: 20971520 (20MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated for security (SSRF check).
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether to block access to private IP addresses.
	// When true, URLs resolving to private/loopback/link-local IPs are rejected.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// AllowLocalFiles controls whether file:// URLs and plain paths may be
	// loaded. Useful for local corpora in development and the CLI tools;
	// typically false for the public API server.
	// Default: true
	AllowLocalFiles bool
}

// DefaultConfig returns the default configuration for source loading.
// These defaults are optimized for:
//   - Security: SSRF prevention enabled, size/redirect limits enforced
//   - Politeness: 2 req/s outbound budget against public mirrors
//   - Efficiency: 15 minute download cache
//
// Returns:
//   - SourceLoadConfig with production-ready default values
//
// Example:
//
//	config := DefaultConfig()
//	config.CacheTTL = time.Hour // Customize as needed
//	loader := NewHTTPLoader(config)
func DefaultConfig() SourceLoadConfig {
	return SourceLoadConfig{
		CacheTTL:        15 * time.Minute,
		Timeout:         30 * time.Second,
		RateLimit:       2,
		RateBurst:       4,
		MaxBodySize:     20 * 1024 * 1024, // 20MB
		MaxRedirects:    5,
		DenyPrivateIPs:  true,
		AllowLocalFiles: true,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - CacheTTL: >= 0 (0 disables caching)
//   - Timeout: > 0 (must have timeout)
//   - RateLimit: > 0, RateBurst: >= 1
//   - MaxBodySize: 1KB-100MB (prevent memory issues)
//   - MaxRedirects: 0-10 (reasonable redirect limit)
//
// Returns:
//   - error: nil if configuration is valid, descriptive error otherwise
func (c *SourceLoadConfig) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative, got %v", c.CacheTTL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}

	if c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1, got %d", c.RateBurst)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set, the default value is used. Invalid values are
// errors. After loading, the configuration is validated.
//
// Environment variables:
//   - SOURCE_LOAD_CACHE_TTL: duration string, e.g., "15m" (default: 15m)
//   - SOURCE_LOAD_TIMEOUT: duration string, e.g., "30s" (default: 30s)
//   - SOURCE_LOAD_RATE_LIMIT: float requests/second (default: 2)
//   - SOURCE_LOAD_RATE_BURST: integer (default: 4)
//   - SOURCE_LOAD_MAX_BODY_SIZE: integer in bytes (default: 20971520)
//   - SOURCE_LOAD_MAX_REDIRECTS: integer (default: 5)
//   - SOURCE_LOAD_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - SOURCE_LOAD_ALLOW_LOCAL_FILES: "true" or "false" (default: true)
//
// Returns:
//   - SourceLoadConfig: Loaded configuration
//   - error: Validation error if configuration is invalid
func LoadConfigFromEnv() (SourceLoadConfig, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Load SOURCE_LOAD_CACHE_TTL
	if val := os.Getenv("SOURCE_LOAD_CACHE_TTL"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			cfg.CacheTTL = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_CACHE_TTL: %v (expected format: '15m', '1h')", err)
		}
	}

	// Load SOURCE_LOAD_TIMEOUT
	if val := os.Getenv("SOURCE_LOAD_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			cfg.Timeout = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
	}

	// Load SOURCE_LOAD_RATE_LIMIT
	if val := os.Getenv("SOURCE_LOAD_RATE_LIMIT"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RateLimit = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_RATE_LIMIT: %v", err)
		}
	}

	// Load SOURCE_LOAD_RATE_BURST
	if val := os.Getenv("SOURCE_LOAD_RATE_BURST"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.RateBurst = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_RATE_BURST: %v", err)
		}
	}

	// Load SOURCE_LOAD_MAX_BODY_SIZE
	if val := os.Getenv("SOURCE_LOAD_MAX_BODY_SIZE"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.MaxBodySize = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_MAX_BODY_SIZE: %v", err)
		}
	}

	// Load SOURCE_LOAD_MAX_REDIRECTS
	if val := os.Getenv("SOURCE_LOAD_MAX_REDIRECTS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.MaxRedirects = parsed
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_LOAD_MAX_REDIRECTS: %v", err)
		}
	}

	// Load SOURCE_LOAD_DENY_PRIVATE_IPS
	if val := os.Getenv("SOURCE_LOAD_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	// Load SOURCE_LOAD_ALLOW_LOCAL_FILES
	if val := os.Getenv("SOURCE_LOAD_ALLOW_LOCAL_FILES"); val != "" {
		cfg.AllowLocalFiles = val == "true"
	}

	// Validate the loaded configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
