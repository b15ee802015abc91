package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization for optimal performance (<1μs per operation).
var pathPatterns = []*PathPattern{
	// Corpus routes with IDs
	{Pattern: regexp.MustCompile(`^/corpora/\d+$`), Template: "/corpora/:id"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/documents$`), Template: "/corpora/:id/documents"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/ingest$`), Template: "/corpora/:id/ingest"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/frequency$`), Template: "/corpora/:id/frequency"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/matrix$`), Template: "/corpora/:id/matrix"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/relative$`), Template: "/corpora/:id/relative"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/dispersion$`), Template: "/corpora/:id/dispersion"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/correlation$`), Template: "/corpora/:id/correlation"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/topics$`), Template: "/corpora/:id/topics"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/entities$`), Template: "/corpora/:id/entities"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/labels$`), Template: "/corpora/:id/labels"},
	{Pattern: regexp.MustCompile(`^/corpora/\d+/report/[a-z]+$`), Template: "/corpora/:id/report/:kind"},

	// Document routes with IDs
	{Pattern: regexp.MustCompile(`^/documents/\d+$`), Template: "/documents/:id"},
	{Pattern: regexp.MustCompile(`^/documents/\d+/labels$`), Template: "/documents/:id/labels"},
	{Pattern: regexp.MustCompile(`^/documents/\d+/similar$`), Template: "/documents/:id/similar"},
	{Pattern: regexp.MustCompile(`^/documents/\d+/validity$`), Template: "/documents/:id/validity"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /corpora/123) to template format (e.g., /corpora/:id).
// Static paths and search endpoints remain unchanged.
//
// Performance: <1μs per operation (pre-compiled regex patterns)
//
// Examples:
//
//	NormalizePath("/corpora/123")          // "/corpora/:id"
//	NormalizePath("/corpora/456")          // "/corpora/:id"
//	NormalizePath("/documents/789")           // "/documents/:id"
//	NormalizePath("/corpora/search")       // "/corpora/search" (unchanged)
//	NormalizePath("/documents/search")        // "/documents/search" (unchanged)
//	NormalizePath("/health")                // "/health" (unchanged)
//	NormalizePath("/metrics")               // "/metrics" (unchanged)
//	NormalizePath("/auth/token")            // "/auth/token" (unchanged)
//	NormalizePath("/unknown/path/123")      // "/unknown/path/123" (no match, return original)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/corpora/123?page=1")   // "/corpora/:id"
//	NormalizePath("/corpora/123/")         // "/corpora/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	// Try to match against known patterns
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path
	// This is safe - static paths like /health, /metrics, /auth/token
	// and search endpoints like /corpora/search will pass through unchanged
	return path
}

// GetExpectedCardinality returns the expected number of unique path labels
// after normalization. This is useful for capacity planning and monitoring.
//
// Expected cardinality calculation:
//   - Static endpoints: ~8-10 (health, metrics, auth, etc.)
//   - Template endpoints: ~10-15 (corpora/:id, documents/:id, etc.)
//   - Search endpoints: ~4-6 (corpora/search, documents/search, etc.)
//   - Total: ~20-30 unique path labels
func GetExpectedCardinality() int {
	// Count template patterns
	templateCount := len(pathPatterns)

	// Estimate static endpoints
	staticCount := 10 // /health, /metrics, /auth/token, etc.

	// Total expected cardinality
	return templateCount + staticCount
}
