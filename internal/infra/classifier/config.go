package classifier

import "fmt"

// ClassifierConfig is a common interface for classifier backend configuration.
// Both OpenAI and Anthropic implementations should implement this interface
// to ensure consistent validation and configuration behavior.
type ClassifierConfig interface {
	// GetMaxTextChars returns the maximum number of input characters sent to
	// the backend. Longer documents are truncated before classification.
	GetMaxTextChars() int

	// GetLabels returns the label set the backend is asked to choose from.
	GetLabels() []string

	// Validate validates the configuration and returns an error if invalid.
	// This should check all configuration fields for validity.
	Validate() error
}

const (
	// minTextChars is the minimum allowed input truncation limit.
	minTextChars = 500

	// maxTextChars is the maximum allowed input truncation limit.
	maxTextChars = 50000
)

// DefaultLabels is the canonical polarity set used when CLASSIFIER_LABELS
// is not configured. Backends may be configured with emotion categories
// instead (e.g. "joy,anger,sadness,fear").
var DefaultLabels = []string{"positive", "negative", "neutral", "mixed"}

// ValidateMaxTextChars validates that the input truncation limit is within
// the valid range (500-50000). Returns an error with a descriptive message
// if the limit is out of range.
//
// Parameters:
//   - limit: The character limit to validate
//
// Returns:
//   - nil if the limit is valid
//   - error if the limit is outside the valid range
//
// Example:
//
//	err := ValidateMaxTextChars(8000)   // nil (valid)
//	err := ValidateMaxTextChars(100)    // error: "text limit 100 is below minimum 500"
//	err := ValidateMaxTextChars(100000) // error: "text limit 100000 exceeds maximum 50000"
func ValidateMaxTextChars(limit int) error {
	if limit < minTextChars {
		return fmt.Errorf("text limit %d is below minimum %d", limit, minTextChars)
	}
	if limit > maxTextChars {
		return fmt.Errorf("text limit %d exceeds maximum %d", limit, maxTextChars)
	}
	return nil
}

// ValidateLabels validates a classifier label set: at least two distinct,
// non-empty categories, at most ten.
func ValidateLabels(labels []string) error {
	if len(labels) < 2 {
		return fmt.Errorf("label set needs at least 2 categories, got %d", len(labels))
	}
	if len(labels) > 10 {
		return fmt.Errorf("label set allows at most 10 categories, got %d", len(labels))
	}
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("label set contains an empty category")
		}
		if seen[label] {
			return fmt.Errorf("label set contains duplicate category %q", label)
		}
		seen[label] = true
	}
	return nil
}
