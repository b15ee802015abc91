package textproc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedText indicates that a document failed UTF-8 validation and
// cannot be normalized safely.
var ErrMalformedText = errors.New("text is not valid UTF-8")

var (
	// Apostrophes stay so possessives like "whale's" survive as one token.
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}\s'’]`)
	digitPattern = regexp.MustCompile(`\p{Nd}`)
	urlPattern   = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Cleaner applies the substitution rules in a fixed order: URL removal,
// punctuation removal, digit removal, whitespace collapsing, trimming,
// lowercasing. URLs go first because stripping punctuation would split them
// into fragments the URL pattern can no longer match. Cleaning is idempotent:
// running a cleaner over its own output returns the same text.
type Cleaner struct {
	cfg CleanerConfig
}

// NewCleaner creates a Cleaner with the given configuration.
func NewCleaner(cfg CleanerConfig) *Cleaner {
	return &Cleaner{cfg: cfg}
}

// Clean applies the configured substitution rules to one document.
// Returns ErrMalformedText when the input is not valid UTF-8; the caller
// decides whether to skip the document or abort.
func (c *Cleaner) Clean(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrMalformedText
	}

	out := norm.NFC.String(text)

	if c.cfg.RemoveURLs {
		out = urlPattern.ReplaceAllString(out, " ")
	}
	if c.cfg.RemovePunctuation {
		out = punctPattern.ReplaceAllString(out, " ")
	}
	if c.cfg.RemoveDigits {
		out = digitPattern.ReplaceAllString(out, " ")
	}

	out = spacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)

	if c.cfg.Lowercase {
		out = strings.ToLower(out)
	}

	return out, nil
}

// SkippedDocument records a document the batch cleaner excluded, with its
// position in the input slice and the reason.
type SkippedDocument struct {
	Index  int
	Reason string
}

// BatchResult holds the outcome of cleaning a batch of documents.
// Cleaned is index-aligned with the input so document order survives;
// entries for skipped documents are empty strings.
type BatchResult struct {
	Cleaned []string
	Skipped []SkippedDocument
}

// CleanAll cleans a batch of documents with a partial-failure policy:
// a document that fails normalization is recorded in Skipped and excluded,
// and the rest of the batch continues.
func (c *Cleaner) CleanAll(docs []string) BatchResult {
	result := BatchResult{
		Cleaned: make([]string, len(docs)),
	}

	for i, doc := range docs {
		cleaned, err := c.Clean(doc)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedDocument{
				Index:  i,
				Reason: fmt.Sprintf("clean document %d: %v", i, err),
			})
			recordDocumentCleaned("skipped")
			continue
		}
		result.Cleaned[i] = cleaned
		recordDocumentCleaned("ok")
	}

	return result
}
