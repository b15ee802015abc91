// Package textproc provides the text cleaning and tokenization stages of the
// analysis pipeline. Both stages are configured through explicit config
// structs passed to their constructors; there is no package-level state.
package textproc

// CleanerConfig controls which substitution rules the cleaner applies.
// The zero value disables everything; use DefaultCleanerConfig for the
// standard pipeline.
type CleanerConfig struct {
	RemovePunctuation bool // strip punctuation, keeping apostrophes inside words
	RemoveDigits      bool // strip decimal digits
	RemoveURLs        bool // strip http/https/www tokens
	Lowercase         bool // case-fold after the substitution rules
}

// DefaultCleanerConfig returns the standard cleaning pipeline: punctuation,
// digit and URL removal followed by lowercasing. Whitespace collapsing and
// trimming always run regardless of configuration.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		RemovePunctuation: true,
		RemoveDigits:      true,
		RemoveURLs:        true,
		Lowercase:         true,
	}
}

// TokenizerConfig controls token filtering applied after boundary splitting.
// The boundary rule itself (letters with internal apostrophes) is fixed.
type TokenizerConfig struct {
	StopWords      []string // tokens dropped after splitting; empty keeps everything
	MinTokenLength int      // tokens shorter than this (in runes) are dropped; 0 keeps everything
	Stem           bool     // reduce tokens to their Snowball stem
	StemLanguage   string   // Snowball language name, defaults to "english"
}

// DefaultTokenizerConfig returns a tokenizer configuration with no filtering:
// every token produced by the boundary rule is kept as-is.
func DefaultTokenizerConfig() TokenizerConfig {
	return TokenizerConfig{
		StemLanguage: "english",
	}
}
