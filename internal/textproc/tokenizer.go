package textproc

import (
	"regexp"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// tokenPattern is the word boundary rule: runs of letters where internal
// apostrophes (ASCII and typographic) do not break the word, so "whale's"
// is one token. Leading and trailing apostrophes are never part of a token.
var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Tokenizer splits cleaned text into word tokens in document order and
// applies the configured filters. A Tokenizer is safe for concurrent use.
type Tokenizer struct {
	cfg  TokenizerConfig
	stop map[string]struct{}
}

// NewTokenizer creates a Tokenizer with the given configuration.
func NewTokenizer(cfg TokenizerConfig) *Tokenizer {
	if cfg.StemLanguage == "" {
		cfg.StemLanguage = "english"
	}

	var stop map[string]struct{}
	if len(cfg.StopWords) > 0 {
		stop = make(map[string]struct{}, len(cfg.StopWords))
		for _, w := range cfg.StopWords {
			stop[w] = struct{}{}
		}
	}

	return &Tokenizer{cfg: cfg, stop: stop}
}

// Tokenize extracts word tokens from text, preserving their order of
// appearance. Stop words and short tokens are dropped when configured;
// stemming replaces each surviving token with its Snowball stem.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(text, -1)
	if raw == nil {
		return []string{}
	}

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if t.cfg.MinTokenLength > 0 && utf8.RuneCountInString(tok) < t.cfg.MinTokenLength {
			continue
		}
		if t.stop != nil {
			if _, drop := t.stop[tok]; drop {
				continue
			}
		}
		if t.cfg.Stem {
			if stemmed, err := snowball.Stem(tok, t.cfg.StemLanguage, true); err == nil {
				tok = stemmed
			}
			// Stemming errors keep the original token so counts stay complete.
		}
		tokens = append(tokens, tok)
	}

	recordTokensProduced(len(tokens))
	return tokens
}

// TokenizeAll tokenizes a batch of documents, preserving document order.
// The total token count across the result equals the token count of the
// concatenated input.
func (t *Tokenizer) TokenizeAll(docs []string) [][]string {
	out := make([][]string, len(docs))
	for i, doc := range docs {
		out[i] = t.Tokenize(doc)
	}
	return out
}
