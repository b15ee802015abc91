// Package freq builds token frequency tables over tokenized documents.
// Tables are explicit map-based structures with a first-occurrence index,
// so top-N queries are deterministic and dense matrix views need no
// sparse-matrix library.
package freq

import (
	"errors"
	"sort"
)

// ErrEmptyDocument indicates a relative frequency was requested for a
// document with zero tokens, where the value is undefined.
var ErrEmptyDocument = errors.New("document has no tokens")

// Entry is one row of a frequency query result.
type Entry struct {
	Token string  `json:"token"`
	Count int     `json:"count"`
	Rel   float64 `json:"rel"` // occurrences per 100 tokens; 0 when the scope is empty
}

// Table maps tokens to occurrence counts for one scope (a document or a
// whole corpus). Counts are never negative; looking up a token that was
// never added returns zero.
type Table struct {
	counts    map[string]int
	firstSeen map[string]int // token -> order of first insertion
	total     int
}

// NewTable returns an empty frequency table.
func NewTable() *Table {
	return &Table{
		counts:    make(map[string]int),
		firstSeen: make(map[string]int),
	}
}

// Build tabulates a token sequence into a fresh table.
func Build(tokens []string) *Table {
	t := NewTable()
	t.AddAll(tokens)
	return t
}

// Add records one occurrence of token.
func (t *Table) Add(token string) {
	if _, seen := t.counts[token]; !seen {
		t.firstSeen[token] = len(t.firstSeen)
	}
	t.counts[token]++
	t.total++
}

// AddAll records every token in order.
func (t *Table) AddAll(tokens []string) {
	for _, tok := range tokens {
		t.Add(tok)
	}
}

// Count returns the occurrence count for token. Unknown tokens count zero;
// a missing key is never an error.
func (t *Table) Count(token string) int {
	return t.counts[token]
}

// Total returns the number of tokens added, counting duplicates.
func (t *Table) Total() int {
	return t.total
}

// Len returns the vocabulary size (distinct tokens).
func (t *Table) Len() int {
	return len(t.counts)
}

// Relative returns the relative frequency of token per 100 tokens.
// Returns ErrEmptyDocument when the table holds no tokens, rather than
// silently dividing by zero.
func (t *Table) Relative(token string) (float64, error) {
	if t.total == 0 {
		return 0, ErrEmptyDocument
	}
	return float64(t.counts[token]) / float64(t.total) * 100, nil
}

// TopN returns the n most frequent entries, sorted by descending count with
// ties broken by first occurrence. The ordering is stable across runs on
// identical input. n <= 0 or n beyond the vocabulary returns all entries.
func (t *Table) TopN(n int) []Entry {
	entries := t.Entries()
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Entries returns every entry sorted by the top-N rule: descending count,
// ties by first occurrence.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for tok, count := range t.counts {
		e := Entry{Token: tok, Count: count}
		if t.total > 0 {
			e.Rel = float64(count) / float64(t.total) * 100
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return t.firstSeen[entries[i].Token] < t.firstSeen[entries[j].Token]
	})

	return entries
}

// FirstSeen returns the insertion rank of token and whether it is present.
// Rank 0 is the first distinct token ever added.
func (t *Table) FirstSeen(token string) (int, bool) {
	rank, ok := t.firstSeen[token]
	return rank, ok
}
