package freq

import "sort"

// RelFreq is one relative frequency observation. Defined is false for
// zero-token documents, where count/total has no value; callers must check
// it instead of reading Value.
type RelFreq struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Matrix aligns per-document frequency tables into a dense view: rows are
// documents in corpus order, columns are the union of all tokens in
// first-occurrence order. Cells for tokens a document never uses are zero,
// never a missing-value marker.
type Matrix struct {
	vocab  []string
	index  map[string]int
	rows   [][]int
	totals []int
}

// NewMatrix returns an empty matrix. Documents are appended with AddDocument
// in corpus order.
func NewMatrix() *Matrix {
	return &Matrix{index: make(map[string]int)}
}

// BuildMatrix tabulates pre-partitioned documents into a matrix, preserving
// document order.
func BuildMatrix(docs [][]string) *Matrix {
	m := NewMatrix()
	for _, tokens := range docs {
		m.AddDocument(tokens)
	}
	return m
}

// AddDocument appends one document's tokens as a new row and returns its row
// index. New tokens extend every row's column space; existing rows read as
// zero in the new columns.
func (m *Matrix) AddDocument(tokens []string) int {
	row := make([]int, len(m.vocab))
	for _, tok := range tokens {
		col, ok := m.index[tok]
		if !ok {
			col = len(m.vocab)
			m.index[tok] = col
			m.vocab = append(m.vocab, tok)
			row = append(row, 0)
		}
		row[col]++
	}
	m.rows = append(m.rows, row)
	m.totals = append(m.totals, len(tokens))
	return len(m.rows) - 1
}

// Documents returns the number of rows.
func (m *Matrix) Documents() int {
	return len(m.rows)
}

// Vocabulary returns the column tokens in first-occurrence order.
func (m *Matrix) Vocabulary() []string {
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}

// Column returns the column index for token and whether the token exists.
func (m *Matrix) Column(token string) (int, bool) {
	col, ok := m.index[token]
	return col, ok
}

// Count returns the count of token in document doc. Unknown tokens and
// out-of-range rows count zero.
func (m *Matrix) Count(doc int, token string) int {
	if doc < 0 || doc >= len(m.rows) {
		return 0
	}
	col, ok := m.index[token]
	if !ok || col >= len(m.rows[doc]) {
		return 0
	}
	return m.rows[doc][col]
}

// Row returns a dense copy of document doc's counts, one cell per vocabulary
// token. Cells beyond the row's recorded length are zero.
func (m *Matrix) Row(doc int) []int {
	out := make([]int, len(m.vocab))
	if doc < 0 || doc >= len(m.rows) {
		return out
	}
	copy(out, m.rows[doc])
	return out
}

// DocumentTotal returns the token count of document doc.
func (m *Matrix) DocumentTotal(doc int) int {
	if doc < 0 || doc >= len(m.totals) {
		return 0
	}
	return m.totals[doc]
}

// Total returns the token count across all documents.
func (m *Matrix) Total() int {
	sum := 0
	for _, t := range m.totals {
		sum += t
	}
	return sum
}

// RelativeRow returns document doc's relative frequencies per 100 tokens,
// one cell per vocabulary token. Returns ErrEmptyDocument for a zero-token
// document instead of dividing by zero.
func (m *Matrix) RelativeRow(doc int) ([]float64, error) {
	if doc < 0 || doc >= len(m.rows) {
		return nil, ErrEmptyDocument
	}
	total := m.totals[doc]
	if total == 0 {
		return nil, ErrEmptyDocument
	}

	out := make([]float64, len(m.vocab))
	for col := range m.rows[doc] {
		out[col] = float64(m.rows[doc][col]) / float64(total) * 100
	}
	return out, nil
}

// Relative returns the relative frequency of token in document doc per 100
// tokens. Returns ErrEmptyDocument for a zero-token document.
func (m *Matrix) Relative(doc int, token string) (float64, error) {
	if doc < 0 || doc >= len(m.rows) || m.totals[doc] == 0 {
		return 0, ErrEmptyDocument
	}
	return float64(m.Count(doc, token)) / float64(m.totals[doc]) * 100, nil
}

// RelativeSeries returns token's relative frequency in every document, in
// corpus order. Zero-token documents appear as undefined entries so callers
// can tell "token absent" from "no tokens at all".
func (m *Matrix) RelativeSeries(token string) []RelFreq {
	series := make([]RelFreq, len(m.rows))
	for doc := range m.rows {
		if m.totals[doc] == 0 {
			continue // stays {0, false}
		}
		series[doc] = RelFreq{
			Value:   float64(m.Count(doc, token)) / float64(m.totals[doc]) * 100,
			Defined: true,
		}
	}
	return series
}

// CorpusTable aggregates all rows into a single corpus-wide table with the
// matrix's first-occurrence order preserved for tie-breaking.
func (m *Matrix) CorpusTable() *Table {
	t := NewTable()
	for col, tok := range m.vocab {
		t.firstSeen[tok] = col
		count := 0
		for _, row := range m.rows {
			if col < len(row) {
				count += row[col]
			}
		}
		if count > 0 {
			t.counts[tok] = count
			t.total += count
		}
	}
	return t
}

// TopN returns the corpus-wide top entries across all documents, sorted by
// descending count with ties broken by first occurrence in the corpus.
func (m *Matrix) TopN(n int) []Entry {
	entries := make([]Entry, 0, len(m.vocab))
	total := m.Total()
	for col, tok := range m.vocab {
		count := 0
		for _, row := range m.rows {
			if col < len(row) {
				count += row[col]
			}
		}
		e := Entry{Token: tok, Count: count}
		if total > 0 {
			e.Rel = float64(count) / float64(total) * 100
		}
		entries = append(entries, e)
	}

	// vocab order is first-occurrence order, so a stable sort on count alone
	// preserves the tie-break rule.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
