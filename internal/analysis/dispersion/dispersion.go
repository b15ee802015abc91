// Package dispersion locates token occurrences across a corpus for
// positional ("x-ray") analysis. Positions are token offsets, not byte
// offsets, counted over the corpus token stream in document order.
package dispersion

// Series holds every occurrence of one token across the corpus.
type Series struct {
	Token     string    `json:"token"`
	Positions []int     `json:"positions"` // global token offsets, ascending
	Offsets   []float64 `json:"offsets"`   // positions normalized to [0,1)
}

// Profile is the dispersion view of a corpus for a set of target tokens.
// Boundaries mark where each document starts in the global token stream, so
// chapter edges can be drawn on an x-ray plot.
type Profile struct {
	Total      int      `json:"total"`      // corpus token count
	Boundaries []int    `json:"boundaries"` // global offset of each document's first token
	Series     []Series `json:"series"`     // one per target, in target order
}

// Build computes the dispersion profile of targets over pre-partitioned
// documents. Document order is preserved; a target that never occurs still
// yields a Series with empty Positions so its x-ray row renders. Matching is
// exact: callers normalize targets through the same cleaner and tokenizer
// that produced docs.
func Build(docs [][]string, targets []string) Profile {
	profile := Profile{
		Boundaries: make([]int, len(docs)),
		Series:     make([]Series, len(targets)),
	}

	offset := 0
	for i, doc := range docs {
		profile.Boundaries[i] = offset
		offset += len(doc)
	}
	profile.Total = offset

	index := make(map[string][]int, len(targets))
	for _, target := range targets {
		if _, dup := index[target]; !dup {
			index[target] = []int{}
		}
	}

	pos := 0
	for _, doc := range docs {
		for _, tok := range doc {
			if positions, wanted := index[tok]; wanted {
				index[tok] = append(positions, pos)
			}
			pos++
		}
	}

	for i, target := range targets {
		positions := index[target]
		series := Series{
			Token:     target,
			Positions: positions,
			Offsets:   make([]float64, len(positions)),
		}
		for j, p := range positions {
			series.Offsets[j] = float64(p) / float64(profile.Total)
		}
		profile.Series[i] = series
	}

	return profile
}

// Positions returns the token offsets at which target occurs in a single
// document. Exact matching, document order.
func Positions(tokens []string, target string) []int {
	positions := []int{}
	for i, tok := range tokens {
		if tok == target {
			positions = append(positions, i)
		}
	}
	return positions
}
