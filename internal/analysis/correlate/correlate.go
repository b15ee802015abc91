// Package correlate computes Pearson correlations between token usage
// series, typically per-chapter relative frequencies. Undefined observations
// (empty chapters) are excluded pairwise rather than treated as zero.
package correlate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"textmill/internal/analysis/freq"
)

// Sentinel errors for correlation input problems.
var (
	// ErrLengthMismatch indicates the two series have different lengths
	ErrLengthMismatch = errors.New("series lengths differ")

	// ErrTooFewPoints indicates fewer than two paired observations survive
	// after undefined entries were excluded
	ErrTooFewPoints = errors.New("need at least two paired observations")

	// ErrNoVariance indicates one of the series is constant, so the
	// correlation coefficient is undefined
	ErrNoVariance = errors.New("series has no variance")
)

// Result is the correlation between two tokens' usage series.
type Result struct {
	X       string  `json:"x"`
	Y       string  `json:"y"`
	R       float64 `json:"r"`
	N       int     `json:"n"`       // paired observations used
	Defined bool    `json:"defined"` // false when R could not be computed
}

// Pearson returns the Pearson correlation coefficient of two equal-length
// series. Returns ErrNoVariance when either series is constant rather than
// propagating a silent NaN.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) < 2 {
		return 0, ErrTooFewPoints
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, ErrNoVariance
	}
	return r, nil
}

// AlignPairs extracts the observations defined in both series, preserving
// order. Entries undefined on either side are dropped pairwise.
func AlignPairs(x, y []freq.RelFreq) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, ErrLengthMismatch
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if !x[i].Defined || !y[i].Defined {
			continue
		}
		xs = append(xs, x[i].Value)
		ys = append(ys, y[i].Value)
	}
	return xs, ys, nil
}

// Tokens correlates two tokens' per-document relative frequencies over a
// matrix. Empty documents are excluded pairwise.
func Tokens(m *freq.Matrix, x, y string) (Result, error) {
	xs, ys, err := AlignPairs(m.RelativeSeries(x), m.RelativeSeries(y))
	if err != nil {
		return Result{X: x, Y: y}, err
	}

	r, err := Pearson(xs, ys)
	if err != nil {
		return Result{X: x, Y: y, N: len(xs)}, err
	}
	return Result{X: x, Y: y, R: r, N: len(xs), Defined: true}, nil
}

// Grid computes the pairwise correlation grid for a token set over a matrix.
// Cells that cannot be computed (constant or too-short series) come back
// with Defined false; the rest of the grid still fills in.
func Grid(m *freq.Matrix, tokens []string) [][]Result {
	grid := make([][]Result, len(tokens))
	for i := range tokens {
		grid[i] = make([]Result, len(tokens))
		for j := range tokens {
			if j < i {
				// Mirror the lower triangle; correlation is symmetric.
				mirrored := grid[j][i]
				grid[i][j] = Result{X: tokens[i], Y: tokens[j], R: mirrored.R, N: mirrored.N, Defined: mirrored.Defined}
				continue
			}
			if i == j {
				n := definedCount(m.RelativeSeries(tokens[i]))
				grid[i][j] = Result{X: tokens[i], Y: tokens[j], R: 1, N: n, Defined: n > 0}
				continue
			}
			result, err := Tokens(m, tokens[i], tokens[j])
			if err != nil {
				result.Defined = false
			}
			grid[i][j] = result
		}
	}
	return grid
}

func definedCount(series []freq.RelFreq) int {
	n := 0
	for _, v := range series {
		if v.Defined {
			n++
		}
	}
	return n
}
