// Package report turns analysis results into render-ready chart
// specifications. Rendering itself is an external concern: the structs here
// serialize to JSON and carry everything a plotting frontend needs, with all
// layout decisions (top-N cuts, label placement, scale weights) already made.
package report

import (
	"math"

	"textmill/internal/analysis/dispersion"
	"textmill/internal/analysis/freq"
)

// Chart kind identifiers carried in every spec.
const (
	KindBar       = "bar"
	KindScatter   = "scatter"
	KindXRay      = "xray"
	KindWordCloud = "wordcloud"
)

// Config bounds chart sizes and label layout. Pass one explicitly per call;
// the package holds no state.
type Config struct {
	MaxBars        int     // bar chart cap
	MaxCloudItems  int     // word cloud cap
	LabelRuneWidth float64 // estimated label width per rune, in plot fraction
	LabelHeight    float64 // estimated label height, in plot fraction
}

// DefaultConfig returns layout bounds that fit a typical 800x600 render.
func DefaultConfig() Config {
	return Config{
		MaxBars:        20,
		MaxCloudItems:  100,
		LabelRuneWidth: 0.012,
		LabelHeight:    0.035,
	}
}

// Bar is one bar of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Rel   float64 `json:"rel"` // per 100 tokens
}

// BarChart is a render-ready bar chart of the most frequent tokens.
type BarChart struct {
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// BuildBar lays out a bar chart from frequency entries, keeping their order
// and cutting at the configured maximum.
func BuildBar(title string, entries []freq.Entry, cfg Config) BarChart {
	max := cfg.MaxBars
	if max <= 0 {
		max = DefaultConfig().MaxBars
	}
	if max > len(entries) {
		max = len(entries)
	}

	chart := BarChart{
		Kind:   KindBar,
		Title:  title,
		XLabel: "token",
		YLabel: "count",
		Bars:   make([]Bar, max),
	}
	for i := 0; i < max; i++ {
		chart.Bars[i] = Bar{
			Label: entries[i].Token,
			Count: entries[i].Count,
			Rel:   entries[i].Rel,
		}
	}
	return chart
}

// CloudItem is one word of a word cloud. Scale is in (0,1]: the square root
// of the count relative to the largest count, so font sizes do not explode
// on Zipf-distributed input.
type CloudItem struct {
	Text  string  `json:"text"`
	Count int     `json:"count"`
	Scale float64 `json:"scale"`
}

// WordCloudChart is a render-ready word cloud.
type WordCloudChart struct {
	Kind  string      `json:"kind"`
	Title string      `json:"title"`
	Items []CloudItem `json:"items"`
}

// BuildWordCloud lays out a word cloud from frequency entries, which must
// already be sorted by rank (the first entry anchors the scale).
func BuildWordCloud(title string, entries []freq.Entry, cfg Config) WordCloudChart {
	max := cfg.MaxCloudItems
	if max <= 0 {
		max = DefaultConfig().MaxCloudItems
	}
	if max > len(entries) {
		max = len(entries)
	}

	chart := WordCloudChart{
		Kind:  KindWordCloud,
		Title: title,
		Items: make([]CloudItem, max),
	}
	if max == 0 {
		return chart
	}

	top := float64(entries[0].Count)
	for i := 0; i < max; i++ {
		scale := 0.0
		if top > 0 {
			scale = math.Sqrt(float64(entries[i].Count) / top)
		}
		chart.Items[i] = CloudItem{
			Text:  entries[i].Token,
			Count: entries[i].Count,
			Scale: scale,
		}
	}
	return chart
}

// XRayRow is one token's occurrence ticks across the corpus.
type XRayRow struct {
	Token string    `json:"token"`
	Ticks []float64 `json:"ticks"` // normalized [0,1) corpus offsets
}

// XRayChart is a render-ready dispersion plot: one row per token, vertical
// ticks at each occurrence, chapter boundaries marked for context.
type XRayChart struct {
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Total      int       `json:"total"`      // corpus token count
	Boundaries []float64 `json:"boundaries"` // normalized chapter starts
	Rows       []XRayRow `json:"rows"`
}

// BuildXRay lays out a dispersion profile as an x-ray chart.
func BuildXRay(title string, profile dispersion.Profile) XRayChart {
	chart := XRayChart{
		Kind:       KindXRay,
		Title:      title,
		Total:      profile.Total,
		Boundaries: make([]float64, len(profile.Boundaries)),
		Rows:       make([]XRayRow, len(profile.Series)),
	}

	for i, b := range profile.Boundaries {
		if profile.Total > 0 {
			chart.Boundaries[i] = float64(b) / float64(profile.Total)
		}
	}
	for i, series := range profile.Series {
		ticks := make([]float64, len(series.Offsets))
		copy(ticks, series.Offsets)
		chart.Rows[i] = XRayRow{Token: series.Token, Ticks: ticks}
	}
	return chart
}
