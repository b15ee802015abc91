package report

import (
	"math"
	"sort"
	"unicode/utf8"
)

// LabeledPoint is a scatter input: a data point with its text label.
type LabeledPoint struct {
	Label string
	X     float64
	Y     float64
}

// ScatterPoint is a laid-out scatter point. X and Y are normalized plot
// coordinates in [0,1]; LabelX and LabelY anchor the label after collision
// resolution. Crowded plots may push anchors below the unit box, which
// renderers handle by extending the canvas.
type ScatterPoint struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
}

// ScatterChart is a render-ready scatter plot with non-overlapping labels.
type ScatterChart struct {
	Kind   string         `json:"kind"`
	Title  string         `json:"title"`
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	XMin   float64        `json:"x_min"`
	XMax   float64        `json:"x_max"`
	YMin   float64        `json:"y_min"`
	YMax   float64        `json:"y_max"`
	Points []ScatterPoint `json:"points"`
}

// BuildScatter lays out a scatter plot. Point coordinates are normalized to
// the unit square and labels are displaced until no two overlap. The
// displacement is deterministic: the same input always yields the same
// layout.
func BuildScatter(title, xLabel, yLabel string, points []LabeledPoint, cfg Config) ScatterChart {
	if cfg.LabelRuneWidth <= 0 {
		cfg.LabelRuneWidth = DefaultConfig().LabelRuneWidth
	}
	if cfg.LabelHeight <= 0 {
		cfg.LabelHeight = DefaultConfig().LabelHeight
	}

	chart := ScatterChart{
		Kind:   KindScatter,
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]ScatterPoint, len(points)),
	}
	if len(points) == 0 {
		return chart
	}

	chart.XMin, chart.XMax = dataRange(points, func(p LabeledPoint) float64 { return p.X })
	chart.YMin, chart.YMax = dataRange(points, func(p LabeledPoint) float64 { return p.Y })

	for i, p := range points {
		x := normalize(p.X, chart.XMin, chart.XMax)
		y := normalize(p.Y, chart.YMin, chart.YMax)
		chart.Points[i] = ScatterPoint{
			Label:  p.Label,
			X:      x,
			Y:      y,
			LabelX: x,
			// Anchor just above the marker so the point stays visible.
			LabelY: y + cfg.LabelHeight*0.8,
		}
	}

	repelLabels(chart.Points, cfg)
	return chart
}

// labelBox is the estimated bounding box of a label, centered on its anchor.
type labelBox struct {
	left, right float64
	top, bottom float64
}

func boxFor(p ScatterPoint, cfg Config) labelBox {
	w := float64(utf8.RuneCountInString(p.Label)) * cfg.LabelRuneWidth
	if w < cfg.LabelRuneWidth {
		w = cfg.LabelRuneWidth
	}
	h := cfg.LabelHeight
	return labelBox{
		left:   p.LabelX - w/2,
		right:  p.LabelX + w/2,
		top:    p.LabelY + h/2,
		bottom: p.LabelY - h/2,
	}
}

func (b labelBox) overlaps(o labelBox) bool {
	return b.left < o.right && o.left < b.right && b.bottom < o.top && o.bottom < b.top
}

// repelLabels resolves label collisions with a single greedy sweep. Labels
// are visited top to bottom; each one overlapping an already placed label is
// pushed straight down below it. A label only ever moves down, so each placed
// box can block it at most once, the loop terminates, and the result has no
// overlapping pair.
func repelLabels(points []ScatterPoint, cfg Config) {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := points[order[a]], points[order[b]]
		if pa.LabelY != pb.LabelY {
			return pa.LabelY > pb.LabelY
		}
		if pa.LabelX != pb.LabelX {
			return pa.LabelX < pb.LabelX
		}
		return pa.Label < pb.Label
	})

	const gap = 0.004
	placed := make([]int, 0, len(points))
	for _, idx := range order {
		for {
			moved := false
			box := boxFor(points[idx], cfg)
			for _, pi := range placed {
				other := boxFor(points[pi], cfg)
				if box.overlaps(other) {
					drop := box.top - other.bottom + gap
					points[idx].LabelY -= drop
					moved = true
					break
				}
			}
			if !moved {
				break
			}
		}
		placed = append(placed, idx)
	}
}

func dataRange(points []LabeledPoint, f func(LabeledPoint) float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		v := f(p)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// normalize maps v from [min,max] onto [0,1]. A degenerate range maps to the
// plot center.
func normalize(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return (v - min) / (max - min)
}
