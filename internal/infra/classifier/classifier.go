// Package classifier provides AI-powered document classification implementations.
// It includes adapters for Claude (Anthropic) and OpenAI APIs with reliability patterns.
// Classification is treated as an opaque external capability: backends return a
// categorical label with an optional confidence score, and this package never
// derives labels locally. Observability comes from structured logging and
// Prometheus metrics.
package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prediction is the outcome of a single classification call.
type Prediction struct {
	// Label is the category assigned by the backend, e.g. "positive" or "joy".
	// Stored verbatim on the document's label record.
	Label string

	// Score is the backend-reported confidence in [0,1].
	// Zero when the backend reports none.
	Score float64
}

// parsePrediction extracts a Prediction from a raw model response.
// Backends are instructed to reply with a single JSON object, but some models
// wrap it in prose or code fences, so the parser scans for the first
// well-formed object before falling back to a bare label-word search.
func parsePrediction(raw string, labels []string) (Prediction, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var out struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			if err := json.Unmarshal([]byte(trimmed[start:end+1]), &out); err == nil && out.Label != "" {
				return normalizePrediction(out.Label, out.Score), nil
			}
		}
	}

	// Fallback: some models answer with a bare label word.
	lowered := strings.ToLower(trimmed)
	for _, label := range labels {
		if strings.Contains(lowered, strings.ToLower(label)) {
			return Prediction{Label: strings.ToLower(label)}, nil
		}
	}

	return Prediction{}, fmt.Errorf("classifier response did not contain a recognizable label")
}

// normalizePrediction lowercases the label and clamps the score into [0,1].
func normalizePrediction(label string, score float64) Prediction {
	p := Prediction{
		Label: strings.ToLower(strings.TrimSpace(label)),
		Score: score,
	}
	if p.Score < 0 {
		p.Score = 0
	}
	if p.Score > 1 {
		p.Score = 1
	}
	return p
}
