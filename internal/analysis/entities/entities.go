// Package entities extracts named entities (people, places) from document
// text and tabulates their frequencies. Extraction runs on raw text, not
// cleaned text: the tagger relies on capitalization that cleaning destroys.
package entities

import (
	"fmt"
	"sort"

	"github.com/jdkato/prose/v2"
)

// Entity is one named entity with its occurrence count.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"` // tagger label, e.g. PERSON or GPE
	Count int    `json:"count"`
}

// Config controls extraction. Labels filters which entity kinds are kept;
// empty keeps everything the tagger finds.
type Config struct {
	Labels []string
	TopN   int // 0 returns all entities
}

// Extract tags text and returns entity frequencies sorted by descending
// count, ties broken by first occurrence.
func Extract(text string, cfg Config) ([]Entity, error) {
	if text == "" {
		return []Entity{}, nil
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("Extract: tag document: %w", err)
	}

	var wanted map[string]bool
	if len(cfg.Labels) > 0 {
		wanted = make(map[string]bool, len(cfg.Labels))
		for _, l := range cfg.Labels {
			wanted[l] = true
		}
	}

	type key struct{ text, label string }
	counts := make(map[key]int)
	firstSeen := make(map[key]int)

	for _, ent := range doc.Entities() {
		if wanted != nil && !wanted[ent.Label] {
			continue
		}
		k := key{ent.Text, ent.Label}
		if _, seen := counts[k]; !seen {
			firstSeen[k] = len(firstSeen)
		}
		counts[k]++
	}

	result := make([]Entity, 0, len(counts))
	for k, count := range counts {
		result = append(result, Entity{Text: k.text, Label: k.label, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return firstSeen[key{result[i].Text, result[i].Label}] < firstSeen[key{result[j].Text, result[j].Label}]
	})

	if cfg.TopN > 0 && cfg.TopN < len(result) {
		result = result[:cfg.TopN]
	}
	return result, nil
}
