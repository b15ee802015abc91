package entity

import (
	"fmt"
	"time"
)

// Common polarity values produced by sentiment classifiers. Classifiers are
// external and may emit other categories (emotions such as "joy" or "anger");
// these constants cover the canonical polarity set only.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelMixed    = "mixed"
)

// Label represents a categorical tag assigned to a document by an external
// classifier. The label value is stored verbatim; this system never derives
// labels itself.
type Label struct {
	ID         int64
	DocumentID int64
	Classifier string  // backend identifier, e.g. "anthropic", "openai"
	Value      string  // category, e.g. "positive" or "joy"
	Score      float64 // confidence in [0,1]; 0 when the backend reports none
	CreatedAt  time.Time
}

// Validate validates the Label entity fields.
func (l *Label) Validate() error {
	if l.DocumentID <= 0 {
		return &ValidationError{Field: "document_id", Message: "document_id is required"}
	}
	if l.Classifier == "" {
		return &ValidationError{Field: "classifier", Message: "classifier is required"}
	}
	if l.Value == "" {
		return &ValidationError{Field: "value", Message: "label value is required"}
	}
	if l.Score < 0 || l.Score > 1 {
		return fmt.Errorf("invalid score: %f (must be within [0,1])", l.Score)
	}
	return nil
}
