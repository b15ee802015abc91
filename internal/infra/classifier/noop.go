// Package classifier provides AI-powered document classification implementations.
package classifier

import (
	"context"
)

// NoOp is a classifier that labels every document "neutral" with zero
// confidence. This is useful for testing and development when no external
// classification backend is available.
type NoOp struct{}

// NewNoOp creates a new NoOp classifier.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name returns the backend identifier stored on label records.
func (n *NoOp) Name() string { return "noop" }

// Classify always returns a neutral prediction with zero confidence.
func (n *NoOp) Classify(_ context.Context, _ string) (Prediction, error) {
	return Prediction{Label: "neutral", Score: 0}, nil
}
