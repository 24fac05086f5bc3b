package ml

import (
	"context"
	"log/slog"

	"github.com/bibbank/loan-decision/internal/domain/model"
)

// StubClassifier implements port.Classifier with a fixed probability for
// development and load testing without a trained artifact.
type StubClassifier struct {
	logger      *slog.Logger
	probability float64
}

// NewStubClassifier creates a stub that always answers probability.
func NewStubClassifier(probability float64, logger *slog.Logger) *StubClassifier {
	return &StubClassifier{probability: probability, logger: logger}
}

// Name implements port.Classifier.
func (c *StubClassifier) Name() string { return "stub" }

// Score returns the configured probability.
func (c *StubClassifier) Score(ctx context.Context, record model.DerivedRecord) (float64, error) {
	c.logger.DebugContext(ctx, "stub model score requested",
		slog.Int("feature_count", len(record.Features().Numeric)),
	)
	return c.probability, nil
}

// Predict approves when the configured probability is at least one half.
func (c *StubClassifier) Predict(ctx context.Context, _ model.ApplicantRecord) (int, error) {
	c.logger.DebugContext(ctx, "stub model label requested")
	if c.probability >= defaultLabelThreshold {
		return 1, nil
	}
	return 0, nil
}
