package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

// Policy names accepted by NewPolicy.
const (
	PolicyHybrid = "hybrid"
	PolicySimple = "simple"
)

// Policy defines the interface for decision strategies.
// Both HybridPolicy (rules + banded probability) and SimplePolicy (label) implement this.
type Policy interface {
	Name() string
	// Check rejects records the policy cannot evaluate. Errors wrap
	// model.ErrInvalidApplicant.
	Check(record model.ApplicantRecord) error
	Evaluate(ctx context.Context, record model.ApplicantRecord, clf port.Classifier) valueobject.Verdict
}

// NewPolicy builds the policy registered under name.
func NewPolicy(name string, thresholds HybridThresholds, logger *slog.Logger) (Policy, error) {
	switch name {
	case PolicyHybrid:
		if err := thresholds.Validate(); err != nil {
			return nil, fmt.Errorf("invalid hybrid thresholds: %w", err)
		}
		return NewHybridPolicy(thresholds, logger), nil
	case PolicySimple:
		return NewSimplePolicy(logger), nil
	default:
		return nil, fmt.Errorf("unknown decision policy %q", name)
	}
}
