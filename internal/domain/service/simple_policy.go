package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

// SimplePolicy trusts the classifier's binary label outright: 1 approves,
// 0 rejects. It has no hard rules and no review band, and its model is
// trained on the raw credit-history field, which therefore must be present.
type SimplePolicy struct {
	logger *slog.Logger
}

// NewSimplePolicy creates a SimplePolicy.
func NewSimplePolicy(logger *slog.Logger) *SimplePolicy {
	return &SimplePolicy{logger: logger}
}

// Name implements Policy.
func (p *SimplePolicy) Name() string { return PolicySimple }

// Check implements Policy.
func (p *SimplePolicy) Check(record model.ApplicantRecord) error {
	if !record.CreditHistory().Known() {
		return fmt.Errorf("%w: credit history is required", model.ErrInvalidApplicant)
	}
	return nil
}

// Evaluate implements Policy.
func (p *SimplePolicy) Evaluate(ctx context.Context, record model.ApplicantRecord, clf port.Classifier) valueobject.Verdict {
	return p.Decide(ctx, record, clf)
}

// Decide maps the predicted label to a verdict.
func (p *SimplePolicy) Decide(ctx context.Context, record model.ApplicantRecord, predictor port.LabelPredictor) valueobject.Verdict {
	if err := p.Check(record); err != nil {
		return valueobject.Failed{Message: err.Error()}
	}

	label, err := predictor.Predict(ctx, record)
	if err != nil {
		p.logger.WarnContext(ctx, "classifier failed, no decision made", "error", err)
		return valueobject.Failed{Message: fmt.Sprintf("prediction failed: %v", err)}
	}

	switch label {
	case 1:
		return valueobject.Approved{}
	case 0:
		return valueobject.Rejected{
			Reason: valueobject.ReasonModelDeclined,
			Detail: "the model declined the application",
		}
	default:
		p.logger.WarnContext(ctx, "classifier returned an unknown label", "label", label)
		return valueobject.Failed{Message: fmt.Sprintf("prediction failed: unknown label %d", label)}
	}
}
