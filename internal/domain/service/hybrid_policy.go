package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// HybridPolicy combines deterministic hard rules with a banded model score.
// Evaluation runs in three short-circuiting phases:
//
//  1. hard rules (debt ratio, then income floor), before any model call
//  2. model query; a failure ends the evaluation with a Failed verdict
//  3. banding: approve at or above ApproveAt, reject below RejectBelow,
//     manual review in between
type HybridPolicy struct {
	thresholds HybridThresholds
	logger     *slog.Logger
}

// NewHybridPolicy creates a HybridPolicy. Thresholds are assumed validated.
func NewHybridPolicy(thresholds HybridThresholds, logger *slog.Logger) *HybridPolicy {
	return &HybridPolicy{
		thresholds: thresholds,
		logger:     logger,
	}
}

// Name implements Policy.
func (p *HybridPolicy) Name() string { return PolicyHybrid }

// Thresholds returns the policy parameters in use.
func (p *HybridPolicy) Thresholds() HybridThresholds { return p.thresholds }

// Check implements Policy. The hybrid policy accepts any valid record.
func (p *HybridPolicy) Check(model.ApplicantRecord) error { return nil }

// Evaluate implements Policy.
func (p *HybridPolicy) Evaluate(ctx context.Context, record model.ApplicantRecord, clf port.Classifier) valueobject.Verdict {
	return p.Decide(ctx, model.Derive(record), clf)
}

// Decide runs the three phases against an already derived record.
func (p *HybridPolicy) Decide(ctx context.Context, derived model.DerivedRecord, scorer port.ProbabilityScorer) valueobject.Verdict {
	// Phase 1: hard rules.
	if v, rejected := p.applyHardRules(derived); rejected {
		return v
	}

	// Phase 2: model query.
	probability, err := scorer.Score(ctx, derived)
	if err != nil {
		p.logger.WarnContext(ctx, "classifier failed, no decision made", "error", err)
		return valueobject.Failed{Message: fmt.Sprintf("scoring failed: %v", err)}
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		p.logger.WarnContext(ctx, "classifier returned an out-of-range probability", "probability", probability)
		return valueobject.Failed{Message: fmt.Sprintf("scoring failed: probability %g outside [0,1]", probability)}
	}

	// Phase 3: banding.
	switch {
	case probability >= p.thresholds.ApproveAt:
		return valueobject.Approved{Confidence: probability, Scored: true}
	case probability < p.thresholds.RejectBelow:
		return valueobject.Rejected{
			Reason:     valueobject.ReasonLowModelScore,
			Detail:     fmt.Sprintf("model approval probability %.2f is below %.2f", probability, p.thresholds.RejectBelow),
			Confidence: probability,
			Scored:     true,
		}
	default:
		return valueobject.ManualReview{Confidence: probability}
	}
}

func (p *HybridPolicy) applyHardRules(derived model.DerivedRecord) (valueobject.Verdict, bool) {
	ratio := derived.DebtIncomeRatio()
	if ratio.GreaterThan(p.thresholds.MaxDebtIncomeRatio) {
		return valueobject.Rejected{
			Reason: valueobject.ReasonHighDebtRatio,
			Detail: fmt.Sprintf("debt-to-income ratio %s exceeds the %s%% limit",
				ratio.Mul(hundred).StringFixed(1)+"%",
				p.thresholds.MaxDebtIncomeRatio.Mul(hundred).String()),
		}, true
	}

	income := derived.TotalIncome()
	if income.LessThan(p.thresholds.MinTotalIncome) {
		return valueobject.Rejected{
			Reason: valueobject.ReasonInsufficientIncome,
			Detail: fmt.Sprintf("total income %s is below the minimum of %s",
				income.String(), p.thresholds.MinTotalIncome.String()),
		}, true
	}

	return nil, false
}
