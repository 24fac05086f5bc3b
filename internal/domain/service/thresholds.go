package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HybridThresholds are the tunable policy parameters of HybridPolicy.
type HybridThresholds struct {
	// MaxDebtIncomeRatio rejects applications whose ratio is strictly above it.
	MaxDebtIncomeRatio decimal.Decimal
	// MinTotalIncome rejects applications whose total income is strictly below it.
	MinTotalIncome decimal.Decimal
	// ApproveAt is the lowest probability that approves (inclusive).
	ApproveAt float64
	// RejectBelow is the probability under which the model rejects (exclusive).
	RejectBelow float64
}

// DefaultHybridThresholds returns the production policy:
// ratio 0.60, income 2500, bands [0.45, 0.60).
func DefaultHybridThresholds() HybridThresholds {
	return HybridThresholds{
		MaxDebtIncomeRatio: decimal.RequireFromString("0.60"),
		MinTotalIncome:     decimal.NewFromInt(2500),
		ApproveAt:          0.60,
		RejectBelow:        0.45,
	}
}

// Validate checks the thresholds describe a coherent policy.
func (t HybridThresholds) Validate() error {
	if t.MaxDebtIncomeRatio.IsNegative() {
		return fmt.Errorf("max debt-to-income ratio must not be negative, got %s", t.MaxDebtIncomeRatio)
	}
	if t.MinTotalIncome.IsNegative() {
		return fmt.Errorf("min total income must not be negative, got %s", t.MinTotalIncome)
	}
	if t.RejectBelow < 0 || t.RejectBelow > 1 {
		return fmt.Errorf("reject threshold must be within [0,1], got %g", t.RejectBelow)
	}
	if t.ApproveAt < 0 || t.ApproveAt > 1 {
		return fmt.Errorf("approve threshold must be within [0,1], got %g", t.ApproveAt)
	}
	if t.RejectBelow > t.ApproveAt {
		return fmt.Errorf("reject threshold %g is above approve threshold %g", t.RejectBelow, t.ApproveAt)
	}
	return nil
}
