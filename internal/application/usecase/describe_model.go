package usecase

import (
	"context"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/service"
)

// DescribeModel reports model availability and the active policy.
type DescribeModel struct {
	policy   service.Policy
	provider port.ModelProvider
}

// NewDescribeModel creates a new DescribeModel use case.
func NewDescribeModel(policy service.Policy, provider port.ModelProvider) *DescribeModel {
	return &DescribeModel{policy: policy, provider: provider}
}

// Execute returns the current model status.
func (uc *DescribeModel) Execute(_ context.Context) dto.ModelStatusResponse {
	resp := dto.ModelStatusResponse{Policy: uc.policy.Name()}

	if hybrid, ok := uc.policy.(*service.HybridPolicy); ok {
		t := hybrid.Thresholds()
		resp.Thresholds = &dto.ThresholdsResponse{
			MaxDebtIncomeRatio: t.MaxDebtIncomeRatio.String(),
			MinTotalIncome:     t.MinTotalIncome.String(),
			ApproveAt:          t.ApproveAt,
			RejectBelow:        t.RejectBelow,
		}
	}

	clf, err := uc.provider.Classifier()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Available = true
	resp.Model = clf.Name()
	return resp
}
