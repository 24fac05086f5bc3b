package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/pkg/testutil"
)

// fixedClassifier is safe for concurrent use.
type fixedClassifier struct{ p float64 }

func (f fixedClassifier) Name() string { return "fixed" }

func (f fixedClassifier) Score(context.Context, model.DerivedRecord) (float64, error) {
	return f.p, nil
}

func (f fixedClassifier) Predict(context.Context, model.ApplicantRecord) (int, error) {
	return 1, nil
}

func TestBatchEvaluate_Execute(t *testing.T) {
	evaluate := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: fixedClassifier{p: 0.9}}, nil, testLogger())

	highDebt := validRequest()
	highDebt.ApplicantIncome = decimal.NewFromInt(1000)
	highDebt.LoanAmount = decimal.NewFromInt(700)
	invalid := validRequest()
	invalid.Gender = ""

	reqs := []dto.EvaluateApplicationRequest{validRequest(), highDebt, invalid, validRequest(), validRequest()}

	items, err := usecase.NewBatchEvaluate(evaluate).WithConcurrency(2).Execute(context.Background(), reqs)

	require.NoError(t, err)
	require.Len(t, items, len(reqs))
	for i, item := range items {
		assert.Equal(t, i, item.Index)
	}
	assert.Equal(t, "APPROVED", items[0].Response.Outcome)
	assert.Equal(t, "REJECTED", items[1].Response.Outcome)
	assert.Equal(t, "HIGH_DEBT_RATIO", items[1].Response.Reason)
	assert.Nil(t, items[2].Response)
	testutil.RequireInvalidApplicant(t, items[2].Err)
	assert.Equal(t, "APPROVED", items[4].Response.Outcome)
}

func TestBatchEvaluate_Cancelled(t *testing.T) {
	evaluate := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: fixedClassifier{p: 0.9}}, nil, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := usecase.NewBatchEvaluate(evaluate).Execute(ctx, []dto.EvaluateApplicationRequest{validRequest()})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, items)
}

func TestBatchEvaluate_Empty(t *testing.T) {
	evaluate := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: fixedClassifier{p: 0.9}}, nil, testLogger())

	items, err := usecase.NewBatchEvaluate(evaluate).Execute(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, items)
}
