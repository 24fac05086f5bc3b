package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/service"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
	"github.com/bibbank/loan-decision/pkg/testutil"
)

// --- Mock implementations ---

type mockClassifier struct {
	scoreFunc   func(ctx context.Context, d model.DerivedRecord) (float64, error)
	predictFunc func(ctx context.Context, r model.ApplicantRecord) (int, error)
	scoreCalls  int
}

func (m *mockClassifier) Name() string { return "mock-model" }

func (m *mockClassifier) Score(ctx context.Context, d model.DerivedRecord) (float64, error) {
	m.scoreCalls++
	if m.scoreFunc != nil {
		return m.scoreFunc(ctx, d)
	}
	return 0.8, nil
}

func (m *mockClassifier) Predict(ctx context.Context, r model.ApplicantRecord) (int, error) {
	if m.predictFunc != nil {
		return m.predictFunc(ctx, r)
	}
	return 1, nil
}

type mockProvider struct {
	clf port.Classifier
	err error
}

func (m *mockProvider) Classifier() (port.Classifier, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.clf, nil
}

type observation struct {
	verdict valueobject.Verdict
	policy  string
}

type mockObserver struct {
	observed []observation
}

func (m *mockObserver) Observe(_ context.Context, policy string, v valueobject.Verdict, _ time.Duration) {
	m.observed = append(m.observed, observation{policy: policy, verdict: v})
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func hybridPolicy() service.Policy {
	return service.NewHybridPolicy(service.DefaultHybridThresholds(), testLogger())
}

func validRequest() dto.EvaluateApplicationRequest {
	return dto.EvaluateApplicationRequest{
		ApplicantIncome:   decimal.NewFromInt(5000),
		CoapplicantIncome: decimal.Zero,
		LoanAmount:        decimal.NewFromInt(150),
		Gender:            "Male",
		Married:           "Yes",
		Dependents:        "0",
		Education:         "Graduate",
		SelfEmployed:      "No",
		LoanTerm:          "Medium Term",
		PropertyArea:      "Urban",
		CreditHistory:     "Good history",
	}
}

// --- Tests ---

func TestEvaluateApplication_Execute(t *testing.T) {
	t.Run("approves a strong application", func(t *testing.T) {
		clf := &mockClassifier{}
		observer := &mockObserver{}
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: clf}, observer, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Outcome)
		assert.Equal(t, "hybrid", resp.Policy)
		assert.Equal(t, "mock-model", resp.Model)
		assert.Equal(t, "5000", resp.TotalIncome)
		assert.Equal(t, "0.0300", resp.DebtIncomeRatio)
		require.NotNil(t, resp.Confidence)
		assert.InDelta(t, 0.8, *resp.Confidence, 1e-9)
		assert.NotEqual(t, [16]byte{}, [16]byte(resp.ID))
		assert.False(t, resp.EvaluatedAt.IsZero())
		assert.Equal(t, 1, clf.scoreCalls)

		require.Len(t, observer.observed, 1)
		assert.Equal(t, "hybrid", observer.observed[0].policy)
		assert.IsType(t, valueobject.Approved{}, observer.observed[0].verdict)
	})

	t.Run("rejects on hard rule without calling the model", func(t *testing.T) {
		clf := &mockClassifier{}
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: clf}, nil, testLogger())

		req := validRequest()
		req.ApplicantIncome = decimal.NewFromInt(1000)
		req.LoanAmount = decimal.NewFromInt(700)

		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Outcome)
		assert.Equal(t, "HIGH_DEBT_RATIO", resp.Reason)
		assert.NotEmpty(t, resp.Detail)
		assert.Nil(t, resp.Confidence)
		assert.Equal(t, 0, clf.scoreCalls)
	})

	t.Run("degraded mode fails without rules or model", func(t *testing.T) {
		observer := &mockObserver{}
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{err: port.ErrModelUnavailable}, observer, testLogger())

		// This application would trip the debt ratio rule if rules ran.
		req := validRequest()
		req.ApplicantIncome = decimal.NewFromInt(1000)
		req.LoanAmount = decimal.NewFromInt(700)

		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "ERROR", resp.Outcome)
		assert.Equal(t, usecase.MessageModelUnavailable, resp.Detail)
		assert.Empty(t, resp.Reason)
		assert.Empty(t, resp.Model)
		require.Len(t, observer.observed, 1)
		assert.Equal(t, valueobject.Failed{Message: usecase.MessageModelUnavailable}, observer.observed[0].verdict)
	})

	t.Run("classifier failure is a verdict, not an error", func(t *testing.T) {
		clf := &mockClassifier{
			scoreFunc: func(context.Context, model.DerivedRecord) (float64, error) {
				return 0, errors.New("inference timeout")
			},
		}
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: clf}, nil, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "ERROR", resp.Outcome)
		assert.Contains(t, resp.Detail, "inference timeout")
	})

	t.Run("manual review band", func(t *testing.T) {
		clf := &mockClassifier{
			scoreFunc: func(context.Context, model.DerivedRecord) (float64, error) { return 0.5, nil },
		}
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: clf}, nil, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "MANUAL_REVIEW", resp.Outcome)
		require.NotNil(t, resp.Confidence)
		assert.InDelta(t, 0.5, *resp.Confidence, 1e-9)
	})

	t.Run("spanish labels are accepted", func(t *testing.T) {
		uc := usecase.NewEvaluateApplication(hybridPolicy(), &mockProvider{clf: &mockClassifier{}}, nil, testLogger())

		req := validRequest()
		req.Married = "Sí"
		req.LoanTerm = "Largo Plazo"
		req.CreditHistory = "Mal historial"

		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Outcome)
	})
}

func TestEvaluateApplication_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.EvaluateApplicationRequest)
		policy service.Policy
	}{
		{
			name:   "missing gender",
			mutate: func(r *dto.EvaluateApplicationRequest) { r.Gender = "" },
			policy: hybridPolicy(),
		},
		{
			name:   "negative income",
			mutate: func(r *dto.EvaluateApplicationRequest) { r.ApplicantIncome = decimal.NewFromInt(-1) },
			policy: hybridPolicy(),
		},
		{
			name:   "unknown property area",
			mutate: func(r *dto.EvaluateApplicationRequest) { r.PropertyArea = "Suburban" },
			policy: hybridPolicy(),
		},
		{
			name:   "unknown loan term",
			mutate: func(r *dto.EvaluateApplicationRequest) { r.LoanTerm = "forever" },
			policy: hybridPolicy(),
		},
		{
			name:   "simple policy without credit history",
			mutate: func(r *dto.EvaluateApplicationRequest) { r.CreditHistory = "" },
			policy: service.NewSimplePolicy(testLogger()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &mockClassifier{}
			observer := &mockObserver{}
			uc := usecase.NewEvaluateApplication(tt.policy, &mockProvider{clf: clf}, observer, testLogger())

			req := validRequest()
			tt.mutate(&req)

			_, err := uc.Execute(context.Background(), req)

			testutil.RequireInvalidApplicant(t, err)
			assert.Equal(t, 0, clf.scoreCalls)
			assert.Empty(t, observer.observed)
		})
	}
}

func TestEvaluateApplication_SimplePolicy(t *testing.T) {
	clf := &mockClassifier{
		predictFunc: func(context.Context, model.ApplicantRecord) (int, error) { return 0, nil },
	}
	uc := usecase.NewEvaluateApplication(service.NewSimplePolicy(testLogger()), &mockProvider{clf: clf}, nil, testLogger())

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "simple", resp.Policy)
	assert.Equal(t, "REJECTED", resp.Outcome)
	assert.Equal(t, "MODEL_DECLINED", resp.Reason)
	assert.Nil(t, resp.Confidence)
	assert.Equal(t, 0, clf.scoreCalls)
}
