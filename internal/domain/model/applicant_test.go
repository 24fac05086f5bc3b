package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision/internal/domain/model"
)

func validInput() model.ApplicantInput {
	return model.ApplicantInput{
		ApplicantIncome:   decimal.NewFromInt(5000),
		CoapplicantIncome: decimal.Zero,
		LoanAmount:        decimal.NewFromInt(150),
		Gender:            model.GenderMale,
		Dependents:        model.DependentsNone,
		Education:         model.EducationGraduate,
		PropertyArea:      model.PropertyAreaUrban,
		LoanTerm:          model.LoanTermMedium,
	}
}

func TestNewApplicantRecord(t *testing.T) {
	t.Run("accepts a valid application", func(t *testing.T) {
		rec, err := model.NewApplicantRecord(validInput())

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5000).Equal(rec.ApplicantIncome()))
		assert.Equal(t, model.CreditHistoryUnknown, rec.CreditHistory())
	})

	tests := []struct {
		name   string
		mutate func(in *model.ApplicantInput)
		errMsg string
	}{
		{
			name:   "negative applicant income",
			mutate: func(in *model.ApplicantInput) { in.ApplicantIncome = decimal.NewFromInt(-1) },
			errMsg: "applicant income must not be negative",
		},
		{
			name:   "negative co-applicant income",
			mutate: func(in *model.ApplicantInput) { in.CoapplicantIncome = decimal.NewFromInt(-5) },
			errMsg: "co-applicant income must not be negative",
		},
		{
			name:   "negative loan amount",
			mutate: func(in *model.ApplicantInput) { in.LoanAmount = decimal.NewFromInt(-150) },
			errMsg: "loan amount must not be negative",
		},
		{
			name:   "missing gender",
			mutate: func(in *model.ApplicantInput) { in.Gender = "" },
			errMsg: "gender is required",
		},
		{
			name:   "unknown dependents bucket",
			mutate: func(in *model.ApplicantInput) { in.Dependents = "7" },
			errMsg: "dependents is required",
		},
		{
			name:   "missing education",
			mutate: func(in *model.ApplicantInput) { in.Education = "" },
			errMsg: "education is required",
		},
		{
			name:   "missing property area",
			mutate: func(in *model.ApplicantInput) { in.PropertyArea = "Downtown" },
			errMsg: "property area is required",
		},
		{
			name:   "loan term out of range",
			mutate: func(in *model.ApplicantInput) { in.LoanTerm = model.LoanTerm(5) },
			errMsg: "loan term 5 out of range",
		},
		{
			name:   "credit history out of range",
			mutate: func(in *model.ApplicantInput) { in.CreditHistory = model.CreditHistory(9) },
			errMsg: "credit history 9 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := model.NewApplicantRecord(in)

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidApplicant)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
