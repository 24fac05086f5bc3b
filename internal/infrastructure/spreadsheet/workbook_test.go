package spreadsheet_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/infrastructure/spreadsheet"
	"github.com/bibbank/loan-decision/pkg/testutil"
)

var header = []any{
	"Loan_ID", "Gender", "Married", "Dependents", "Education", "Self_Employed",
	"ApplicantIncome", "CoapplicantIncome", "LoanAmount", "Loan_Amount_Term",
	"Credit_History", "Property_Area",
}

func writeWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "applications.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbook_Requests(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"LP001", "Male", "Yes", "0", "Graduate", "No", "5000", "0", "150", "1", "1.0", "Urban"},
		[]any{"LP002", "Female", "No", "3+", "Not Graduate", "Yes", "abc", "0", "100", "2", "", "Rural"},
	)

	wb, err := spreadsheet.Open(path, "")
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, 2, wb.Len())
	reqs, rowErrs := wb.Requests()
	require.Len(t, reqs, 2)

	first := reqs[0]
	assert.Equal(t, "Male", first.Gender)
	assert.Equal(t, "1", first.LoanTerm)
	assert.Equal(t, "1.0", first.CreditHistory)
	assert.True(t, decimal.NewFromInt(5000).Equal(first.ApplicantIncome))
	assert.True(t, decimal.NewFromInt(150).Equal(first.LoanAmount))

	require.Len(t, rowErrs, 1)
	testutil.RequireInvalidApplicant(t, rowErrs[1], "ApplicantIncome")
}

func TestOpen_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Gender", "Married"}))
	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := spreadsheet.Open(path, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, spreadsheet.ErrMissingColumn))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := spreadsheet.Open(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}

func TestWorkbook_WriteDecisions(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"LP001", "Male", "Yes", "0", "Graduate", "No", "5000", "0", "150", "1", "1.0", "Urban"},
		[]any{"LP002", "Male", "Yes", "0", "Graduate", "No", "1000", "0", "700", "1", "1.0", "Urban"},
		[]any{"LP003", "", "Yes", "0", "Graduate", "No", "5000", "0", "150", "1", "1.0", "Urban"},
	)
	wb, err := spreadsheet.Open(path, "")
	require.NoError(t, err)
	defer wb.Close()

	confidence := 0.8123
	items := []dto.BatchItem{
		{Index: 0, Response: &dto.EvaluationResponse{Outcome: "APPROVED", Confidence: &confidence}},
		{Index: 1, Response: &dto.EvaluationResponse{Outcome: "REJECTED", Reason: "HIGH_DEBT_RATIO", Detail: "ratio 0.6993 exceeds 0.6"}},
		{Index: 2, Err: errors.New("invalid applicant: gender is required")},
	}

	out := filepath.Join(t.TempDir(), "decisions.xlsx")
	require.NoError(t, wb.WriteDecisions(items, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Decision", "Decision_Reason", "Decision_Confidence", "Decision_Detail"}, rows[0][12:])
	assert.Equal(t, "APPROVED", rows[1][12])
	assert.Equal(t, "0.8123", rows[1][14])
	assert.Equal(t, "HIGH_DEBT_RATIO", rows[2][13])
	assert.Equal(t, "INVALID", rows[3][12])
	assert.Equal(t, "invalid applicant: gender is required", rows[3][15])
}
