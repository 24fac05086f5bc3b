package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bibbank/loan-decision/pkg/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var applicantFlags = []string{
	"--gender", "Male",
	"--married", "Yes",
	"--education", "Graduate",
	"--applicant-income", "5000",
	"--loan-amount", "150",
	"--loan-term", "Medium Term",
	"--property-area", "Urban",
}

func TestEvaluate_Stub(t *testing.T) {
	args := append([]string{"evaluate", "--backend", "stub", "--stub-probability", "0.8", "--policy", "hybrid"}, applicantFlags...)

	out, err := execute(t, args...)

	require.NoError(t, err)
	assert.Contains(t, out, "[SUCCESS] THE LOAN HAS BEEN APPROVED")
	assert.Contains(t, out, "outcome=APPROVED")
	assert.Contains(t, out, "debt_income_ratio=0.0300")
}

func TestEvaluate_SpanishJSONAndBanner(t *testing.T) {
	args := append([]string{"evaluate", "--backend", "stub", "--stub-probability", "0.5", "--policy", "hybrid", "--lang", "es"}, applicantFlags...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "LA SOLICITUD REQUIERE REVISIÓN MANUAL")

	out, err = execute(t, append(args, "--json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"outcome": "MANUAL_REVIEW"`)
}

func TestEvaluate_Artifact(t *testing.T) {
	args := append([]string{"evaluate", "--backend", "artifact", "--model", "../../models/hybrid_model.json", "--policy", "hybrid"}, applicantFlags...)

	out, err := execute(t, args...)

	require.NoError(t, err)
	assert.NotContains(t, out, "outcome=ERROR")
}

func TestEvaluate_SimplePolicyArtifact(t *testing.T) {
	base := append([]string{"evaluate", "--backend", "artifact", "--model", "../../models/simple_model.json", "--policy", "simple"}, applicantFlags...)

	out, err := execute(t, append(base, "--credit-history", "Good history")...)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=APPROVED")

	out, err = execute(t, append(base, "--credit-history", "Poor history")...)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=REJECTED")
}

func TestEvaluate_SimplePolicyRejectsHybridArtifact(t *testing.T) {
	args := append([]string{"evaluate", "--backend", "artifact", "--model", "../../models/hybrid_model.json", "--policy", "simple",
		"--credit-history", "Good history"}, applicantFlags...)

	out, err := execute(t, args...)

	require.NoError(t, err)
	assert.Contains(t, out, "outcome=ERROR")
}

func TestEvaluate_MissingModelIsDegraded(t *testing.T) {
	args := append([]string{"evaluate", "--backend", "artifact", "--model", filepath.Join(t.TempDir(), "missing.json"), "--policy", "hybrid"}, applicantFlags...)

	out, err := execute(t, args...)

	require.NoError(t, err)
	assert.Contains(t, out, "[WARNING] THE MODEL IS NOT AVAILABLE")
	assert.Contains(t, out, "outcome=ERROR")
}

func TestEvaluate_InvalidInput(t *testing.T) {
	_, err := execute(t, "evaluate", "--backend", "stub", "--loan-amount", "150", "--applicant-income", "5000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gender is required")

	_, err = execute(t, "evaluate", "--backend", "stub", "--loan-amount", "a lot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestBatch(t *testing.T) {
	f := excelize.NewFile()
	header := []any{"Gender", "Married", "Dependents", "Education", "Self_Employed",
		"ApplicantIncome", "CoapplicantIncome", "LoanAmount", "Loan_Amount_Term", "Credit_History", "Property_Area"}
	rows := [][]any{
		{"Male", "Yes", "0", "Graduate", "No", "5000", "0", "150", "1", "1.0", "Urban"},
		{"Female", "No", "1", "Graduate", "No", "1000", "0", "700", "2", "1.0", "Rural"},
		{"Male", "Yes", "0", "Graduate", "No", "n/a", "0", "150", "1", "1.0", "Urban"},
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "applications.xlsx")
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	out, err := execute(t, "batch", in, "--backend", "stub", "--stub-probability", "0.9", "--policy", "hybrid")

	require.NoError(t, err)
	assert.Contains(t, out, "3 applications written")
	assert.Contains(t, out, "approved=1 rejected=1 review=0 error=0 invalid=1")

	result, err := excelize.OpenFile(filepath.Join(dir, "applications_decisions.xlsx"))
	require.NoError(t, err)
	defer result.Close()
	got, err := result.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Decision", got[0][11])
	assert.Equal(t, "APPROVED", got[1][11])
	assert.Equal(t, "REJECTED", got[2][11])
	assert.Equal(t, "INVALID", got[3][11])
}

func TestToken(t *testing.T) {
	out, err := execute(t, "token", "--secret", "dev-secret", "--subject", "officer-7", "--roles", "loan_officer,analyst")
	require.NoError(t, err)

	svc, err := auth.NewJWTService(auth.JWTConfig{Secret: "dev-secret", Issuer: "bib-loan-decision"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "officer-7", claims.Subject)
	assert.True(t, claims.HasRole(auth.RoleAnalyst))
	assert.True(t, claims.HasRole(auth.RoleLoanOfficer))
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := execute(t, "token")
	assert.Error(t, err)
}
