//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision/pkg/auth"
)

var (
	baseURL string
	token   string
)

func TestMain(m *testing.M) {
	baseURL = os.Getenv("DECISIOND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090"
	}

	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		svc, err := auth.NewJWTService(auth.JWTConfig{Secret: secret, Issuer: os.Getenv("AUTH_JWT_ISSUER")})
		if err == nil {
			token, _ = svc.GenerateToken("e2e", []string{auth.RoleLoanOfficer})
		}
	}

	// Wait for the service to come up.
	for i := 0; i < 30; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(baseURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestDecisionFlow(t *testing.T) {
	status := getJSON(t, "/v1/model")
	if available, _ := status["available"].(bool); !available {
		t.Skip("service is running without a model")
	}

	strong := map[string]any{
		"applicant_income":   "8000",
		"coapplicant_income": "2000",
		"loan_amount":        "120",
		"gender":             "Female",
		"married":            "Yes",
		"dependents":         "1",
		"education":          "Graduate",
		"self_employed":      "No",
		"loan_term":          "Long Term",
		"property_area":      "Semiurban",
		"credit_history":     "Good history",
	}
	resp := postJSON(t, "/v1/decisions", strong)
	assert.Contains(t, []string{"APPROVED", "REJECTED", "MANUAL_REVIEW"}, resp["outcome"])
	assert.NotEmpty(t, resp["id"])

	overextended := map[string]any{}
	for k, v := range strong {
		overextended[k] = v
	}
	overextended["applicant_income"] = "1000"
	overextended["coapplicant_income"] = "0"
	overextended["loan_amount"] = "700"
	resp = postJSON(t, "/v1/decisions", overextended)
	if status["policy"] == "hybrid" {
		assert.Equal(t, "REJECTED", resp["outcome"])
		assert.Equal(t, "HIGH_DEBT_RATIO", resp["reason"])
	}
}

func getJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	require.NoError(t, err)
	return do(t, req)
}

func postJSON(t *testing.T, path string, body any) map[string]any {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func do(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
