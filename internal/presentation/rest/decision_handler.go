package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/presentation/presenter"
)

const maxBodyBytes = 64 << 10

// DecisionHandler serves the JSON decision API.
type DecisionHandler struct {
	evaluate *usecase.EvaluateApplication
	describe *usecase.DescribeModel
	logger   *slog.Logger
}

// NewDecisionHandler creates a new DecisionHandler.
func NewDecisionHandler(evaluate *usecase.EvaluateApplication, describe *usecase.DescribeModel, logger *slog.Logger) *DecisionHandler {
	return &DecisionHandler{evaluate: evaluate, describe: describe, logger: logger}
}

// DecisionResponse is an evaluation plus the localised banner.
type DecisionResponse struct {
	dto.EvaluationResponse
	Banner presenter.Banner `json:"banner"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Evaluate handles POST /v1/decisions.
func (h *DecisionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateApplicationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	resp, err := h.evaluate.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidApplicant) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		h.logger.ErrorContext(r.Context(), "evaluation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, DecisionResponse{
		EvaluationResponse: resp,
		Banner:             presenter.Present(resp.Verdict, localeOf(r)),
	})
}

// Model handles GET /v1/model.
func (h *DecisionHandler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.describe.Execute(r.Context()))
}

func localeOf(r *http.Request) presenter.Locale {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return presenter.ParseLocale(lang)
	}
	return presenter.ParseLocale(r.Header.Get("Accept-Language"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
