package rest

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/presentation/presenter"
)

//go:embed templates/*
var templateFiles embed.FS

var formTemplate = template.Must(template.ParseFS(templateFiles, "templates/form.html"))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formPage struct {
	Banner            *presenter.Banner
	Input             map[string]string
	Lang              string
	Text              presenter.FormText
	Genders           []option
	Married           []option
	Dependents        []option
	Education         []option
	SelfEmployed      []option
	PropertyAreas     []option
	LoanTerms         []option
	CreditHistories   []option
	ShowCreditHistory bool
}

// FormHandler serves the HTML application form.
type FormHandler struct {
	evaluate      *usecase.EvaluateApplication
	logger        *slog.Logger
	creditHistory bool
}

// NewFormHandler creates a new FormHandler. creditHistory adds the credit
// history question, which only the label-based policy reads.
func NewFormHandler(evaluate *usecase.EvaluateApplication, creditHistory bool, logger *slog.Logger) *FormHandler {
	return &FormHandler{evaluate: evaluate, creditHistory: creditHistory, logger: logger}
}

// Show handles GET /.
func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, map[string]string{}, nil)
}

// Submit handles POST /.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	input := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		input[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	loc := localeOf(r)

	req, err := requestFromForm(input)
	if err == nil {
		var resp dto.EvaluationResponse
		resp, err = h.evaluate.Execute(r.Context(), req)
		if err == nil {
			b := presenter.Present(resp.Verdict, loc)
			h.render(w, r, http.StatusOK, input, &b)
			return
		}
	}

	if !errors.Is(err, model.ErrInvalidApplicant) {
		h.logger.ErrorContext(r.Context(), "form evaluation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	b := presenter.Banner{Severity: presenter.SeverityError, Title: presenter.Form(loc).Invalid, Message: err.Error()}
	h.render(w, r, http.StatusUnprocessableEntity, input, &b)
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, code int, input map[string]string, banner *presenter.Banner) {
	loc := localeOf(r)
	text := presenter.Form(loc)
	page := formPage{
		Banner:            banner,
		Input:             input,
		Lang:              string(loc),
		Text:              text,
		Genders:           options(input["gender"], []string{string(model.GenderMale), string(model.GenderFemale)}, text.Genders),
		Married:           options(input["married"], []string{"no", "yes"}, []string{text.No, text.Yes}),
		Dependents:        options(input["dependents"], []string{"0", "1", "2", "3+"}, []string{"0", "1", "2", "3+"}),
		Education:         options(input["education"], []string{string(model.EducationGraduate), string(model.EducationNotGraduate)}, text.Educations),
		SelfEmployed:      options(input["self_employed"], []string{"no", "yes"}, []string{text.No, text.Yes}),
		PropertyAreas:     options(input["property_area"], []string{string(model.PropertyAreaUrban), string(model.PropertyAreaRural), string(model.PropertyAreaSemiurban)}, text.PropertyAreas),
		LoanTerms:         options(input["loan_term"], []string{"0", "1", "2"}, text.LoanTerms),
		CreditHistories:   options(input["credit_history"], []string{"1", "0"}, text.CreditHistories),
		ShowCreditHistory: h.creditHistory,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := formTemplate.Execute(w, page); err != nil {
		h.logger.ErrorContext(r.Context(), "render form", "error", err)
	}
}

func options(selected string, values, labels []string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Label: labels[i], Selected: v == selected}
	}
	return out
}

func requestFromForm(in map[string]string) (dto.EvaluateApplicationRequest, error) {
	req := dto.EvaluateApplicationRequest{
		Gender:        in["gender"],
		Married:       in["married"],
		Dependents:    in["dependents"],
		Education:     in["education"],
		SelfEmployed:  in["self_employed"],
		LoanTerm:      in["loan_term"],
		PropertyArea:  in["property_area"],
		CreditHistory: in["credit_history"],
	}
	amounts := []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"applicant_income", &req.ApplicantIncome},
		{"coapplicant_income", &req.CoapplicantIncome},
		{"loan_amount", &req.LoanAmount},
	}
	for _, a := range amounts {
		raw := in[a.field]
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return dto.EvaluateApplicationRequest{}, fmt.Errorf("%w: %s is not a number", model.ErrInvalidApplicant, a.field)
		}
		*a.dst = d
	}
	return req, nil
}
