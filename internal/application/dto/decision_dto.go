package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Let numeric tags such as gte=0 apply to decimal amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EvaluateApplicationRequest is the input DTO for the EvaluateApplication
// use case. Categorical answers are raw form labels in English or Spanish.
type EvaluateApplicationRequest struct {
	ApplicantIncome   decimal.Decimal `json:"applicant_income" validate:"gte=0"`
	CoapplicantIncome decimal.Decimal `json:"coapplicant_income" validate:"gte=0"`
	LoanAmount        decimal.Decimal `json:"loan_amount" validate:"gte=0"`
	Gender            string          `json:"gender" validate:"required"`
	Married           string          `json:"married"`
	Dependents        string          `json:"dependents" validate:"required"`
	Education         string          `json:"education" validate:"required"`
	SelfEmployed      string          `json:"self_employed"`
	LoanTerm          string          `json:"loan_term" validate:"required"`
	PropertyArea      string          `json:"property_area" validate:"required"`
	CreditHistory     string          `json:"credit_history"`
}

// Validate checks field presence and ranges. Errors wrap
// model.ErrInvalidApplicant.
func (r EvaluateApplicationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrInvalidApplicant, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gte":
			msgs = append(msgs, fe.Field()+" must not be negative")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidApplicant, strings.Join(msgs, "; "))
}

// ToInput parses the form labels into domain enumerations.
func (r EvaluateApplicationRequest) ToInput() (model.ApplicantInput, error) {
	var (
		in  model.ApplicantInput
		err error
	)
	in.ApplicantIncome = r.ApplicantIncome
	in.CoapplicantIncome = r.CoapplicantIncome
	in.LoanAmount = r.LoanAmount

	if in.Gender, err = model.ParseGender(r.Gender); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.Married, err = model.ParseFlag(r.Married); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.Dependents, err = model.ParseDependents(r.Dependents); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.Education, err = model.ParseEducation(r.Education); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.SelfEmployed, err = model.ParseFlag(r.SelfEmployed); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.LoanTerm, err = model.ParseLoanTerm(r.LoanTerm); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.PropertyArea, err = model.ParsePropertyArea(r.PropertyArea); err != nil {
		return model.ApplicantInput{}, err
	}
	if in.CreditHistory, err = model.ParseCreditHistory(r.CreditHistory); err != nil {
		return model.ApplicantInput{}, err
	}
	return in, nil
}

// EvaluationResponse is the output DTO returned after an evaluation.
type EvaluationResponse struct {
	EvaluatedAt     time.Time           `json:"evaluated_at"`
	Verdict         valueobject.Verdict `json:"-"`
	Confidence      *float64            `json:"confidence,omitempty"`
	ID              uuid.UUID           `json:"id"`
	Policy          string              `json:"policy"`
	Model           string              `json:"model,omitempty"`
	Outcome         string              `json:"outcome"`
	Reason          string              `json:"reason,omitempty"`
	Detail          string              `json:"detail,omitempty"`
	TotalIncome     string              `json:"total_income"`
	DebtIncomeRatio string              `json:"debt_income_ratio"`
}

// FromVerdict maps a verdict and the figures it was based on to the
// response DTO.
func FromVerdict(policy, modelName string, derived model.DerivedRecord, v valueobject.Verdict, at time.Time) EvaluationResponse {
	resp := EvaluationResponse{
		ID:              uuid.New(),
		Policy:          policy,
		Model:           modelName,
		Verdict:         v,
		Outcome:         v.Outcome().String(),
		TotalIncome:     derived.TotalIncome().String(),
		DebtIncomeRatio: derived.DebtIncomeRatio().StringFixed(4),
		EvaluatedAt:     at,
	}
	if c, ok := valueobject.ConfidenceOf(v); ok {
		resp.Confidence = &c
	}
	switch tv := v.(type) {
	case valueobject.Rejected:
		resp.Reason = tv.Reason.String()
		resp.Detail = tv.Detail
	case valueobject.Failed:
		resp.Detail = tv.Message
	}
	return resp
}

// ThresholdsResponse describes the hybrid policy parameters.
type ThresholdsResponse struct {
	MaxDebtIncomeRatio string  `json:"max_debt_income_ratio"`
	MinTotalIncome     string  `json:"min_total_income"`
	ApproveAt          float64 `json:"approve_at"`
	RejectBelow        float64 `json:"reject_below"`
}

// ModelStatusResponse reports whether decisions can currently be made.
type ModelStatusResponse struct {
	Thresholds *ThresholdsResponse `json:"thresholds,omitempty"`
	Policy     string              `json:"policy"`
	Model      string              `json:"model,omitempty"`
	Error      string              `json:"error,omitempty"`
	Available  bool                `json:"available"`
}

// BatchItem is the result of one row of a batch evaluation. Exactly one of
// Response and Err is set.
type BatchItem struct {
	Err      error
	Response *EvaluationResponse
	Index    int
}
