package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidApplicant is wrapped by every validation failure raised while
// building an ApplicantRecord.
var ErrInvalidApplicant = errors.New("invalid applicant")

// ApplicantInput carries the raw, already-parsed attributes of one submission.
type ApplicantInput struct {
	ApplicantIncome   decimal.Decimal
	CoapplicantIncome decimal.Decimal
	// LoanAmount is expressed in thousands.
	LoanAmount    decimal.Decimal
	Gender        Gender
	Dependents    Dependents
	Education     Education
	PropertyArea  PropertyArea
	LoanTerm      LoanTerm
	CreditHistory CreditHistory
	Married       bool
	SelfEmployed  bool
}

// ApplicantRecord is the immutable, validated form of one loan application.
type ApplicantRecord struct {
	applicantIncome   decimal.Decimal
	coapplicantIncome decimal.Decimal
	loanAmount        decimal.Decimal
	gender            Gender
	dependents        Dependents
	education         Education
	propertyArea      PropertyArea
	loanTerm          LoanTerm
	creditHistory     CreditHistory
	married           bool
	selfEmployed      bool
}

// NewApplicantRecord validates enum membership and non-negative amounts.
func NewApplicantRecord(in ApplicantInput) (ApplicantRecord, error) {
	if !in.Gender.Valid() {
		return ApplicantRecord{}, fmt.Errorf("%w: gender is required", ErrInvalidApplicant)
	}
	if !in.Dependents.Valid() {
		return ApplicantRecord{}, fmt.Errorf("%w: dependents is required", ErrInvalidApplicant)
	}
	if !in.Education.Valid() {
		return ApplicantRecord{}, fmt.Errorf("%w: education is required", ErrInvalidApplicant)
	}
	if !in.PropertyArea.Valid() {
		return ApplicantRecord{}, fmt.Errorf("%w: property area is required", ErrInvalidApplicant)
	}
	if !in.LoanTerm.Valid() {
		return ApplicantRecord{}, fmt.Errorf("%w: loan term %d out of range", ErrInvalidApplicant, int(in.LoanTerm))
	}
	if in.CreditHistory != CreditHistoryUnknown && !in.CreditHistory.Known() {
		return ApplicantRecord{}, fmt.Errorf("%w: credit history %d out of range", ErrInvalidApplicant, int(in.CreditHistory))
	}
	if in.ApplicantIncome.IsNegative() {
		return ApplicantRecord{}, fmt.Errorf("%w: applicant income must not be negative", ErrInvalidApplicant)
	}
	if in.CoapplicantIncome.IsNegative() {
		return ApplicantRecord{}, fmt.Errorf("%w: co-applicant income must not be negative", ErrInvalidApplicant)
	}
	if in.LoanAmount.IsNegative() {
		return ApplicantRecord{}, fmt.Errorf("%w: loan amount must not be negative", ErrInvalidApplicant)
	}

	return ApplicantRecord{
		applicantIncome:   in.ApplicantIncome,
		coapplicantIncome: in.CoapplicantIncome,
		loanAmount:        in.LoanAmount,
		gender:            in.Gender,
		dependents:        in.Dependents,
		education:         in.Education,
		propertyArea:      in.PropertyArea,
		loanTerm:          in.LoanTerm,
		creditHistory:     in.CreditHistory,
		married:           in.Married,
		selfEmployed:      in.SelfEmployed,
	}, nil
}

// --- Accessors ---

func (r ApplicantRecord) ApplicantIncome() decimal.Decimal   { return r.applicantIncome }
func (r ApplicantRecord) CoapplicantIncome() decimal.Decimal { return r.coapplicantIncome }
func (r ApplicantRecord) LoanAmount() decimal.Decimal        { return r.loanAmount }
func (r ApplicantRecord) Gender() Gender                     { return r.gender }
func (r ApplicantRecord) Dependents() Dependents             { return r.dependents }
func (r ApplicantRecord) Education() Education               { return r.education }
func (r ApplicantRecord) PropertyArea() PropertyArea         { return r.propertyArea }
func (r ApplicantRecord) LoanTerm() LoanTerm                 { return r.loanTerm }
func (r ApplicantRecord) CreditHistory() CreditHistory       { return r.creditHistory }
func (r ApplicantRecord) Married() bool                      { return r.married }
func (r ApplicantRecord) SelfEmployed() bool                 { return r.selfEmployed }
