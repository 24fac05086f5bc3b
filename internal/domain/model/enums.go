package model

import (
	"fmt"
	"strings"
)

// Gender of the primary applicant.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender reconstructs a Gender from a form label.
func ParseGender(s string) (Gender, error) {
	switch normalize(s) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: invalid gender %q", ErrInvalidApplicant, s)
	}
}

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Dependents is the bucketed number of people the applicant supports.
type Dependents string

const (
	DependentsNone      Dependents = "0"
	DependentsOne       Dependents = "1"
	DependentsTwo       Dependents = "2"
	DependentsThreePlus Dependents = "3+"
)

// ParseDependents reconstructs a Dependents bucket from a form label.
func ParseDependents(s string) (Dependents, error) {
	d := Dependents(strings.TrimSpace(s))
	if !d.Valid() {
		return "", fmt.Errorf("%w: invalid dependents %q", ErrInvalidApplicant, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four buckets.
func (d Dependents) Valid() bool {
	switch d {
	case DependentsNone, DependentsOne, DependentsTwo, DependentsThreePlus:
		return true
	}
	return false
}

// Education level of the applicant.
type Education string

const (
	EducationGraduate    Education = "Graduate"
	EducationNotGraduate Education = "Not Graduate"
)

// ParseEducation reconstructs an Education from a form label.
func ParseEducation(s string) (Education, error) {
	switch normalize(s) {
	case "graduate":
		return EducationGraduate, nil
	case "not graduate", "notgraduate", "not_graduate":
		return EducationNotGraduate, nil
	default:
		return "", fmt.Errorf("%w: invalid education %q", ErrInvalidApplicant, s)
	}
}

// Valid reports whether e is a known education level.
func (e Education) Valid() bool {
	return e == EducationGraduate || e == EducationNotGraduate
}

// PropertyArea is the location class of the financed property.
type PropertyArea string

const (
	PropertyAreaUrban     PropertyArea = "Urban"
	PropertyAreaRural     PropertyArea = "Rural"
	PropertyAreaSemiurban PropertyArea = "Semiurban"
)

// ParsePropertyArea reconstructs a PropertyArea from a form label.
func ParsePropertyArea(s string) (PropertyArea, error) {
	switch normalize(s) {
	case "urban":
		return PropertyAreaUrban, nil
	case "rural":
		return PropertyAreaRural, nil
	case "semiurban":
		return PropertyAreaSemiurban, nil
	default:
		return "", fmt.Errorf("%w: invalid property area %q", ErrInvalidApplicant, s)
	}
}

// Valid reports whether p is a known property area.
func (p PropertyArea) Valid() bool {
	switch p {
	case PropertyAreaUrban, PropertyAreaRural, PropertyAreaSemiurban:
		return true
	}
	return false
}

// LoanTerm is the requested repayment horizon, encoded ordinally for the model.
type LoanTerm int

const (
	LoanTermShort LoanTerm = iota
	LoanTermMedium
	LoanTermLong
)

// ParseLoanTerm accepts the term labels of both form variants as well as the
// bare ordinal.
func ParseLoanTerm(s string) (LoanTerm, error) {
	switch normalize(s) {
	case "short", "short term", "corto plazo", "0":
		return LoanTermShort, nil
	case "medium", "medium term", "medio plazo", "1":
		return LoanTermMedium, nil
	case "long", "long term", "largo plazo", "2":
		return LoanTermLong, nil
	default:
		return 0, fmt.Errorf("%w: invalid loan term %q", ErrInvalidApplicant, s)
	}
}

// Ordinal returns the 0/1/2 encoding the classifier was trained on.
func (t LoanTerm) Ordinal() int {
	return int(t)
}

// Valid reports whether t is a known term.
func (t LoanTerm) Valid() bool {
	return t >= LoanTermShort && t <= LoanTermLong
}

func (t LoanTerm) String() string {
	switch t {
	case LoanTermShort:
		return "Short"
	case LoanTermMedium:
		return "Medium"
	case LoanTermLong:
		return "Long"
	default:
		return fmt.Sprintf("LoanTerm(%d)", int(t))
	}
}

// CreditHistory is the applicant's repayment track record. It is optional:
// only the label-based policy consumes it.
type CreditHistory int

const (
	CreditHistoryUnknown CreditHistory = iota
	CreditHistoryGood
	CreditHistoryPoor
)

// ParseCreditHistory accepts the history labels of both form variants. An
// empty label yields CreditHistoryUnknown.
func ParseCreditHistory(s string) (CreditHistory, error) {
	switch normalize(s) {
	case "":
		return CreditHistoryUnknown, nil
	case "good", "good history", "buen historial", "1", "1.0":
		return CreditHistoryGood, nil
	case "poor", "poor history", "mal historial", "0", "0.0":
		return CreditHistoryPoor, nil
	default:
		return CreditHistoryUnknown, fmt.Errorf("%w: invalid credit history %q", ErrInvalidApplicant, s)
	}
}

// Known reports whether a credit history was supplied.
func (c CreditHistory) Known() bool {
	return c == CreditHistoryGood || c == CreditHistoryPoor
}

// Value returns the 1.0/0.0 encoding used by the model. Unknown maps to 0.
func (c CreditHistory) Value() float64 {
	if c == CreditHistoryGood {
		return 1.0
	}
	return 0.0
}

func (c CreditHistory) String() string {
	switch c {
	case CreditHistoryGood:
		return "Good"
	case CreditHistoryPoor:
		return "Poor"
	default:
		return ""
	}
}

// ParseFlag reads a Yes/No form answer. Booleans are accepted too.
func ParseFlag(s string) (bool, error) {
	switch normalize(s) {
	case "yes", "y", "si", "sí", "true", "1":
		return true, nil
	case "no", "n", "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: invalid yes/no answer %q", ErrInvalidApplicant, s)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
