package model

import "github.com/shopspring/decimal"

// incomeSmoothing keeps the debt-to-income denominator at or above one so the
// ratio stays defined for applicants with no declared income.
var incomeSmoothing = decimal.NewFromInt(1)

// DerivedRecord is an ApplicantRecord plus the financial features computed from it.
type DerivedRecord struct {
	ApplicantRecord
	totalIncome     decimal.Decimal
	debtIncomeRatio decimal.Decimal
}

// Derive computes total income and the debt-to-income ratio:
//
//	totalIncome     = applicantIncome + coapplicantIncome
//	debtIncomeRatio = loanAmount / (totalIncome + 1)
//
// It performs no validation; records built through NewApplicantRecord already
// carry non-negative amounts.
func Derive(r ApplicantRecord) DerivedRecord {
	total := r.applicantIncome.Add(r.coapplicantIncome)
	return DerivedRecord{
		ApplicantRecord: r,
		totalIncome:     total,
		debtIncomeRatio: r.loanAmount.Div(total.Add(incomeSmoothing)),
	}
}

func (d DerivedRecord) TotalIncome() decimal.Decimal     { return d.totalIncome }
func (d DerivedRecord) DebtIncomeRatio() decimal.Decimal { return d.debtIncomeRatio }
