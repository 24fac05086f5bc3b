package model

// Feature columns, named after the training frame the classifiers were fitted on.
const (
	ColumnApplicantIncome   = "ApplicantIncome"
	ColumnCoapplicantIncome = "CoapplicantIncome"
	ColumnLoanAmount        = "LoanAmount"
	ColumnLoanAmountTerm    = "Loan_Amount_Term"
	ColumnCreditHistory     = "Credit_History"
	ColumnTotalIncome       = "TotalIncome"
	ColumnDebtIncomeRatio   = "DebtIncomeRatio"

	ColumnGender       = "Gender"
	ColumnMarried      = "Married"
	ColumnDependents   = "Dependents"
	ColumnEducation    = "Education"
	ColumnSelfEmployed = "Self_Employed"
	ColumnPropertyArea = "Property_Area"
)

// Features is the model-facing view of a record: numeric columns as floats and
// categorical columns as their raw labels. How categorical labels are encoded
// is up to the model adapter.
type Features struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Features flattens the derived record into model columns. Credit history is
// only present when the applicant supplied it.
func (d DerivedRecord) Features() Features {
	numeric := map[string]float64{
		ColumnApplicantIncome:   d.applicantIncome.InexactFloat64(),
		ColumnCoapplicantIncome: d.coapplicantIncome.InexactFloat64(),
		ColumnLoanAmount:        d.loanAmount.InexactFloat64(),
		ColumnLoanAmountTerm:    float64(d.loanTerm.Ordinal()),
		ColumnTotalIncome:       d.totalIncome.InexactFloat64(),
		ColumnDebtIncomeRatio:   d.debtIncomeRatio.InexactFloat64(),
	}
	if d.creditHistory.Known() {
		numeric[ColumnCreditHistory] = d.creditHistory.Value()
	}

	return Features{
		Numeric: numeric,
		Categorical: map[string]string{
			ColumnGender:       string(d.gender),
			ColumnMarried:      yesNo(d.married),
			ColumnDependents:   string(d.dependents),
			ColumnEducation:    string(d.education),
			ColumnSelfEmployed: yesNo(d.selfEmployed),
			ColumnPropertyArea: string(d.propertyArea),
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
