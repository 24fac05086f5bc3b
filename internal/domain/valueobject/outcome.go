package valueobject

import "fmt"

// Outcome is an immutable value object naming which branch a decision ended in.
type Outcome struct {
	value string
}

var (
	OutcomeApproved     = Outcome{value: "APPROVED"}
	OutcomeRejected     = Outcome{value: "REJECTED"}
	OutcomeManualReview = Outcome{value: "MANUAL_REVIEW"}
	OutcomeError        = Outcome{value: "ERROR"}
)

// OutcomeFromString reconstructs an outcome from its string representation.
func OutcomeFromString(s string) (Outcome, error) {
	switch s {
	case "APPROVED":
		return OutcomeApproved, nil
	case "REJECTED":
		return OutcomeRejected, nil
	case "MANUAL_REVIEW":
		return OutcomeManualReview, nil
	case "ERROR":
		return OutcomeError, nil
	default:
		return Outcome{}, fmt.Errorf("invalid outcome: %s", s)
	}
}

// String returns the string representation.
func (o Outcome) String() string {
	return o.value
}

// IsZero returns true if the outcome has not been set.
func (o Outcome) IsZero() bool {
	return o.value == ""
}

// Equal checks equality with another Outcome.
func (o Outcome) Equal(other Outcome) bool {
	return o.value == other.value
}

// IsFinal reports whether the outcome settles the application without a human.
func (o Outcome) IsFinal() bool {
	return o.value == "APPROVED" || o.value == "REJECTED"
}

// RejectionReason names the rule or signal that rejected an application.
type RejectionReason struct {
	value string
}

var (
	ReasonHighDebtRatio      = RejectionReason{value: "HIGH_DEBT_RATIO"}
	ReasonInsufficientIncome = RejectionReason{value: "INSUFFICIENT_INCOME"}
	ReasonLowModelScore      = RejectionReason{value: "LOW_MODEL_SCORE"}
	// ReasonModelDeclined is used by the label-based policy, which has no
	// probability to report.
	ReasonModelDeclined = RejectionReason{value: "MODEL_DECLINED"}
)

// RejectionReasonFromString reconstructs a reason from its string representation.
func RejectionReasonFromString(s string) (RejectionReason, error) {
	switch s {
	case "HIGH_DEBT_RATIO":
		return ReasonHighDebtRatio, nil
	case "INSUFFICIENT_INCOME":
		return ReasonInsufficientIncome, nil
	case "LOW_MODEL_SCORE":
		return ReasonLowModelScore, nil
	case "MODEL_DECLINED":
		return ReasonModelDeclined, nil
	default:
		return RejectionReason{}, fmt.Errorf("invalid rejection reason: %s", s)
	}
}

// String returns the string representation.
func (r RejectionReason) String() string {
	return r.value
}

// IsZero returns true if the reason has not been set.
func (r RejectionReason) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RejectionReason.
func (r RejectionReason) Equal(other RejectionReason) bool {
	return r.value == other.value
}

// IsHardRule reports whether the reason comes from a deterministic policy
// rule rather than from the model.
func (r RejectionReason) IsHardRule() bool {
	return r.value == "HIGH_DEBT_RATIO" || r.value == "INSUFFICIENT_INCOME"
}
