package valueobject

// Verdict is the result of evaluating one application. It is a closed set:
// Approved, Rejected, ManualReview or Failed.
type Verdict interface {
	Outcome() Outcome
	isVerdict()
}

// Approved means the application clears every rule and the model is confident.
// Label-only approvals carry no confidence and leave Scored false.
type Approved struct {
	Confidence float64
	Scored     bool
}

// Rejected means a hard rule fired or the model scored the application too low.
// Confidence is only meaningful when Scored is true.
type Rejected struct {
	Reason     RejectionReason
	Detail     string
	Confidence float64
	Scored     bool
}

// ManualReview defers an ambiguous model score to a human analyst.
type ManualReview struct {
	Confidence float64
}

// Failed means no decision could be made for this submission.
type Failed struct {
	Message string
}

func (Approved) Outcome() Outcome     { return OutcomeApproved }
func (Rejected) Outcome() Outcome     { return OutcomeRejected }
func (ManualReview) Outcome() Outcome { return OutcomeManualReview }
func (Failed) Outcome() Outcome       { return OutcomeError }

func (Approved) isVerdict()     {}
func (Rejected) isVerdict()     {}
func (ManualReview) isVerdict() {}
func (Failed) isVerdict()       {}

// ConfidenceOf returns the model confidence attached to v, if any.
func ConfidenceOf(v Verdict) (float64, bool) {
	switch v := v.(type) {
	case Approved:
		return v.Confidence, v.Scored
	case ManualReview:
		return v.Confidence, true
	case Rejected:
		return v.Confidence, v.Scored
	default:
		return 0, false
	}
}

// ReasonOf returns the rejection reason of v, or the zero reason.
func ReasonOf(v Verdict) RejectionReason {
	if r, ok := v.(Rejected); ok {
		return r.Reason
	}
	return RejectionReason{}
}
