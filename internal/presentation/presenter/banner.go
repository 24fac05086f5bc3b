// Package presenter turns verdicts into user-facing copy. It is the only
// place where the meaning of a decision becomes text.
package presenter

import (
	"fmt"
	"strings"

	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

// Severity drives banner styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Locale selects the banner language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

// ParseLocale maps a language tag such as "es-MX", or the first entry of an
// Accept-Language header, to a supported locale. It falls back to English.
func ParseLocale(tag string) Locale {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(lang, "-_,;"); i >= 0 {
		lang = lang[:i]
	}
	if lang == string(LocaleES) {
		return LocaleES
	}
	return LocaleEN
}

// Banner is the rendered form of a verdict.
type Banner struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message,omitempty"`
}

// Present maps a verdict to a localised banner.
func Present(v valueobject.Verdict, loc Locale) Banner {
	c := catalogs[loc]
	if c == nil {
		c = catalogs[LocaleEN]
	}

	switch tv := v.(type) {
	case valueobject.Approved:
		b := Banner{Severity: SeveritySuccess, Title: c.approvedTitle}
		if tv.Scored {
			b.Message = fmt.Sprintf(c.probability, percent(tv.Confidence))
		}
		return b
	case valueobject.Rejected:
		return Banner{Severity: SeverityError, Title: c.rejectedTitle, Message: c.rejection(tv)}
	case valueobject.ManualReview:
		return Banner{
			Severity: SeverityInfo,
			Title:    c.reviewTitle,
			Message:  fmt.Sprintf(c.review, percent(tv.Confidence)),
		}
	case valueobject.Failed:
		if tv.Message == port.ErrModelUnavailable.Error() {
			return Banner{Severity: SeverityWarning, Title: c.unavailableTitle, Message: c.unavailable}
		}
		return Banner{Severity: SeverityWarning, Title: c.failedTitle, Message: c.failed}
	default:
		return Banner{Severity: SeverityWarning, Title: c.failedTitle, Message: c.failed}
	}
}

func percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}
