package presenter

import (
	"fmt"

	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

type catalog struct {
	approvedTitle    string
	rejectedTitle    string
	reviewTitle      string
	unavailableTitle string
	failedTitle      string

	probability string
	review      string
	unavailable string
	failed      string

	highDebt     string
	lowIncome    string
	lowScore     string
	declined     string
	rejectedElse string

	form FormText
}

var catalogs = map[Locale]*catalog{
	LocaleEN: {
		approvedTitle:    "THE LOAN HAS BEEN APPROVED",
		rejectedTitle:    "THE LOAN HAS BEEN REJECTED",
		reviewTitle:      "THE APPLICATION NEEDS MANUAL REVIEW",
		unavailableTitle: "THE MODEL IS NOT AVAILABLE",
		failedTitle:      "THE APPLICATION COULD NOT BE ANALYZED",

		probability: "Approval probability: %s.",
		review:      "The model is not confident enough to decide (approval probability %s). An analyst will review the application.",
		unavailable: "Decisions are suspended until the scoring model is restored.",
		failed:      "The scoring model failed. Please try again later.",

		highDebt:     "The requested amount is too high for the declared income.",
		lowIncome:    "The combined income is below the required minimum.",
		lowScore:     "The risk model scored the application too low (approval probability %s).",
		declined:     "The risk model did not approve the application.",
		rejectedElse: "The application does not meet the lending policy.",

		form: FormText{
			Title:             "Loan Approval Prediction System",
			Analyze:           "Analyze Application",
			Result:            "Analysis Result",
			Invalid:           "PLEASE REVIEW THE APPLICATION",
			Gender:            "Gender",
			Married:           "Married?",
			Dependents:        "Dependents",
			Education:         "Education Level",
			SelfEmployed:      "Self-Employed",
			ApplicantIncome:   "Applicant Income ($)",
			CoapplicantIncome: "Co-applicant Income ($)",
			LoanAmount:        "Loan Amount (in thousands of dollars)",
			LoanTerm:          "Loan Term",
			PropertyArea:      "Property Area",
			CreditHistory:     "Credit History",
			Yes:               "Yes",
			No:                "No",
			Genders:           []string{"Male", "Female"},
			Educations:        []string{"Graduate", "Not Graduate"},
			PropertyAreas:     []string{"Urban", "Rural", "Semiurban"},
			LoanTerms:         []string{"Short Term", "Medium Term", "Long Term"},
			CreditHistories:   []string{"Good history", "Poor history"},
		},
	},
	LocaleES: {
		approvedTitle:    "EL PRÉSTAMO HA SIDO APROBADO",
		rejectedTitle:    "EL PRÉSTAMO HA SIDO RECHAZADO",
		reviewTitle:      "LA SOLICITUD REQUIERE REVISIÓN MANUAL",
		unavailableTitle: "EL MODELO NO ESTÁ DISPONIBLE",
		failedTitle:      "NO SE PUDO ANALIZAR LA SOLICITUD",

		probability: "Probabilidad de aprobación: %s.",
		review:      "El modelo no tiene confianza suficiente para decidir (probabilidad de aprobación %s). Un analista revisará la solicitud.",
		unavailable: "Las decisiones están suspendidas hasta que se restablezca el modelo.",
		failed:      "El modelo de evaluación falló. Inténtelo de nuevo más tarde.",

		highDebt:     "El monto solicitado es demasiado alto para los ingresos declarados.",
		lowIncome:    "Los ingresos combinados están por debajo del mínimo requerido.",
		lowScore:     "El modelo de riesgo puntuó la solicitud demasiado bajo (probabilidad de aprobación %s).",
		declined:     "El modelo de riesgo no aprobó la solicitud.",
		rejectedElse: "La solicitud no cumple la política de préstamos.",

		form: FormText{
			Title:             "Sistema de Predicción de Aprobación de Préstamos",
			Analyze:           "Analizar Solicitud",
			Result:            "Resultado del Análisis",
			Invalid:           "REVISE LA SOLICITUD",
			Gender:            "Género",
			Married:           "¿Casado?",
			Dependents:        "Personas a cargo",
			Education:         "Nivel Educativo",
			SelfEmployed:      "Autónomo",
			ApplicantIncome:   "Ingreso del Solicitante ($)",
			CoapplicantIncome: "Ingreso del Co-solicitante ($)",
			LoanAmount:        "Monto del Préstamo (en miles de dólares)",
			LoanTerm:          "Plazo del Préstamo",
			PropertyArea:      "Zona de Propiedad",
			CreditHistory:     "Historial Crediticio",
			Yes:               "Sí",
			No:                "No",
			Genders:           []string{"Masculino", "Femenino"},
			Educations:        []string{"Graduado", "No Graduado"},
			PropertyAreas:     []string{"Urbana", "Rural", "Semiurbana"},
			LoanTerms:         []string{"Corto Plazo", "Medio Plazo", "Largo Plazo"},
			CreditHistories:   []string{"Buen historial", "Mal historial"},
		},
	},
}

func (c *catalog) rejection(r valueobject.Rejected) string {
	switch {
	case r.Reason.Equal(valueobject.ReasonHighDebtRatio):
		return c.highDebt
	case r.Reason.Equal(valueobject.ReasonInsufficientIncome):
		return c.lowIncome
	case r.Reason.Equal(valueobject.ReasonLowModelScore):
		return fmt.Sprintf(c.lowScore, percent(r.Confidence))
	case r.Reason.Equal(valueobject.ReasonModelDeclined):
		return c.declined
	default:
		return c.rejectedElse
	}
}

// FormText holds the localised labels of the application form. The option
// slices follow the order of the domain enumerations.
type FormText struct {
	Title             string
	Analyze           string
	Result            string
	Invalid           string
	Gender            string
	Married           string
	Dependents        string
	Education         string
	SelfEmployed      string
	ApplicantIncome   string
	CoapplicantIncome string
	LoanAmount        string
	LoanTerm          string
	PropertyArea      string
	CreditHistory     string
	Yes               string
	No                string
	Genders           []string
	Educations        []string
	PropertyAreas     []string
	LoanTerms         []string
	CreditHistories   []string
}

// Form returns the form text for loc.
func Form(loc Locale) FormText {
	c := catalogs[loc]
	if c == nil {
		c = catalogs[LocaleEN]
	}
	return c.form
}
