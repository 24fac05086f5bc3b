package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/service"
)

// ErrInvalidArtifact is returned when a model file cannot be used.
var ErrInvalidArtifact = errors.New("invalid model artifact")

const defaultLabelThreshold = 0.5

var numericColumns = map[string]bool{
	model.ColumnApplicantIncome:   true,
	model.ColumnCoapplicantIncome: true,
	model.ColumnLoanAmount:        true,
	model.ColumnLoanAmountTerm:    true,
	model.ColumnCreditHistory:     true,
	model.ColumnTotalIncome:       true,
	model.ColumnDebtIncomeRatio:   true,
}

var categoricalColumns = map[string]bool{
	model.ColumnGender:       true,
	model.ColumnMarried:      true,
	model.ColumnDependents:   true,
	model.ColumnEducation:    true,
	model.ColumnSelfEmployed: true,
	model.ColumnPropertyArea: true,
}

// NumericWeight is the coefficient of one standardised numeric feature.
// A zero Scale means the feature is used unscaled.
type NumericWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
	Mean    float64 `json:"mean,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// CategoricalWeight holds the one-hot coefficients of a categorical
// feature. Levels absent from the map (the reference level, or values
// never seen in training) contribute nothing.
type CategoricalWeight struct {
	Levels  map[string]float64 `json:"levels"`
	Feature string             `json:"feature"`
}

// Artifact is the on-disk form of a trained logistic regression.
type Artifact struct {
	Name           string              `json:"name"`
	Numeric        []NumericWeight     `json:"numeric"`
	Categorical    []CategoricalWeight `json:"categorical"`
	Intercept      float64             `json:"intercept"`
	LabelThreshold float64             `json:"label_threshold,omitempty"`
}

// LogisticModel scores applications with sigmoid(w·x + b). It satisfies
// port.Classifier and is safe for concurrent use.
type LogisticModel struct {
	artifact Artifact
}

// NewLogisticModel validates the artifact and builds a model from it.
func NewLogisticModel(a Artifact) (*LogisticModel, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArtifact)
	}
	if len(a.Numeric) == 0 && len(a.Categorical) == 0 {
		return nil, fmt.Errorf("%w: %s has no features", ErrInvalidArtifact, a.Name)
	}
	if !finite(a.Intercept) {
		return nil, fmt.Errorf("%w: %s intercept is not finite", ErrInvalidArtifact, a.Name)
	}
	if a.LabelThreshold == 0 {
		a.LabelThreshold = defaultLabelThreshold
	}
	if a.LabelThreshold <= 0 || a.LabelThreshold >= 1 {
		return nil, fmt.Errorf("%w: label threshold %g outside (0,1)", ErrInvalidArtifact, a.LabelThreshold)
	}

	seen := make(map[string]bool)
	for _, n := range a.Numeric {
		if !numericColumns[n.Feature] {
			return nil, fmt.Errorf("%w: unknown numeric feature %q", ErrInvalidArtifact, n.Feature)
		}
		if seen[n.Feature] {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, n.Feature)
		}
		if !finite(n.Weight) || !finite(n.Mean) || !finite(n.Scale) || n.Scale < 0 {
			return nil, fmt.Errorf("%w: bad coefficients for %q", ErrInvalidArtifact, n.Feature)
		}
		seen[n.Feature] = true
	}
	for _, c := range a.Categorical {
		if !categoricalColumns[c.Feature] {
			return nil, fmt.Errorf("%w: unknown categorical feature %q", ErrInvalidArtifact, c.Feature)
		}
		if seen[c.Feature] {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, c.Feature)
		}
		for level, w := range c.Levels {
			if !finite(w) {
				return nil, fmt.Errorf("%w: bad coefficient for %s=%s", ErrInvalidArtifact, c.Feature, level)
			}
		}
		seen[c.Feature] = true
	}

	return &LogisticModel{artifact: a}, nil
}

// LoadModel reads and validates a JSON artifact from path.
func LoadModel(path string) (*LogisticModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	return NewLogisticModel(a)
}

// policyFeatures lists the numeric features an artifact must weight before
// it can serve a policy.
var policyFeatures = map[string][]string{
	service.PolicySimple: {model.ColumnCreditHistory},
}

// LoadPolicyModel loads the artifact at path and checks that it was trained
// on the features policy depends on.
func LoadPolicyModel(path, policy string) (*LogisticModel, error) {
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	for _, feature := range policyFeatures[policy] {
		if !m.Weights(feature) {
			return nil, fmt.Errorf("%w: %s has no %s weight, required by the %s policy",
				ErrInvalidArtifact, m.Name(), feature, policy)
		}
	}
	return m, nil
}

// Weights reports whether the artifact has a numeric coefficient for feature.
func (m *LogisticModel) Weights(feature string) bool {
	for _, n := range m.artifact.Numeric {
		if n.Feature == feature {
			return true
		}
	}
	return false
}

// Name returns the artifact name.
func (m *LogisticModel) Name() string { return m.artifact.Name }

// LabelThreshold returns the probability at which Predict answers 1.
func (m *LogisticModel) LabelThreshold() float64 { return m.artifact.LabelThreshold }

// Score returns the approval probability for a derived record.
func (m *LogisticModel) Score(ctx context.Context, record model.DerivedRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.probability(record.Features()), nil
}

// Predict thresholds the approval probability into a 0/1 label.
func (m *LogisticModel) Predict(ctx context.Context, record model.ApplicantRecord) (int, error) {
	p, err := m.Score(ctx, model.Derive(record))
	if err != nil {
		return 0, err
	}
	if p >= m.artifact.LabelThreshold {
		return 1, nil
	}
	return 0, nil
}

func (m *LogisticModel) probability(f model.Features) float64 {
	size := len(m.artifact.Numeric) + len(m.artifact.Categorical)
	w := make([]float64, 0, size)
	x := make([]float64, 0, size)

	for _, n := range m.artifact.Numeric {
		v, ok := f.Numeric[n.Feature]
		if !ok {
			// Missing values are imputed with the training mean.
			v = n.Mean
		}
		v -= n.Mean
		if n.Scale > 0 {
			v /= n.Scale
		}
		w = append(w, n.Weight)
		x = append(x, v)
	}
	for _, c := range m.artifact.Categorical {
		w = append(w, c.Levels[f.Categorical[c.Feature]])
		x = append(x, 1)
	}

	return sigmoid(floats.Dot(w, x) + m.artifact.Intercept)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
