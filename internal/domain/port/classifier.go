package port

import (
	"context"
	"errors"
	"time"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

// ErrModelUnavailable is returned by a ModelProvider whose artifact failed to load.
var ErrModelUnavailable = errors.New("model unavailable")

// ProbabilityScorer returns the class-1 (approve) probability for a derived record.
type ProbabilityScorer interface {
	Score(ctx context.Context, record model.DerivedRecord) (float64, error)
}

// LabelPredictor returns the binary approve (1) / reject (0) label for a record.
type LabelPredictor interface {
	Predict(ctx context.Context, record model.ApplicantRecord) (int, error)
}

// Classifier is a loaded model able to serve both decision policies.
type Classifier interface {
	ProbabilityScorer
	LabelPredictor
	// Name identifies the loaded artifact, e.g. "hybrid-logit-v3".
	Name() string
}

// ModelProvider hands out the process-wide classifier. It returns
// ErrModelUnavailable when the service is running without a model.
type ModelProvider interface {
	Classifier() (Classifier, error)
}

// ScoreCache memoises model probabilities keyed by a feature fingerprint.
type ScoreCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, probability float64) error
}

// DecisionObserver is notified once per evaluated application.
type DecisionObserver interface {
	Observe(ctx context.Context, policy string, verdict valueobject.Verdict, elapsed time.Duration)
}
