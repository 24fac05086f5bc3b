package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

const meterName = "github.com/bibbank/loan-decision"

// DecisionMetrics records one set of measurements per evaluated
// application. It implements port.DecisionObserver.
type DecisionMetrics struct {
	decisions  metric.Int64Counter
	duration   metric.Float64Histogram
	confidence metric.Float64Histogram
}

// NewDecisionMetrics registers the decision instruments on provider.
func NewDecisionMetrics(provider metric.MeterProvider) (*DecisionMetrics, error) {
	meter := provider.Meter(meterName)

	decisions, err := meter.Int64Counter("loan_decisions_total",
		metric.WithDescription("Loan applications decided, by policy, outcome and rejection reason."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating decisions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("loan_decision_duration_seconds",
		metric.WithDescription("Time spent deciding a loan application."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	confidence, err := meter.Float64Histogram("loan_model_confidence",
		metric.WithDescription("Approval probability reported by the model for scored decisions."),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.45, 0.6, 0.7, 0.8, 0.9),
	)
	if err != nil {
		return nil, fmt.Errorf("creating confidence histogram: %w", err)
	}

	return &DecisionMetrics{
		decisions:  decisions,
		duration:   duration,
		confidence: confidence,
	}, nil
}

// Observe implements port.DecisionObserver.
func (m *DecisionMetrics) Observe(ctx context.Context, policy string, v valueobject.Verdict, elapsed time.Duration) {
	reason := valueobject.ReasonOf(v).String()
	if reason == "" {
		reason = "none"
	}
	attrs := metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.String("outcome", v.Outcome().String()),
		attribute.String("reason", reason),
	)

	m.decisions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("policy", policy)))
	if c, ok := valueobject.ConfidenceOf(v); ok {
		m.confidence.Record(ctx, c, metric.WithAttributes(attribute.String("policy", policy)))
	}
}
