package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/service"
	"github.com/bibbank/loan-decision/internal/domain/valueobject"
)

const tracerName = "github.com/bibbank/loan-decision/internal/application/usecase"

// MessageModelUnavailable is the Failed message produced in degraded mode.
var MessageModelUnavailable = port.ErrModelUnavailable.Error()

// EvaluateApplication is the use case for deciding a single loan application.
type EvaluateApplication struct {
	policy   service.Policy
	provider port.ModelProvider
	observer port.DecisionObserver
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEvaluateApplication creates a new EvaluateApplication use case.
// observer may be nil.
func NewEvaluateApplication(
	policy service.Policy,
	provider port.ModelProvider,
	observer port.DecisionObserver,
	logger *slog.Logger,
) *EvaluateApplication {
	return &EvaluateApplication{
		policy:   policy,
		provider: provider,
		observer: observer,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Execute validates the request and returns the policy verdict. Invalid
// input is returned as an error wrapping model.ErrInvalidApplicant; every
// other outcome, including a classifier failure, is a verdict.
func (uc *EvaluateApplication) Execute(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "EvaluateApplication",
		trace.WithAttributes(attribute.String("loan.policy", uc.policy.Name())))
	defer span.End()
	started := uc.now()

	// 1. Validate and build the immutable record.
	record, err := uc.buildRecord(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid application")
		return dto.EvaluationResponse{}, err
	}
	derived := model.Derive(record)

	// 2. Resolve the model. Degraded mode ends here without consulting rules.
	clf, err := uc.provider.Classifier()
	var (
		verdict   valueobject.Verdict
		modelName string
	)
	if err != nil {
		if !errors.Is(err, port.ErrModelUnavailable) {
			uc.logger.WarnContext(ctx, "model provider failed", "error", err)
		}
		verdict = valueobject.Failed{Message: MessageModelUnavailable}
	} else {
		modelName = clf.Name()
		// 3. Run the decision policy.
		verdict = uc.policy.Evaluate(ctx, record, clf)
	}

	elapsed := uc.now().Sub(started)
	if uc.observer != nil {
		uc.observer.Observe(ctx, uc.policy.Name(), verdict, elapsed)
	}

	resp := dto.FromVerdict(uc.policy.Name(), modelName, derived, verdict, uc.now().UTC())
	span.SetAttributes(
		attribute.String("loan.decision_id", resp.ID.String()),
		attribute.String("loan.outcome", resp.Outcome),
		attribute.String("loan.reason", resp.Reason),
	)
	if _, failed := verdict.(valueobject.Failed); failed {
		span.SetStatus(codes.Error, resp.Detail)
	}

	uc.logger.InfoContext(ctx, "loan application evaluated",
		"decision_id", resp.ID,
		"policy", resp.Policy,
		"outcome", resp.Outcome,
		"reason", resp.Reason,
		"debt_income_ratio", resp.DebtIncomeRatio,
		"elapsed", elapsed,
	)

	return resp, nil
}

func (uc *EvaluateApplication) buildRecord(req dto.EvaluateApplicationRequest) (model.ApplicantRecord, error) {
	if err := req.Validate(); err != nil {
		return model.ApplicantRecord{}, err
	}
	in, err := req.ToInput()
	if err != nil {
		return model.ApplicantRecord{}, err
	}
	record, err := model.NewApplicantRecord(in)
	if err != nil {
		return model.ApplicantRecord{}, err
	}
	if err := uc.policy.Check(record); err != nil {
		return model.ApplicantRecord{}, fmt.Errorf("%s policy: %w", uc.policy.Name(), err)
	}
	return record, nil
}
