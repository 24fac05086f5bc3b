package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/presentation/presenter"
	"github.com/bibbank/loan-decision/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return nil
}

// Compile-time assertion that Handler implements DecisionServiceServer.
var _ DecisionServiceServer = (*Handler)(nil)

// Handler implements the DecisionServiceServer gRPC interface.
type Handler struct {
	UnimplementedDecisionServiceServer
	evaluate    *usecase.EvaluateApplication
	describe    *usecase.DescribeModel
	logger      *slog.Logger
	authEnabled bool
}

// NewHandler creates a new gRPC Handler. With authEnabled every call needs
// claims carrying a suitable role.
func NewHandler(
	evaluate *usecase.EvaluateApplication,
	describe *usecase.DescribeModel,
	authEnabled bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		evaluate:    evaluate,
		describe:    describe,
		authEnabled: authEnabled,
		logger:      logger,
	}
}

// EvaluateApplication decides a single application.
func (h *Handler) EvaluateApplication(ctx context.Context, req *EvaluateApplicationRequest) (*EvaluateApplicationResponse, error) {
	if h.authEnabled {
		if err := requireRole(ctx, auth.EvaluatorRoles...); err != nil {
			return nil, err
		}
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	dtoReq, err := toDTO(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := h.evaluate.Execute(ctx, dtoReq)
	if err != nil {
		if errors.Is(err, model.ErrInvalidApplicant) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("EvaluateApplication failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	banner := presenter.Present(resp.Verdict, presenter.ParseLocale(req.Locale))
	return &EvaluateApplicationResponse{
		Decision: &DecisionMsg{
			Banner: &BannerMsg{
				Severity: string(banner.Severity),
				Title:    banner.Title,
				Message:  banner.Message,
			},
			Confidence:      resp.Confidence,
			ID:              resp.ID.String(),
			Policy:          resp.Policy,
			Model:           resp.Model,
			Outcome:         resp.Outcome,
			Reason:          resp.Reason,
			Detail:          resp.Detail,
			TotalIncome:     resp.TotalIncome,
			DebtIncomeRatio: resp.DebtIncomeRatio,
			EvaluatedAt:     resp.EvaluatedAt.Format(time.RFC3339Nano),
		},
	}, nil
}

// GetModelStatus reports model availability and the active thresholds.
func (h *Handler) GetModelStatus(ctx context.Context, _ *GetModelStatusRequest) (*GetModelStatusResponse, error) {
	if h.authEnabled {
		if err := requireRole(ctx, auth.ReaderRoles...); err != nil {
			return nil, err
		}
	}

	st := h.describe.Execute(ctx)
	out := &GetModelStatusResponse{
		Policy:    st.Policy,
		Model:     st.Model,
		Error:     st.Error,
		Available: st.Available,
	}
	if t := st.Thresholds; t != nil {
		out.Thresholds = &ThresholdsMsg{
			MaxDebtIncomeRatio: t.MaxDebtIncomeRatio,
			MinTotalIncome:     t.MinTotalIncome,
			ApproveAt:          t.ApproveAt,
			RejectBelow:        t.RejectBelow,
		}
	}
	return out, nil
}

func toDTO(req *EvaluateApplicationRequest) (dto.EvaluateApplicationRequest, error) {
	out := dto.EvaluateApplicationRequest{
		Gender:        req.Gender,
		Married:       req.Married,
		Dependents:    req.Dependents,
		Education:     req.Education,
		SelfEmployed:  req.SelfEmployed,
		LoanTerm:      req.LoanTerm,
		PropertyArea:  req.PropertyArea,
		CreditHistory: req.CreditHistory,
	}
	var err error
	if out.ApplicantIncome, err = parseAmount("applicant_income", req.ApplicantIncome); err != nil {
		return dto.EvaluateApplicationRequest{}, err
	}
	if out.CoapplicantIncome, err = parseAmount("coapplicant_income", req.CoapplicantIncome); err != nil {
		return dto.EvaluateApplicationRequest{}, err
	}
	if out.LoanAmount, err = parseAmount("loan_amount", req.LoanAmount); err != nil {
		return dto.EvaluateApplicationRequest{}, err
	}
	return out, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New(field + " must be a decimal string")
	}
	return d, nil
}
