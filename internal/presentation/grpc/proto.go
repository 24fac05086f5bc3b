package grpc

// proto.go is the hand-maintained equivalent of the generated bindings for
// bib.loan.v1.DecisionService. Messages travel with the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "bib.loan.v1.DecisionService"

// Full method names, usable in interceptor skip lists.
const (
	MethodEvaluateApplication = "/" + serviceName + "/EvaluateApplication"
	MethodGetModelStatus      = "/" + serviceName + "/GetModelStatus"
)

// DecisionServiceServer is the server API for DecisionService.
type DecisionServiceServer interface {
	EvaluateApplication(context.Context, *EvaluateApplicationRequest) (*EvaluateApplicationResponse, error)
	GetModelStatus(context.Context, *GetModelStatusRequest) (*GetModelStatusResponse, error)
	mustEmbedUnimplementedDecisionServiceServer()
}

// UnimplementedDecisionServiceServer provides forward-compatible default implementations.
type UnimplementedDecisionServiceServer struct{}

func (UnimplementedDecisionServiceServer) EvaluateApplication(context.Context, *EvaluateApplicationRequest) (*EvaluateApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateApplication not implemented")
}
func (UnimplementedDecisionServiceServer) GetModelStatus(context.Context, *GetModelStatusRequest) (*GetModelStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetModelStatus not implemented")
}
func (UnimplementedDecisionServiceServer) mustEmbedUnimplementedDecisionServiceServer() {}

// RegisterDecisionServiceServer registers srv with the gRPC server.
func RegisterDecisionServiceServer(s grpclib.ServiceRegistrar, srv DecisionServiceServer) {
	s.RegisterService(&decisionServiceDesc, srv)
}

var decisionServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DecisionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateApplication", Handler: evaluateApplicationHandler},
		{MethodName: "GetModelStatus", Handler: getModelStatusHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/loan/v1/decision.proto",
}

func evaluateApplicationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(EvaluateApplicationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DecisionServiceServer).EvaluateApplication(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodEvaluateApplication}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DecisionServiceServer).EvaluateApplication(ctx, req.(*EvaluateApplicationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getModelStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetModelStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DecisionServiceServer).GetModelStatus(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetModelStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DecisionServiceServer).GetModelStatus(ctx, req.(*GetModelStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// DecisionServiceClient is the client API for DecisionService.
type DecisionServiceClient interface {
	EvaluateApplication(ctx context.Context, in *EvaluateApplicationRequest, opts ...grpclib.CallOption) (*EvaluateApplicationResponse, error)
	GetModelStatus(ctx context.Context, in *GetModelStatusRequest, opts ...grpclib.CallOption) (*GetModelStatusResponse, error)
}

type decisionServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewDecisionServiceClient returns a client that always selects the JSON codec.
func NewDecisionServiceClient(cc grpclib.ClientConnInterface) DecisionServiceClient {
	return &decisionServiceClient{cc: cc}
}

func (c *decisionServiceClient) EvaluateApplication(ctx context.Context, in *EvaluateApplicationRequest, opts ...grpclib.CallOption) (*EvaluateApplicationResponse, error) {
	out := new(EvaluateApplicationResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodEvaluateApplication, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *decisionServiceClient) GetModelStatus(ctx context.Context, in *GetModelStatusRequest, opts ...grpclib.CallOption) (*GetModelStatusResponse, error) {
	out := new(GetModelStatusResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodGetModelStatus, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// EvaluateApplicationRequest represents the proto EvaluateApplicationRequest
// message. Amounts are decimal strings.
type EvaluateApplicationRequest struct {
	ApplicantIncome   string `json:"applicant_income"`
	CoapplicantIncome string `json:"coapplicant_income"`
	LoanAmount        string `json:"loan_amount"`
	Gender            string `json:"gender"`
	Married           string `json:"married"`
	Dependents        string `json:"dependents"`
	Education         string `json:"education"`
	SelfEmployed      string `json:"self_employed"`
	LoanTerm          string `json:"loan_term"`
	PropertyArea      string `json:"property_area"`
	CreditHistory     string `json:"credit_history"`
	Locale            string `json:"locale"`
}

// BannerMsg represents the proto Banner message.
type BannerMsg struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message,omitempty"`
}

// DecisionMsg represents the proto Decision message.
type DecisionMsg struct {
	Banner          *BannerMsg `json:"banner"`
	Confidence      *float64   `json:"confidence,omitempty"`
	ID              string     `json:"id"`
	Policy          string     `json:"policy"`
	Model           string     `json:"model,omitempty"`
	Outcome         string     `json:"outcome"`
	Reason          string     `json:"reason,omitempty"`
	Detail          string     `json:"detail,omitempty"`
	TotalIncome     string     `json:"total_income"`
	DebtIncomeRatio string     `json:"debt_income_ratio"`
	EvaluatedAt     string     `json:"evaluated_at"`
}

// EvaluateApplicationResponse represents the proto EvaluateApplicationResponse message.
type EvaluateApplicationResponse struct {
	Decision *DecisionMsg `json:"decision"`
}

// GetModelStatusRequest represents the proto GetModelStatusRequest message.
type GetModelStatusRequest struct{}

// ThresholdsMsg represents the proto Thresholds message.
type ThresholdsMsg struct {
	MaxDebtIncomeRatio string  `json:"max_debt_income_ratio"`
	MinTotalIncome     string  `json:"min_total_income"`
	ApproveAt          float64 `json:"approve_at"`
	RejectBelow        float64 `json:"reject_below"`
}

// GetModelStatusResponse represents the proto GetModelStatusResponse message.
type GetModelStatusResponse struct {
	Thresholds *ThresholdsMsg `json:"thresholds,omitempty"`
	Policy     string         `json:"policy"`
	Model      string         `json:"model,omitempty"`
	Error      string         `json:"error,omitempty"`
	Available  bool           `json:"available"`
}
