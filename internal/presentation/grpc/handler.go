package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

var errNilRequest = status.Error(codes.InvalidArgument, "request is required")

// UseCase is the shape shared by every application use case.
type UseCase[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// UseCases groups the use cases the handler dispatches to.
type UseCases struct {
	AssessRisk        UseCase[dto.AssessRiskRequest, dto.RiskAssessmentResponse]
	PreviewSchedule   UseCase[dto.PreviewScheduleRequest, dto.ScheduleResponse]
	SubmitApplication UseCase[dto.SubmitApplicationRequest, dto.LoanApplicationResponse]
	GetApplication    UseCase[dto.GetApplicationRequest, dto.LoanApplicationResponse]
	ApproveLoan       UseCase[dto.ApproveLoanRequest, dto.ApproveLoanResponse]
	GetLoan           UseCase[dto.GetLoanRequest, dto.LoanResponse]
	RecordRepayment   UseCase[dto.RecordRepaymentRequest, dto.RepaymentResponse]
	SweepOverdue      UseCase[dto.SweepOverdueRequest, dto.SweepOverdueResponse]
}

// LendingHandler implements LendingServiceServer on top of the use cases.
type LendingHandler struct {
	UnimplementedLendingServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewLendingHandler creates a new handler with all use-case dependencies.
func NewLendingHandler(uc UseCases, logger *slog.Logger) *LendingHandler {
	return &LendingHandler{uc: uc, logger: logger}
}

// AssessRisk scores a set of risk factors without persisting anything.
func (h *LendingHandler) AssessRisk(ctx context.Context, req *dto.AssessRiskRequest) (*dto.RiskAssessmentResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return invoke(ctx, h, h.uc.AssessRisk, req)
}

// PreviewSchedule amortizes loan terms without persisting anything.
func (h *LendingHandler) PreviewSchedule(ctx context.Context, req *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return invoke(ctx, h, h.uc.PreviewSchedule, req)
}

// SubmitApplication handles a new loan application submission.
func (h *LendingHandler) SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.LoanApplicationResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := required("tenant_id", req.TenantID, "farmer_id", req.FarmerID); err != nil {
		return nil, err
	}
	return invoke(ctx, h, h.uc.SubmitApplication, req)
}

// GetApplication retrieves a loan application by ID.
func (h *LendingHandler) GetApplication(ctx context.Context, req *dto.GetApplicationRequest) (*dto.LoanApplicationResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := required("tenant_id", req.TenantID); err != nil {
		return nil, err
	}
	if err := validUUID("application_id", req.ApplicationID); err != nil {
		return nil, err
	}
	return invoke(ctx, h, h.uc.GetApplication, req)
}

// ApproveLoan underwrites an application and, when approved, books the loan.
func (h *LendingHandler) ApproveLoan(ctx context.Context, req *dto.ApproveLoanRequest) (*dto.ApproveLoanResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := required("tenant_id", req.TenantID); err != nil {
		return nil, err
	}
	if err := validUUID("application_id", req.ApplicationID); err != nil {
		return nil, err
	}
	return invoke(ctx, h, h.uc.ApproveLoan, req)
}

// GetLoan retrieves a loan with its schedule.
func (h *LendingHandler) GetLoan(ctx context.Context, req *dto.GetLoanRequest) (*dto.LoanResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := required("tenant_id", req.TenantID); err != nil {
		return nil, err
	}
	if err := validUUID("loan_id", req.LoanID); err != nil {
		return nil, err
	}
	return invoke(ctx, h, h.uc.GetLoan, req)
}

// RecordRepayment settles one installment of a loan.
func (h *LendingHandler) RecordRepayment(ctx context.Context, req *dto.RecordRepaymentRequest) (*dto.RepaymentResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := required("tenant_id", req.TenantID, "payment_method", req.PaymentMethod); err != nil {
		return nil, err
	}
	if err := validUUID("loan_id", req.LoanID); err != nil {
		return nil, err
	}
	if req.Sequence <= 0 {
		return nil, status.Error(codes.InvalidArgument, "sequence must be positive")
	}
	return invoke(ctx, h, h.uc.RecordRepayment, req)
}

// SweepOverdue runs an on-demand overdue sweep.
func (h *LendingHandler) SweepOverdue(ctx context.Context, req *dto.SweepOverdueRequest) (*dto.SweepOverdueResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return invoke(ctx, h, h.uc.SweepOverdue, req)
}

func invoke[Req, Resp any](ctx context.Context, h *LendingHandler, uc UseCase[Req, Resp], req *Req) (*Resp, error) {
	if uc == nil {
		return nil, status.Error(codes.Unimplemented, "method not configured")
	}
	resp, err := uc.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// toStatus maps domain and application errors onto gRPC status codes.
func (h *LendingHandler) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, valueobject.ErrInvalidTerms),
		errors.Is(err, valueobject.ErrInvalidFactors),
		errors.Is(err, valueobject.ErrInvalidPaymentMethod),
		errors.Is(err, money.ErrInvalidCurrency):
		code = codes.InvalidArgument
	case errors.Is(err, port.ErrNotFound),
		errors.Is(err, valueobject.ErrInstallmentNotFound):
		code = codes.NotFound
	case errors.Is(err, valueobject.ErrInvalidStatusTransition),
		errors.Is(err, valueobject.ErrInstallmentAlreadyPaid):
		code = codes.FailedPrecondition
	case errors.Is(err, port.ErrConcurrentModification):
		code = codes.Aborted
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		h.logger.ErrorContext(ctx, "use case failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

// required expects name/value pairs and reports the first empty value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return status.Error(codes.InvalidArgument, fmt.Sprintf("%s is required", pairs[i]))
		}
	}
	return nil
}

func validUUID(name, value string) error {
	if value == "" {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s is required", name))
	}
	if _, err := uuid.Parse(value); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s must be a UUID", name))
	}
	return nil
}
