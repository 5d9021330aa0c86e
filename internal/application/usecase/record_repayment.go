package usecase

import (
	"context"
	"fmt"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

// RecordRepaymentUseCase settles an installment of a loan.
type RecordRepaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	notifier  port.Notifier
	clock     port.Clock
	metrics   port.LendingMetrics
}

// NewRecordRepaymentUseCase wires dependencies.
func NewRecordRepaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	notifier port.Notifier,
	clock port.Clock,
	metrics port.LendingMetrics,
) *RecordRepaymentUseCase {
	return &RecordRepaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		notifier:  notifier,
		clock:     clock,
		metrics:   metrics,
	}
}

// Execute marks the requested installment PAID. A zero PaidAt means now.
func (uc *RecordRepaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordRepaymentRequest,
) (dto.RepaymentResponse, error) {
	method, err := valueobject.NewPaymentMethod(req.PaymentMethod)
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("parse payment method: %w", err)
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = uc.clock.Now()
	}

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Apply repayment.
	loan, paid, err := loan.RecordRepayment(req.Sequence, method, req.TransactionReference, paidAt)
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("record repayment: %w", err)
	}

	// 3. Persist updated loan.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	// 5. Notify the farmer.
	if err := uc.notifier.Notify(ctx, port.Notification{
		Kind:     port.NotificationPaymentRecorded,
		LoanID:   loan.ID(),
		TenantID: loan.TenantID(),
		FarmerID: loan.FarmerID(),
		Amount:   paid.Amount,
		Currency: loan.Currency().Code(),
		DueDate:  paid.DueDate,
		Sequence: paid.Sequence,
	}); err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("notify farmer: %w", err)
	}

	uc.metrics.RepaymentRecorded(ctx, method.String())

	return dto.RepaymentResponse{
		LoanID:      loan.ID(),
		LoanStatus:  loan.Status().String(),
		Installment: toInstallmentResponse(paid),
		Outstanding: loan.OutstandingAmount(),
		Currency:    loan.Currency().Code(),
	}, nil
}
