package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

// ApproveLoanUseCase underwrites a reviewed application and, when approved,
// books the loan and its repayment schedule.
type ApproveLoanUseCase struct {
	appRepo     port.LoanApplicationRepository
	loanRepo    port.LoanRepository
	publisher   port.EventPublisher
	notifier    port.Notifier
	clock       port.Clock
	metrics     port.LendingMetrics
	underwriter *service.UnderwritingEngine
}

// NewApproveLoanUseCase wires dependencies.
func NewApproveLoanUseCase(
	appRepo port.LoanApplicationRepository,
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	notifier port.Notifier,
	clock port.Clock,
	metrics port.LendingMetrics,
	underwriter *service.UnderwritingEngine,
) *ApproveLoanUseCase {
	return &ApproveLoanUseCase{
		appRepo:     appRepo,
		loanRepo:    loanRepo,
		publisher:   publisher,
		notifier:    notifier,
		clock:       clock,
		metrics:     metrics,
		underwriter: underwriter,
	}
}

// Execute applies the underwriting decision to the application.
func (uc *ApproveLoanUseCase) Execute(
	ctx context.Context,
	req dto.ApproveLoanRequest,
) (dto.ApproveLoanResponse, error) {
	now := uc.clock.Now()

	// 1. Retrieve the application.
	app, err := uc.appRepo.FindByID(ctx, req.TenantID, req.ApplicationID)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("find application: %w", err)
	}

	// 2. Run underwriting engine.
	result := uc.underwriter.Evaluate(app.Assessment(), app.RequestedAmount(), app.TermMonths())

	if !result.Approved {
		return uc.reject(ctx, app, result.Reason, now)
	}

	// 3. Approve and book the loan.
	app, err = app.Approve(result.AnnualRatePercent, result.Reason, now)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("approve application: %w", err)
	}

	start := req.StartDate
	if start.IsZero() {
		start = now
	}
	terms, err := valueobject.NewLoanTerms(app.RequestedAmount(), result.AnnualRatePercent, app.TermMonths(), start)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("validate terms: %w", err)
	}

	loan, err := model.NewLoan(app.TenantID(), app.ID(), app.FarmerID(), terms, app.Currency(), now)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	app, err = app.MarkScheduled(loan.ID(), now)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("mark scheduled: %w", err)
	}

	// 4. Persist loan before the application that points at it.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 5. Publish events.
	evts := make([]event.DomainEvent, 0, len(app.DomainEvents())+len(loan.DomainEvents()))
	evts = append(evts, app.DomainEvents()...)
	evts = append(evts, loan.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	// 6. Notify the farmer.
	first := loan.Installments()[0]
	if err := uc.notifier.Notify(ctx, port.Notification{
		Kind:     port.NotificationScheduleCreated,
		LoanID:   loan.ID(),
		TenantID: loan.TenantID(),
		FarmerID: loan.FarmerID(),
		Amount:   first.Amount,
		Currency: loan.Currency().Code(),
		DueDate:  first.DueDate,
		Sequence: first.Sequence,
	}); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("notify farmer: %w", err)
	}

	uc.metrics.ScheduleCreated(ctx, terms.TermMonths())

	loanResp := toLoanResponse(loan)
	return dto.ApproveLoanResponse{
		Approved:    true,
		Application: toApplicationResponse(app),
		Loan:        &loanResp,
	}, nil
}

func (uc *ApproveLoanUseCase) reject(
	ctx context.Context,
	app model.LoanApplication,
	reason string,
	now time.Time,
) (dto.ApproveLoanResponse, error) {
	app, err := app.Reject(reason, now)
	if err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("reject application: %w", err)
	}
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("save application: %w", err)
	}
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		return dto.ApproveLoanResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return dto.ApproveLoanResponse{Application: toApplicationResponse(app)}, nil
}
