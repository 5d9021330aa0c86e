package usecase

import (
	"context"
	"fmt"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

// SubmitLoanApplicationUseCase records a new application and scores it.
type SubmitLoanApplicationUseCase struct {
	appRepo   port.LoanApplicationRepository
	publisher port.EventPublisher
	clock     port.Clock
	metrics   port.LendingMetrics
	engine    *service.RiskEngine
}

// NewSubmitLoanApplicationUseCase wires dependencies.
func NewSubmitLoanApplicationUseCase(
	appRepo port.LoanApplicationRepository,
	publisher port.EventPublisher,
	clock port.Clock,
	metrics port.LendingMetrics,
	engine *service.RiskEngine,
) *SubmitLoanApplicationUseCase {
	return &SubmitLoanApplicationUseCase{
		appRepo:   appRepo,
		publisher: publisher,
		clock:     clock,
		metrics:   metrics,
		engine:    engine,
	}
}

// Execute creates, scores and persists a loan application. The requested
// amount is the loan amount that gets scored.
func (uc *SubmitLoanApplicationUseCase) Execute(
	ctx context.Context,
	req dto.SubmitApplicationRequest,
) (dto.LoanApplicationResponse, error) {
	now := uc.clock.Now()

	// 1. Validate inputs.
	currency, err := money.NewCurrency(req.Currency)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("parse currency: %w", err)
	}
	factorsReq := req.Factors
	factorsReq.LoanAmount = req.RequestedAmount
	factors, err := toRiskFactors(factorsReq)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("validate factors: %w", err)
	}

	// 2. Create the application aggregate.
	app, err := model.NewLoanApplication(
		req.TenantID, req.FarmerID, req.RequestedAmount,
		currency, req.TermMonths, req.Purpose, factors, now,
	)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	// 3. Score and move to review.
	assessment := uc.engine.Score(factors)
	app, err = app.RecordAssessment(assessment, now)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("record assessment: %w", err)
	}

	// 4. Persist.
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 5. Publish domain events.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	uc.metrics.RiskAssessed(ctx, assessment.Tier.String())

	return toApplicationResponse(app), nil
}
