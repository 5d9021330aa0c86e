package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

// PreviewScheduleUseCase amortizes loan terms without persisting anything.
type PreviewScheduleUseCase struct {
	clock port.Clock
}

// NewPreviewScheduleUseCase wires dependencies.
func NewPreviewScheduleUseCase(clock port.Clock) *PreviewScheduleUseCase {
	return &PreviewScheduleUseCase{clock: clock}
}

// Execute returns the schedule the terms would produce. A zero start date
// means today.
func (uc *PreviewScheduleUseCase) Execute(
	_ context.Context,
	req dto.PreviewScheduleRequest,
) (dto.ScheduleResponse, error) {
	var currency money.Currency
	if req.Currency != "" {
		c, err := money.NewCurrency(req.Currency)
		if err != nil {
			return dto.ScheduleResponse{}, fmt.Errorf("parse currency: %w", err)
		}
		currency = c
	}

	start := req.StartDate
	if start.IsZero() {
		start = uc.clock.Now()
	}

	terms, err := valueobject.NewLoanTerms(req.Principal, req.AnnualRatePercent, req.TermMonths, start)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("validate terms: %w", err)
	}

	schedule := model.BuildSchedule("", terms)

	totalPayable := decimal.Zero
	totalInterest := decimal.Zero
	for _, inst := range schedule {
		totalPayable = totalPayable.Add(inst.Amount)
		totalInterest = totalInterest.Add(inst.Interest)
	}

	return dto.ScheduleResponse{
		MonthlyPayment: money.Round(model.MonthlyPayment(terms)),
		TotalInterest:  totalInterest,
		TotalPayable:   totalPayable,
		Currency:       currency.Code(),
		Installments:   toInstallmentResponses(schedule),
	}, nil
}
