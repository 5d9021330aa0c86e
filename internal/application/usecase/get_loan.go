package usecase

import (
	"context"
	"fmt"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
)

// GetLoanUseCase is the read side of the loan aggregate: the loan, its
// schedule, outstanding and overdue balances and the next installment due.
type GetLoanUseCase struct {
	loans port.LoanRepository
}

func NewGetLoanUseCase(loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loans: loanRepo}
}

func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
	return lookup(ctx, "loan", uc.loans.FindByID, req.TenantID, req.LoanID, toLoanResponse)
}

// GetApplicationUseCase returns an application together with its risk
// assessment and, once booked, the resulting loan ID.
type GetApplicationUseCase struct {
	applications port.LoanApplicationRepository
}

func NewGetApplicationUseCase(appRepo port.LoanApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{applications: appRepo}
}

func (uc *GetApplicationUseCase) Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.LoanApplicationResponse, error) {
	return lookup(ctx, "application", uc.applications.FindByID, req.TenantID, req.ApplicationID, toApplicationResponse)
}

// lookup loads one tenant-scoped aggregate and maps it to its response.
func lookup[T, R any](
	ctx context.Context,
	what string,
	find func(ctx context.Context, tenantID, id string) (T, error),
	tenantID, id string,
	toResponse func(T) R,
) (R, error) {
	agg, err := find(ctx, tenantID, id)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("find %s %s: %w", what, id, err)
	}
	return toResponse(agg), nil
}
