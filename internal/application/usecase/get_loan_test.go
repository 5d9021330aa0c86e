package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
)

func TestGetLoan_Execute(t *testing.T) {
	t.Run("returns loan with schedule", func(t *testing.T) {
		loan := activeLoan(t, date(2024, 1, 15), 3)
		repo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.Loan, error) {
				assert.Equal(t, "tenant-001", tenantID)
				return loan, nil
			},
		}

		resp, err := usecase.NewGetLoanUseCase(repo).Execute(context.Background(), dto.GetLoanRequest{
			TenantID: "tenant-001",
			LoanID:   loan.ID(),
		})

		require.NoError(t, err)
		assert.Equal(t, loan.ID(), resp.ID)
		assert.Equal(t, "KES", resp.Currency)
		assert.Len(t, resp.Installments, 3)
		require.NotNil(t, resp.NextDue)
		assert.Equal(t, 1, resp.NextDue.Sequence)
		assert.True(t, resp.Overdue.IsZero())
		assert.True(t, loan.OutstandingAmount().Equal(resp.Outstanding))
	})

	t.Run("returns error when loan not found", func(t *testing.T) {
		_, err := usecase.NewGetLoanUseCase(&mockLoanRepository{}).Execute(context.Background(), dto.GetLoanRequest{
			TenantID: "tenant-001",
			LoanID:   "missing",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrNotFound)
		assert.Contains(t, err.Error(), "find loan")
	})
}

func TestGetApplication_Execute(t *testing.T) {
	t.Run("returns application with assessment", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, highRiskParams())
		repo := &mockLoanApplicationRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.LoanApplication, error) {
				return app, nil
			},
		}

		resp, err := usecase.NewGetApplicationUseCase(repo).Execute(context.Background(), dto.GetApplicationRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.NoError(t, err)
		assert.Equal(t, app.ID(), resp.ID)
		require.NotNil(t, resp.Assessment)
		assert.Equal(t, "VERY_HIGH", resp.Assessment.Tier)
	})

	t.Run("returns error when application not found", func(t *testing.T) {
		_, err := usecase.NewGetApplicationUseCase(&mockLoanApplicationRepository{}).
			Execute(context.Background(), dto.GetApplicationRequest{TenantID: "tenant-001", ApplicationID: "x"})

		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
