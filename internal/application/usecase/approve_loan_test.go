package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

type approveFixture struct {
	apps     *mockLoanApplicationRepository
	loans    *mockLoanRepository
	pub      *mockLendingEventPublisher
	notifier *mockNotifier
	uc       *usecase.ApproveLoanUseCase
}

func newApproveFixture(app model.LoanApplication) *approveFixture {
	f := &approveFixture{
		apps: &mockLoanApplicationRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id string) (model.LoanApplication, error) {
				return app, nil
			},
		},
		loans:    &mockLoanRepository{},
		pub:      &mockLendingEventPublisher{},
		notifier: &mockNotifier{},
	}
	f.uc = usecase.NewApproveLoanUseCase(
		f.apps, f.loans, f.pub, f.notifier,
		fixedClock{now: testNow}, noopMetrics{}, service.NewUnderwritingEngine(),
	)
	return f
}

func TestApproveLoan_Execute(t *testing.T) {
	t.Run("books the loan for a low risk application", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, lowRiskParams())
		f := newApproveFixture(app)

		resp, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.NoError(t, err)
		assert.True(t, resp.Approved)
		assert.Equal(t, "SCHEDULED", resp.Application.Status)
		assert.Equal(t, "12", resp.Application.AnnualRatePercent.String())
		require.NotNil(t, resp.Loan)
		assert.Equal(t, resp.Loan.ID, resp.Application.LoanID)
		assert.Equal(t, "ACTIVE", resp.Loan.Status)
		require.Len(t, resp.Loan.Installments, 6)
		assert.Equal(t, date(2024, 2, 1), resp.Loan.Installments[0].DueDate)

		require.Len(t, f.loans.savedLoans, 1)
		require.Len(t, f.apps.savedApps, 1)
		assert.Equal(t, []string{event.TypeApplicationApproved, event.TypeScheduleCreated}, f.pub.types())

		require.Len(t, f.notifier.sent, 1)
		n := f.notifier.sent[0]
		assert.Equal(t, port.NotificationScheduleCreated, n.Kind)
		assert.Equal(t, resp.Loan.ID, n.LoanID)
		assert.Equal(t, 1, n.Sequence)
		assert.Equal(t, "KES", n.Currency)
		assert.True(t, resp.Loan.Installments[0].Amount.Equal(n.Amount))
	})

	t.Run("uses the requested start date", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, lowRiskParams())
		f := newApproveFixture(app)

		resp, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
			StartDate:     date(2024, 1, 31),
		})

		require.NoError(t, err)
		assert.Equal(t, date(2024, 2, 29), resp.Loan.Installments[0].DueDate)
		assert.Equal(t, date(2024, 3, 31), resp.Loan.Installments[1].DueDate)
	})

	t.Run("rejects a high risk application", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, highRiskParams())
		f := newApproveFixture(app)

		resp, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.NoError(t, err)
		assert.False(t, resp.Approved)
		assert.Nil(t, resp.Loan)
		assert.Equal(t, "REJECTED", resp.Application.Status)
		assert.Contains(t, resp.Application.DecisionReason, "VERY_HIGH")
		assert.Empty(t, f.loans.savedLoans)
		assert.Empty(t, f.notifier.sent)
		assert.Equal(t, []string{event.TypeApplicationRejected}, f.pub.types())
	})

	t.Run("rejects an amount over the tier maximum", func(t *testing.T) {
		app := reviewedApplication(t, 600_000, lowRiskParams())
		f := newApproveFixture(app)

		resp, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.NoError(t, err)
		assert.False(t, resp.Approved)
		assert.Equal(t, "requested amount exceeds maximum for risk tier", resp.Application.DecisionReason)
	})

	t.Run("fails when application is already decided", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, highRiskParams())
		app, err := app.Reject("earlier decision", testNow)
		require.NoError(t, err)
		f := newApproveFixture(app.ClearEvents())

		_, err = f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("fails when application not found", func(t *testing.T) {
		f := newApproveFixture(model.LoanApplication{})
		f.apps.findByIDFunc = nil

		_, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: "missing",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrNotFound)
		assert.Contains(t, err.Error(), "find application")
	})

	t.Run("does not save the application when the loan save fails", func(t *testing.T) {
		app := reviewedApplication(t, 100_000, lowRiskParams())
		f := newApproveFixture(app)
		f.loans.saveFunc = func(ctx context.Context, loan model.Loan) error {
			return errors.New("db down")
		}

		_, err := f.uc.Execute(context.Background(), dto.ApproveLoanRequest{
			TenantID:      "tenant-001",
			ApplicationID: app.ID(),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save loan")
		assert.Empty(t, f.apps.savedApps)
		assert.Empty(t, f.notifier.sent)
	})
}
