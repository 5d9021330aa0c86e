//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/persistence/postgres"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
	"github.com/olonibua/agricgrow-sub000/pkg/testutil"
)

var now = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*postgres.LoanApplicationRepo, *postgres.LoanRepo) {
	t.Helper()
	pool := testutil.StartPostgres(t, testutil.Migrations{FS: postgres.Migrations, Dir: postgres.MigrationsDir})
	return postgres.NewLoanApplicationRepo(pool), postgres.NewLoanRepo(pool)
}

func scheduledApplication(t *testing.T, apps *postgres.LoanApplicationRepo, loans *postgres.LoanRepo) (model.LoanApplication, model.Loan) {
	t.Helper()
	ctx := context.Background()

	factors, err := valueobject.NewRiskFactors(valueobject.RiskFactorsParams{
		CropType:         "maize",
		LoanAmount:       decimal.NewFromInt(60_000),
		FarmSizeHectares: decimal.RequireFromString("2.5"),
		EstimatedRevenue: decimal.NewFromInt(400_000),
		HasCollateral:    true,
		HasIrrigation:    true,
	})
	require.NoError(t, err)

	app, err := model.NewLoanApplication("tenant-1", "farmer-1", decimal.NewFromInt(60_000), money.KES, 3, "seed", factors, now)
	require.NoError(t, err)
	app, err = app.RecordAssessment(service.NewRiskEngine().Score(factors), now)
	require.NoError(t, err)
	require.NoError(t, apps.Save(ctx, app))

	app, err = apps.FindByID(ctx, "tenant-1", app.ID())
	require.NoError(t, err)
	app, err = app.Approve(decimal.NewFromInt(12), "very low risk tier", now)
	require.NoError(t, err)

	terms, err := valueobject.NewLoanTerms(app.RequestedAmount(), app.AnnualRatePercent(), app.TermMonths(), date(2024, 1, 15))
	require.NoError(t, err)
	loan, err := model.NewLoan(app.TenantID(), app.ID(), app.FarmerID(), terms, app.Currency(), now)
	require.NoError(t, err)
	app, err = app.MarkScheduled(loan.ID(), now)
	require.NoError(t, err)

	require.NoError(t, apps.Save(ctx, app))
	require.NoError(t, loans.Save(ctx, loan))
	return app, loan
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRepositories(t *testing.T) {
	apps, loans := setup(t)
	ctx := context.Background()

	t.Run("application round trip", func(t *testing.T) {
		app, loan := scheduledApplication(t, apps, loans)

		got, err := apps.FindByID(ctx, "tenant-1", app.ID())
		require.NoError(t, err)
		assert.Equal(t, "SCHEDULED", got.Status().String())
		assert.Equal(t, loan.ID(), got.LoanID())
		assert.Equal(t, app.Assessment().Score, got.Assessment().Score)
		assert.Equal(t, app.Assessment().Factors, got.Assessment().Factors)
		assert.True(t, decimal.RequireFromString("2.5").Equal(got.Factors().FarmSizeHectares()))
		assert.Equal(t, 3, got.Version())
	})

	t.Run("unknown tenant is not found", func(t *testing.T) {
		app, _ := scheduledApplication(t, apps, loans)

		_, err := apps.FindByID(ctx, "other-tenant", app.ID())
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("loan round trip keeps the schedule", func(t *testing.T) {
		_, loan := scheduledApplication(t, apps, loans)

		got, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", got.Status().String())
		assert.Equal(t, date(2024, 1, 15), got.Terms().StartDate())
		require.Len(t, got.Installments(), 3)
		for i, inst := range got.Installments() {
			want := loan.Installments()[i]
			assert.Equal(t, want.Sequence, inst.Sequence)
			assert.Equal(t, want.DueDate, inst.DueDate)
			assert.True(t, want.Amount.Equal(inst.Amount))
			assert.Equal(t, "PENDING", inst.Status.String())
		}
	})

	t.Run("sweep and repayment persist installment status", func(t *testing.T) {
		_, loan := scheduledApplication(t, apps, loans)

		loan, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		swept, overdue := loan.Sweep(date(2024, 3, 20))
		require.Len(t, overdue, 2)
		require.NoError(t, loans.Save(ctx, swept))

		loan, err = loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		assert.Equal(t, "DELINQUENT", loan.Status().String())
		paid, _, err := loan.RecordRepayment(1, valueobject.PaymentMethodMobileMoney, "MP-1", now)
		require.NoError(t, err)
		require.NoError(t, loans.Save(ctx, paid))

		got, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		inst, ok := got.InstallmentBySequence(1)
		require.True(t, ok)
		assert.Equal(t, "PAID", inst.Status.String())
		assert.Equal(t, "MOBILE_MONEY", inst.PaymentMethod.String())
		require.NotNil(t, inst.PaidDate)
		inst2, _ := got.InstallmentBySequence(2)
		assert.Equal(t, "OVERDUE", inst2.Status.String())
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		_, loan := scheduledApplication(t, apps, loans)

		first, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		second := first

		swept, _ := first.Sweep(date(2024, 3, 20))
		require.NoError(t, loans.Save(ctx, swept))

		stale, _ := second.Sweep(date(2024, 3, 21))
		err = loans.Save(ctx, stale)
		assert.ErrorIs(t, err, port.ErrConcurrentModification)
	})

	t.Run("paid installment is never downgraded", func(t *testing.T) {
		_, loan := scheduledApplication(t, apps, loans)

		loan, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		paid, _, err := loan.RecordRepayment(1, valueobject.PaymentMethodCash, "", now)
		require.NoError(t, err)
		require.NoError(t, loans.Save(ctx, paid))

		// Re-save the pre-payment schedule under the new version.
		current, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		stale := model.ReconstructLoan(
			current.ID(), current.TenantID(), current.ApplicationID(), current.FarmerID(),
			current.Currency(), current.Terms(), current.Status(), loan.Installments(),
			current.Version(), current.CreatedAt(), current.UpdatedAt(),
		)
		require.NoError(t, loans.Save(ctx, stale))

		got, err := loans.FindByID(ctx, "tenant-1", loan.ID())
		require.NoError(t, err)
		inst, _ := got.InstallmentBySequence(1)
		assert.Equal(t, "PAID", inst.Status.String())
	})

	t.Run("find active pages in id order", func(t *testing.T) {
		var seen []string
		after := ""
		for {
			page, err := loans.FindActive(ctx, after, 2)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			for _, l := range page {
				if len(seen) > 0 {
					assert.Greater(t, l.ID(), seen[len(seen)-1])
				}
				seen = append(seen, l.ID())
				assert.NotEmpty(t, l.Installments())
			}
			after = page[len(page)-1].ID()
		}
		assert.NotEmpty(t, seen)
	})
}
