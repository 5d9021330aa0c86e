package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

var testNow = time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reviewedApplication returns an UNDER_REVIEW application scored by the risk
// engine with no pending events.
func reviewedApplication(t *testing.T, amount int64, p valueobject.RiskFactorsParams) model.LoanApplication {
	t.Helper()
	p.LoanAmount = decimal.NewFromInt(amount)
	factors, err := valueobject.NewRiskFactors(p)
	require.NoError(t, err)

	app, err := model.NewLoanApplication(
		"tenant-001", "farmer-001", decimal.NewFromInt(amount),
		money.KES, 6, "maize inputs", factors, testNow,
	)
	require.NoError(t, err)
	app, err = app.RecordAssessment(service.NewRiskEngine().Score(factors), testNow)
	require.NoError(t, err)
	return app.ClearEvents()
}

func lowRiskParams() valueobject.RiskFactorsParams {
	return valueobject.RiskFactorsParams{
		CropType:         "maize",
		FarmSizeHectares: decimal.NewFromInt(5),
		EstimatedRevenue: decimal.NewFromInt(1_000_000),
		HasCollateral:    true,
		HasIrrigation:    true,
		HasInsurance:     true,
	}
}

func highRiskParams() valueobject.RiskFactorsParams {
	return valueobject.RiskFactorsParams{
		CropType:         "rice",
		FarmSizeHectares: decimal.NewFromInt(1),
		EstimatedRevenue: decimal.NewFromInt(100_000),
		HasPreviousLoan:  true,
	}
}

// activeLoan returns a freshly booked loan with no pending events.
func activeLoan(t *testing.T, start time.Time, termMonths int) model.Loan {
	t.Helper()
	terms, err := valueobject.NewLoanTerms(decimal.NewFromInt(30_000), decimal.NewFromInt(12), termMonths, start)
	require.NoError(t, err)
	loan, err := model.NewLoan("tenant-001", "app-001", "farmer-001", terms, money.KES, start)
	require.NoError(t, err)
	return loan.ClearEvents()
}
