package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

func testFactors(t *testing.T) valueobject.RiskFactors {
	t.Helper()
	f, err := valueobject.NewRiskFactors(valueobject.RiskFactorsParams{
		CropType:         "maize",
		LoanAmount:       decimal.NewFromInt(80_000),
		FarmSizeHectares: decimal.NewFromInt(2),
		EstimatedRevenue: decimal.NewFromInt(400_000),
		HasCollateral:    true,
		HasIrrigation:    true,
	})
	require.NoError(t, err)
	return f
}

func newTestApplication(t *testing.T) model.LoanApplication {
	t.Helper()
	app, err := model.NewLoanApplication("coop-1", "farmer-1", decimal.NewFromInt(80_000), money.KES, 6, "maize inputs", testFactors(t), date(2024, 1, 2))
	require.NoError(t, err)
	return app
}

func TestNewLoanApplication(t *testing.T) {
	app := newTestApplication(t)

	assert.NotEmpty(t, app.ID())
	assert.Equal(t, valueobject.ApplicationStatusSubmitted, app.Status())
	assert.True(t, app.Assessment().IsZero())
	require.Len(t, app.DomainEvents(), 1)

	submitted := app.DomainEvents()[0].(event.LoanApplicationSubmitted)
	assert.Equal(t, "maize", submitted.CropType)
	assert.Equal(t, "farmer-1", submitted.FarmerID)
}

func TestNewLoanApplication_Validation(t *testing.T) {
	f := testFactors(t)
	tests := []struct {
		name   string
		tenant string
		farmer string
		amount decimal.Decimal
		cur    money.Currency
		term   int
	}{
		{"missing tenant", "", "f", decimal.NewFromInt(1), money.KES, 6},
		{"missing farmer", "t", "", decimal.NewFromInt(1), money.KES, 6},
		{"zero amount", "t", "f", decimal.Zero, money.KES, 6},
		{"missing currency", "t", "f", decimal.NewFromInt(1), money.Currency{}, 6},
		{"zero term", "t", "f", decimal.NewFromInt(1), money.KES, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewLoanApplication(tt.tenant, tt.farmer, tt.amount, tt.cur, tt.term, "", f, date(2024, 1, 1))
			assert.Error(t, err)
		})
	}
}

func TestLoanApplication_Lifecycle(t *testing.T) {
	app := newTestApplication(t).ClearEvents()
	assessment := valueobject.ReconstructRiskAssessment(15, nil)

	reviewed, err := app.RecordAssessment(assessment, date(2024, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusUnderReview, reviewed.Status())
	assert.Equal(t, []string{event.TypeRiskAssessed}, eventTypes(reviewed.DomainEvents()))

	assessed := reviewed.DomainEvents()[0].(event.RiskAssessed)
	assert.Equal(t, 15, assessed.Score)
	assert.Equal(t, "VERY_LOW", assessed.Tier)
	assert.Empty(t, assessed.Factors)

	approved, err := reviewed.Approve(decimal.NewFromInt(12), "very low risk", date(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusApproved, approved.Status())
	assert.True(t, approved.AnnualRatePercent().Equal(decimal.NewFromInt(12)))

	scheduled, err := approved.MarkScheduled("loan-9", date(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusScheduled, scheduled.Status())
	assert.Equal(t, "loan-9", scheduled.LoanID())
}

func TestLoanApplication_InvalidTransitions(t *testing.T) {
	app := newTestApplication(t)

	_, err := app.Approve(decimal.NewFromInt(12), "", date(2024, 1, 2))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	_, err = app.Reject("", date(2024, 1, 2))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	_, err = app.MarkScheduled("loan", date(2024, 1, 2))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

	reviewed, err := app.RecordAssessment(valueobject.ReconstructRiskAssessment(90, nil), date(2024, 1, 2))
	require.NoError(t, err)
	_, err = reviewed.RecordAssessment(valueobject.ReconstructRiskAssessment(90, nil), date(2024, 1, 2))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

	rejected, err := reviewed.Reject("risk tier VERY_HIGH is not eligible", date(2024, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusRejected, rejected.Status())
	_, err = rejected.MarkScheduled("loan", date(2024, 1, 2))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}
