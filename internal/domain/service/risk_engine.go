package service

import (
	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

const (
	riskBaseline = 50
	minRiskScore = 0
	maxRiskScore = 100
)

var (
	one = decimal.NewFromInt(1)

	perHectareHigh     = decimal.NewFromInt(300_000)
	perHectareElevated = decimal.NewFromInt(200_000)
	perHectareLow      = decimal.NewFromInt(100_000)

	revenueRatioHigh     = decimal.RequireFromString("0.7")
	revenueRatioElevated = decimal.RequireFromString("0.5")
	revenueRatioLow      = decimal.RequireFromString("0.3")
)

// ScoreContribution records one rule's effect on a risk score.
type ScoreContribution struct {
	Rule  string
	Delta int
}

// RiskEngine is a stateless domain service scoring farm loan risk. Higher
// scores mean riskier loans. It is safe for concurrent use.
type RiskEngine struct{}

// NewRiskEngine returns a new engine instance.
func NewRiskEngine() *RiskEngine {
	return &RiskEngine{}
}

// Score computes the assessment for f.
//
// Rules, applied to a baseline of 50:
//
//	loan per hectare      >300k +20 | >200k +10 | <100k -10
//	loan to revenue       >0.7 +15  | >0.5 +5   | <0.3 -10
//	irrigation            -10, else irrigation-dependent crop +15
//	collateral            -15
//	insurance             -10
//	previous loan         +5
//
// The result is clamped to 0–100.
func (e *RiskEngine) Score(f valueobject.RiskFactors) valueobject.RiskAssessment {
	assessment, _ := e.Explain(f)
	return assessment
}

// Explain is Score plus the per-rule contributions, in evaluation order.
func (e *RiskEngine) Explain(f valueobject.RiskFactors) (valueobject.RiskAssessment, []ScoreContribution) {
	var contributions []ScoreContribution
	add := func(rule string, delta int) {
		contributions = append(contributions, ScoreContribution{Rule: rule, Delta: delta})
	}

	perHectare := f.LoanAmount().Div(decimal.Max(f.FarmSizeHectares(), one))
	switch {
	case perHectare.GreaterThan(perHectareHigh):
		add("loan_per_hectare", 20)
	case perHectare.GreaterThan(perHectareElevated):
		add("loan_per_hectare", 10)
	case perHectare.LessThan(perHectareLow):
		add("loan_per_hectare", -10)
	}

	toRevenue := f.LoanAmount().Div(decimal.Max(f.EstimatedRevenue(), one))
	switch {
	case toRevenue.GreaterThan(revenueRatioHigh):
		add("loan_to_revenue", 15)
	case toRevenue.GreaterThan(revenueRatioElevated):
		add("loan_to_revenue", 5)
	case toRevenue.LessThan(revenueRatioLow):
		add("loan_to_revenue", -10)
	}

	mismatch := !f.HasIrrigation() && f.CropType().IrrigationDependent()
	switch {
	case f.HasIrrigation():
		add("irrigation", -10)
	case mismatch:
		add("crop_irrigation_mismatch", 15)
	}

	if f.HasCollateral() {
		add("collateral", -15)
	}
	if f.HasInsurance() {
		add("insurance", -10)
	}
	if f.HasPreviousLoan() {
		add("previous_loan", 5)
	}

	total := riskBaseline
	for _, c := range contributions {
		total += c.Delta
	}
	score := min(max(total, minRiskScore), maxRiskScore)

	// Append-only; new factors go after the existing ones.
	factors := make([]valueobject.RiskFactorID, 0, 3)
	if !f.HasCollateral() {
		factors = append(factors, valueobject.FactorNoCollateral)
	}
	if f.HasPreviousLoan() {
		factors = append(factors, valueobject.FactorExistingLoan)
	}
	if mismatch {
		factors = append(factors, valueobject.FactorCropIrrigationMismatch)
	}

	return valueobject.RiskAssessment{
		Score:   score,
		Tier:    valueobject.TierForScore(score),
		Factors: factors,
	}, contributions
}
