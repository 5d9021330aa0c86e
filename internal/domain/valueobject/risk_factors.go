package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CropType names the crop the loan finances. Values are normalised to lower
// case; crops outside the known list are accepted as-is.
type CropType string

const (
	CropMaize   CropType = "maize"
	CropBeans   CropType = "beans"
	CropRice    CropType = "rice"
	CropTomato  CropType = "tomato"
	CropCassava CropType = "cassava"
	CropSorghum CropType = "sorghum"
	CropCoffee  CropType = "coffee"
	CropTea     CropType = "tea"
)

// NewCropType normalises a crop name.
func NewCropType(s string) CropType {
	return CropType(strings.ToLower(strings.TrimSpace(s)))
}

// IrrigationDependent reports whether the crop needs irrigation to be viable.
func (c CropType) IrrigationDependent() bool {
	return c == CropRice || c == CropTomato
}

func (c CropType) String() string { return string(c) }

// RiskFactorsParams carries the raw inputs for NewRiskFactors.
type RiskFactorsParams struct {
	CropType         string
	LoanAmount       decimal.Decimal
	FarmSizeHectares decimal.Decimal
	EstimatedRevenue decimal.Decimal
	HasCollateral    bool
	HasPreviousLoan  bool
	HasIrrigation    bool
	HasInsurance     bool
}

// RiskFactors is the validated farm and loan profile the risk engine scores.
type RiskFactors struct {
	cropType         CropType
	loanAmount       decimal.Decimal
	farmSizeHectares decimal.Decimal
	estimatedRevenue decimal.Decimal
	hasCollateral    bool
	hasPreviousLoan  bool
	hasIrrigation    bool
	hasInsurance     bool
}

// NewRiskFactors validates p. Negative amounts, farm size or revenue yield an
// *InvalidFactorsError; zero is allowed.
func NewRiskFactors(p RiskFactorsParams) (RiskFactors, error) {
	switch {
	case p.FarmSizeHectares.IsNegative():
		return RiskFactors{}, &InvalidFactorsError{Field: "farm_size_hectares", Reason: "must not be negative"}
	case p.LoanAmount.IsNegative():
		return RiskFactors{}, &InvalidFactorsError{Field: "loan_amount", Reason: "must not be negative"}
	case p.EstimatedRevenue.IsNegative():
		return RiskFactors{}, &InvalidFactorsError{Field: "estimated_revenue", Reason: "must not be negative"}
	}

	return RiskFactors{
		cropType:         NewCropType(p.CropType),
		loanAmount:       p.LoanAmount,
		farmSizeHectares: p.FarmSizeHectares,
		estimatedRevenue: p.EstimatedRevenue,
		hasCollateral:    p.HasCollateral,
		hasPreviousLoan:  p.HasPreviousLoan,
		hasIrrigation:    p.HasIrrigation,
		hasInsurance:     p.HasInsurance,
	}, nil
}

func (f RiskFactors) CropType() CropType { return f.cropType }
func (f RiskFactors) LoanAmount() decimal.Decimal { return f.loanAmount }
func (f RiskFactors) FarmSizeHectares() decimal.Decimal { return f.farmSizeHectares }
func (f RiskFactors) EstimatedRevenue() decimal.Decimal { return f.estimatedRevenue }
func (f RiskFactors) HasCollateral() bool { return f.hasCollateral }
func (f RiskFactors) HasPreviousLoan() bool { return f.hasPreviousLoan }
func (f RiskFactors) HasIrrigation() bool { return f.hasIrrigation }
func (f RiskFactors) HasInsurance() bool { return f.hasInsurance }

// Params returns the raw inputs, for persistence and transport.
func (f RiskFactors) Params() RiskFactorsParams {
	return RiskFactorsParams{
		CropType:         f.cropType.String(),
		LoanAmount:       f.loanAmount,
		FarmSizeHectares: f.farmSizeHectares,
		EstimatedRevenue: f.estimatedRevenue,
		HasCollateral:    f.hasCollateral,
		HasPreviousLoan:  f.hasPreviousLoan,
		HasIrrigation:    f.hasIrrigation,
		HasInsurance:     f.hasInsurance,
	}
}
