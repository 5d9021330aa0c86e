package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// UnderwritingEngine – tier-based credit decisioning
// ---------------------------------------------------------------------------

// MaxTermMonths is the longest repayment term offered to smallholders.
const MaxTermMonths = 60

// UnderwritingResult holds the outcome of the underwriting evaluation.
type UnderwritingResult struct {
	Reason            string
	Tier              valueobject.RiskTier
	MaxAmount         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	Approved          bool
}

type tierPolicy struct {
	maxAmount   decimal.Decimal
	ratePercent decimal.Decimal
	reason      string
}

// UnderwritingEngine maps a risk tier to a lending decision.
type UnderwritingEngine struct {
	policies map[valueobject.RiskTier]tierPolicy
}

// NewUnderwritingEngine returns an engine with the standard tier policies.
func NewUnderwritingEngine() *UnderwritingEngine {
	return &UnderwritingEngine{
		policies: map[valueobject.RiskTier]tierPolicy{
			valueobject.RiskTierVeryLow: {
				maxAmount:   decimal.NewFromInt(500_000),
				ratePercent: decimal.NewFromInt(12),
				reason:      "very low risk tier",
			},
			valueobject.RiskTierLow: {
				maxAmount:   decimal.NewFromInt(300_000),
				ratePercent: decimal.NewFromInt(14),
				reason:      "low risk tier",
			},
			valueobject.RiskTierModerate: {
				maxAmount:   decimal.NewFromInt(150_000),
				ratePercent: decimal.NewFromInt(18),
				reason:      "moderate risk tier - elevated rate applies",
			},
		},
	}
}

// Evaluate decides an application.
//
// Tiers:
//
//	VERY_LOW  -> approved, max 500K, 12%
//	LOW       -> approved, max 300K, 14%
//	MODERATE  -> approved, max 150K, 18%
//	HIGH+     -> rejected
func (e *UnderwritingEngine) Evaluate(
	assessment valueobject.RiskAssessment,
	requestedAmount decimal.Decimal,
	termMonths int,
) UnderwritingResult {
	policy, ok := e.policies[assessment.Tier]
	if !ok {
		return UnderwritingResult{
			Tier:      assessment.Tier,
			MaxAmount: decimal.Zero,
			Reason:    fmt.Sprintf("risk tier %s is not eligible", assessment.Tier),
		}
	}

	result := UnderwritingResult{
		Approved:          true,
		Reason:            policy.reason,
		Tier:              assessment.Tier,
		MaxAmount:         policy.maxAmount,
		AnnualRatePercent: policy.ratePercent,
	}

	if requestedAmount.GreaterThan(policy.maxAmount) {
		result.Approved = false
		result.Reason = "requested amount exceeds maximum for risk tier"
	}

	if result.Approved && termMonths > MaxTermMonths {
		result.Approved = false
		result.Reason = fmt.Sprintf("term exceeds maximum %d months", MaxTermMonths)
	}

	return result
}
