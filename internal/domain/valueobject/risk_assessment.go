package valueobject

// ---------------------------------------------------------------------------
// RiskTier – immutable value object
// ---------------------------------------------------------------------------

// RiskTier is the discrete band a risk score falls into.
type RiskTier struct {
	value string
}

const (
	tierVeryLow  = "VERY_LOW"
	tierLow      = "LOW"
	tierModerate = "MODERATE"
	tierHigh     = "HIGH"
	tierVeryHigh = "VERY_HIGH"
)

var (
	RiskTierVeryLow  = RiskTier{value: tierVeryLow}
	RiskTierLow      = RiskTier{value: tierLow}
	RiskTierModerate = RiskTier{value: tierModerate}
	RiskTierHigh     = RiskTier{value: tierHigh}
	RiskTierVeryHigh = RiskTier{value: tierVeryHigh}
)

// TierForScore buckets a score. Each boundary belongs to the lower tier.
func TierForScore(score int) RiskTier {
	switch {
	case score <= 20:
		return RiskTierVeryLow
	case score <= 40:
		return RiskTierLow
	case score <= 60:
		return RiskTierModerate
	case score <= 80:
		return RiskTierHigh
	default:
		return RiskTierVeryHigh
	}
}

func (t RiskTier) String() string { return t.value }
func (t RiskTier) IsZero() bool { return t.value == "" }
func (t RiskTier) Equal(other RiskTier) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// RiskFactorID
// ---------------------------------------------------------------------------

// RiskFactorID identifies a condition that contributed to a risk score.
type RiskFactorID string

// Factors are always reported in this declaration order.
const (
	FactorNoCollateral           RiskFactorID = "no-collateral"
	FactorExistingLoan           RiskFactorID = "existing-loan"
	FactorCropIrrigationMismatch RiskFactorID = "crop-irrigation-mismatch"
)

// ---------------------------------------------------------------------------
// RiskAssessment
// ---------------------------------------------------------------------------

// RiskAssessment is the structured outcome of scoring a RiskFactors record.
// Tier is always TierForScore(Score).
type RiskAssessment struct {
	Tier    RiskTier
	Factors []RiskFactorID
	Score   int
}

// ReconstructRiskAssessment rebuilds an assessment from stored values,
// re-deriving the tier from the score.
func ReconstructRiskAssessment(score int, factors []RiskFactorID) RiskAssessment {
	return RiskAssessment{
		Score:   score,
		Tier:    TierForScore(score),
		Factors: append([]RiskFactorID(nil), factors...),
	}
}

// IsZero reports whether no assessment has been recorded.
func (a RiskAssessment) IsZero() bool { return a.Tier.IsZero() }

// FactorStrings returns the factor identifiers as plain strings.
func (a RiskAssessment) FactorStrings() []string {
	out := make([]string, len(a.Factors))
	for i, f := range a.Factors {
		out[i] = string(f)
	}
	return out
}
