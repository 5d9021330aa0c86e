package valueobject

import (
	"time"

	"github.com/shopspring/decimal"
)

var maxRatePercent = decimal.NewFromInt(100)

// LoanTerms is the validated principal/rate/term triple a schedule is built
// from. StartDate is a civil date; the time of day is discarded.
type LoanTerms struct {
	principal   decimal.Decimal
	ratePercent decimal.Decimal
	termMonths  int
	startDate   time.Time
}

// NewLoanTerms validates and constructs LoanTerms. It returns an
// *InvalidTermsError when principal or termMonths are not positive, or the
// annual rate falls outside 0–100 percent.
func NewLoanTerms(principal, annualRatePercent decimal.Decimal, termMonths int, startDate time.Time) (LoanTerms, error) {
	switch {
	case !principal.IsPositive():
		return LoanTerms{}, &InvalidTermsError{Field: "principal", Reason: "must be positive"}
	case termMonths <= 0:
		return LoanTerms{}, &InvalidTermsError{Field: "term_months", Reason: "must be positive"}
	case annualRatePercent.IsNegative():
		return LoanTerms{}, &InvalidTermsError{Field: "annual_rate_percent", Reason: "must not be negative"}
	case annualRatePercent.GreaterThan(maxRatePercent):
		return LoanTerms{}, &InvalidTermsError{Field: "annual_rate_percent", Reason: "must not exceed 100"}
	case startDate.IsZero():
		return LoanTerms{}, &InvalidTermsError{Field: "start_date", Reason: "is required"}
	}

	y, m, d := startDate.Date()
	return LoanTerms{
		principal:   principal,
		ratePercent: annualRatePercent,
		termMonths:  termMonths,
		startDate:   time.Date(y, m, d, 0, 0, 0, 0, startDate.Location()),
	}, nil
}

func (t LoanTerms) Principal() decimal.Decimal { return t.principal }
func (t LoanTerms) AnnualRatePercent() decimal.Decimal { return t.ratePercent }
func (t LoanTerms) TermMonths() int { return t.termMonths }
func (t LoanTerms) StartDate() time.Time { return t.startDate }
func (t LoanTerms) IsZero() bool { return t.termMonths == 0 }
