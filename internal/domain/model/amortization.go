package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

var monthsPerYearPercent = decimal.NewFromInt(1200)

// GenerateSchedule computes a fixed-payment amortization schedule of
// termMonths PENDING installments for loanID. Invalid terms yield an
// *valueobject.InvalidTermsError.
//
// The calculation uses:
//
//	monthlyRate = annualRatePercent / 100 / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)    (P / n when r == 0)
//
// The last installment repays whatever principal remains so the schedule
// closes at exactly zero.
func GenerateSchedule(
	loanID string,
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	startDate time.Time,
) ([]Installment, error) {
	terms, err := valueobject.NewLoanTerms(principal, annualRatePercent, termMonths, startDate)
	if err != nil {
		return nil, err
	}
	return BuildSchedule(loanID, terms), nil
}

// BuildSchedule generates the schedule for already validated terms.
func BuildSchedule(loanID string, terms valueobject.LoanTerms) []Installment {
	n := terms.TermMonths()
	principal := terms.Principal()
	monthlyRate := terms.AnnualRatePercent().Div(monthsPerYearPercent)
	payment := MonthlyPayment(terms)

	schedule := make([]Installment, 0, n)
	remaining := principal

	for seq := 1; seq <= n; seq++ {
		interest := remaining.Mul(monthlyRate)
		principalPart := payment.Sub(interest)
		if seq == n {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		amount := money.Round(principalPart.Add(interest))
		interestRounded := money.Round(interest)

		schedule = append(schedule, Installment{
			LoanID:    loanID,
			Sequence:  seq,
			DueDate:   addMonthsClamped(terms.StartDate(), seq),
			Amount:    amount,
			Interest:  interestRounded,
			Principal: amount.Sub(interestRounded),
			Status:    valueobject.InstallmentStatusPending,
		})
	}

	return schedule
}

// MonthlyPayment returns the unrounded level payment for terms.
func MonthlyPayment(terms valueobject.LoanTerms) decimal.Decimal {
	n := terms.TermMonths()
	principal := terms.Principal()
	if terms.AnnualRatePercent().IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}

	// The power runs in float64; everything monetary stays in decimal.
	rate := terms.AnnualRatePercent().Div(monthsPerYearPercent)
	r := rate.InexactFloat64()
	factor := math.Pow(1+r, float64(n))
	switch {
	case math.IsInf(factor, 1):
		// r*f/(f-1) tends to r as f grows: the payment only covers interest
		// and the final installment carries the principal.
		return principal.Mul(rate)
	case factor <= 1:
		// r too small to move 1+r in float64.
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	return principal.Mul(decimal.NewFromFloat(r * factor / (factor - 1)))
}

// addMonthsClamped returns the civil date months after start, keeping the
// day of month unless the target month is shorter, in which case the last
// day of that month is used.
func addMonthsClamped(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, lastDay), 0, 0, 0, 0, start.Location())
}
