package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateApplication = "LoanApplication"
	aggregateLoan        = "Loan"
)

// Event type names as they appear on the wire.
const (
	TypeApplicationSubmitted = "lending.loan_application.submitted"
	TypeRiskAssessed         = "lending.loan_application.risk_assessed"
	TypeApplicationApproved  = "lending.loan_application.approved"
	TypeApplicationRejected  = "lending.loan_application.rejected"
	TypeScheduleCreated      = "lending.loan.schedule_created"
	TypeRepaymentRecorded    = "lending.loan.repayment_recorded"
	TypeInstallmentOverdue   = "lending.loan.installment_overdue"
	TypeLoanDelinquent       = "lending.loan.delinquent"
	TypeLoanPaidOff          = "lending.loan.paid_off"
)

// ---------------------------------------------------------------------------
// Loan Application Events
// ---------------------------------------------------------------------------

// LoanApplicationSubmitted is raised when a farmer's application enters the system.
type LoanApplicationSubmitted struct {
	events.BaseEvent
	FarmerID        string          `json:"farmer_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	Currency        string          `json:"currency"`
	CropType        string          `json:"crop_type"`
	TermMonths      int             `json:"term_months"`
}

func NewLoanApplicationSubmitted(
	applicationID, tenantID, farmerID string,
	amount decimal.Decimal, currency, cropType string,
	termMonths int, at time.Time,
) LoanApplicationSubmitted {
	return LoanApplicationSubmitted{
		BaseEvent:       events.NewBaseEvent(TypeApplicationSubmitted, applicationID, aggregateApplication, tenantID, at),
		FarmerID:        farmerID,
		RequestedAmount: amount,
		Currency:        currency,
		CropType:        cropType,
		TermMonths:      termMonths,
	}
}

// RiskAssessed carries the structured assessment for downstream narrative
// generation. It never contains prose.
type RiskAssessed struct {
	events.BaseEvent
	FarmerID string   `json:"farmer_id"`
	Tier     string   `json:"tier"`
	Factors  []string `json:"factors"`
	Score    int      `json:"score"`
}

func NewRiskAssessed(applicationID, tenantID, farmerID string, score int, tier string, factors []string, at time.Time) RiskAssessed {
	return RiskAssessed{
		BaseEvent: events.NewBaseEvent(TypeRiskAssessed, applicationID, aggregateApplication, tenantID, at),
		FarmerID:  farmerID,
		Score:     score,
		Tier:      tier,
		Factors:   factors,
	}
}

// LoanApplicationApproved is raised when underwriting approves an application.
type LoanApplicationApproved struct {
	events.BaseEvent
	FarmerID          string          `json:"farmer_id"`
	Reason            string          `json:"reason"`
	Tier              string          `json:"tier"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
}

func NewLoanApplicationApproved(
	applicationID, tenantID, farmerID, reason, tier string,
	ratePercent decimal.Decimal, at time.Time,
) LoanApplicationApproved {
	return LoanApplicationApproved{
		BaseEvent:         events.NewBaseEvent(TypeApplicationApproved, applicationID, aggregateApplication, tenantID, at),
		FarmerID:          farmerID,
		Reason:            reason,
		Tier:              tier,
		AnnualRatePercent: ratePercent,
	}
}

// LoanApplicationRejected is raised when underwriting rejects an application.
type LoanApplicationRejected struct {
	events.BaseEvent
	FarmerID string `json:"farmer_id"`
	Reason   string `json:"reason"`
}

func NewLoanApplicationRejected(applicationID, tenantID, farmerID, reason string, at time.Time) LoanApplicationRejected {
	return LoanApplicationRejected{
		BaseEvent: events.NewBaseEvent(TypeApplicationRejected, applicationID, aggregateApplication, tenantID, at),
		FarmerID:  farmerID,
		Reason:    reason,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// ScheduleCreated is raised when a loan and its installment schedule are created.
type ScheduleCreated struct {
	events.BaseEvent
	ApplicationID     string          `json:"application_id"`
	FarmerID          string          `json:"farmer_id"`
	Principal         decimal.Decimal `json:"principal"`
	Currency          string          `json:"currency"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	FirstDueDate      time.Time       `json:"first_due_date"`
	FirstAmount       decimal.Decimal `json:"first_amount"`
	TermMonths        int             `json:"term_months"`
}

func NewScheduleCreated(
	loanID, tenantID, applicationID, farmerID string,
	principal decimal.Decimal, currency string, ratePercent decimal.Decimal,
	termMonths int, firstDue time.Time, firstAmount decimal.Decimal, at time.Time,
) ScheduleCreated {
	return ScheduleCreated{
		BaseEvent:         events.NewBaseEvent(TypeScheduleCreated, loanID, aggregateLoan, tenantID, at),
		ApplicationID:     applicationID,
		FarmerID:          farmerID,
		Principal:         principal,
		Currency:          currency,
		AnnualRatePercent: ratePercent,
		TermMonths:        termMonths,
		FirstDueDate:      firstDue,
		FirstAmount:       firstAmount,
	}
}

// RepaymentRecorded is raised when an installment is settled.
type RepaymentRecorded struct {
	events.BaseEvent
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	PaymentMethod        string          `json:"payment_method,omitempty"`
	TransactionReference string          `json:"transaction_reference,omitempty"`
	PaidAt               time.Time       `json:"paid_at"`
	Outstanding          decimal.Decimal `json:"outstanding"`
	Sequence             int             `json:"sequence"`
}

func NewRepaymentRecorded(
	loanID, tenantID string, sequence int,
	amount decimal.Decimal, currency, method, reference string,
	paidAt time.Time, outstanding decimal.Decimal,
) RepaymentRecorded {
	return RepaymentRecorded{
		BaseEvent:            events.NewBaseEvent(TypeRepaymentRecorded, loanID, aggregateLoan, tenantID, paidAt),
		Sequence:             sequence,
		Amount:               amount,
		Currency:             currency,
		PaymentMethod:        method,
		TransactionReference: reference,
		PaidAt:               paidAt,
		Outstanding:          outstanding,
	}
}

// InstallmentOverdue is raised once per installment when a sweep first marks it overdue.
type InstallmentOverdue struct {
	events.BaseEvent
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	DueDate  time.Time       `json:"due_date"`
	Sequence int             `json:"sequence"`
}

func NewInstallmentOverdue(loanID, tenantID string, sequence int, amount decimal.Decimal, currency string, dueDate, at time.Time) InstallmentOverdue {
	return InstallmentOverdue{
		BaseEvent: events.NewBaseEvent(TypeInstallmentOverdue, loanID, aggregateLoan, tenantID, at),
		Sequence:  sequence,
		Amount:    amount,
		Currency:  currency,
		DueDate:   dueDate,
	}
}

// LoanDelinquent is raised when a loan moves from ACTIVE to DELINQUENT.
type LoanDelinquent struct {
	events.BaseEvent
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

func NewLoanDelinquent(loanID, tenantID string, overdue, outstanding decimal.Decimal, at time.Time) LoanDelinquent {
	return LoanDelinquent{
		BaseEvent:     events.NewBaseEvent(TypeLoanDelinquent, loanID, aggregateLoan, tenantID, at),
		OverdueAmount: overdue,
		Outstanding:   outstanding,
	}
}

// LoanPaidOff is raised when the last installment of a loan is settled.
type LoanPaidOff struct {
	events.BaseEvent
}

func NewLoanPaidOff(loanID, tenantID string, at time.Time) LoanPaidOff {
	return LoanPaidOff{
		BaseEvent: events.NewBaseEvent(TypeLoanPaidOff, loanID, aggregateLoan, tenantID, at),
	}
}
