package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

// ---------------------------------------------------------------------------
// LoanApplication aggregate root (origination)
// ---------------------------------------------------------------------------

// LoanApplication is an immutable aggregate. Every mutation returns a new copy.
type LoanApplication struct {
	id                string
	tenantID          string
	farmerID          string
	requestedAmount   decimal.Decimal
	currency          money.Currency
	termMonths        int
	purpose           string
	factors           valueobject.RiskFactors
	assessment        valueobject.RiskAssessment
	status            valueobject.ApplicationStatus
	decisionReason    string
	annualRatePercent decimal.Decimal
	loanID            string
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	domainEvents      []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoanApplication creates a brand-new application in SUBMITTED status.
func NewLoanApplication(
	tenantID, farmerID string,
	requestedAmount decimal.Decimal,
	currency money.Currency,
	termMonths int,
	purpose string,
	factors valueobject.RiskFactors,
	now time.Time,
) (LoanApplication, error) {
	switch {
	case tenantID == "":
		return LoanApplication{}, errors.New("tenant ID is required")
	case farmerID == "":
		return LoanApplication{}, errors.New("farmer ID is required")
	case !requestedAmount.IsPositive():
		return LoanApplication{}, errors.New("requested amount must be positive")
	case currency.IsZero():
		return LoanApplication{}, errors.New("currency is required")
	case termMonths <= 0:
		return LoanApplication{}, errors.New("term months must be positive")
	}

	id := uuid.NewString()
	app := LoanApplication{
		id:              id,
		tenantID:        tenantID,
		farmerID:        farmerID,
		requestedAmount: requestedAmount,
		currency:        currency,
		termMonths:      termMonths,
		purpose:         purpose,
		factors:         factors,
		status:          valueobject.ApplicationStatusSubmitted,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}

	app.domainEvents = append(app.domainEvents, event.NewLoanApplicationSubmitted(
		id, tenantID, farmerID, requestedAmount, currency.Code(), factors.CropType().String(), termMonths, now,
	))
	return app, nil
}

// ReconstructLoanApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructLoanApplication(
	id, tenantID, farmerID string,
	requestedAmount decimal.Decimal,
	currency money.Currency,
	termMonths int,
	purpose string,
	factors valueobject.RiskFactors,
	assessment valueobject.RiskAssessment,
	status valueobject.ApplicationStatus,
	decisionReason string,
	annualRatePercent decimal.Decimal,
	loanID string,
	version int,
	createdAt, updatedAt time.Time,
) LoanApplication {
	return LoanApplication{
		id:                id,
		tenantID:          tenantID,
		farmerID:          farmerID,
		requestedAmount:   requestedAmount,
		currency:          currency,
		termMonths:        termMonths,
		purpose:           purpose,
		factors:           factors,
		assessment:        assessment,
		status:            status,
		decisionReason:    decisionReason,
		annualRatePercent: annualRatePercent,
		loanID:            loanID,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// advance moves a copy of the application to status to, applies set and
// records evt when it is non-nil.
func (a LoanApplication) advance(to valueobject.ApplicationStatus, now time.Time, set func(*LoanApplication), evt event.DomainEvent) (LoanApplication, error) {
	status, err := a.status.TransitionTo(to)
	if err != nil {
		return a, err
	}
	next := a
	next.status = status
	next.updatedAt = now
	set(&next)
	next.domainEvents = copyEvents(a.domainEvents)
	if evt != nil {
		next.domainEvents = append(next.domainEvents, evt)
	}
	return next, nil
}

// RecordAssessment attaches the risk assessment and moves
// SUBMITTED -> UNDER_REVIEW, emitting RiskAssessed.
func (a LoanApplication) RecordAssessment(assessment valueobject.RiskAssessment, now time.Time) (LoanApplication, error) {
	return a.advance(valueobject.ApplicationStatusUnderReview, now,
		func(n *LoanApplication) { n.assessment = assessment },
		event.NewRiskAssessed(a.id, a.tenantID, a.farmerID, assessment.Score, assessment.Tier.String(), assessment.FactorStrings(), now),
	)
}

// Approve transitions UNDER_REVIEW -> APPROVED at the given annual rate.
func (a LoanApplication) Approve(annualRatePercent decimal.Decimal, reason string, now time.Time) (LoanApplication, error) {
	return a.advance(valueobject.ApplicationStatusApproved, now,
		func(n *LoanApplication) {
			n.annualRatePercent = annualRatePercent
			n.decisionReason = reason
		},
		event.NewLoanApplicationApproved(a.id, a.tenantID, a.farmerID, reason, a.assessment.Tier.String(), annualRatePercent, now),
	)
}

// Reject transitions UNDER_REVIEW -> REJECTED.
func (a LoanApplication) Reject(reason string, now time.Time) (LoanApplication, error) {
	return a.advance(valueobject.ApplicationStatusRejected, now,
		func(n *LoanApplication) { n.decisionReason = reason },
		event.NewLoanApplicationRejected(a.id, a.tenantID, a.farmerID, reason, now),
	)
}

// MarkScheduled transitions APPROVED -> SCHEDULED once the loan exists.
func (a LoanApplication) MarkScheduled(loanID string, now time.Time) (LoanApplication, error) {
	return a.advance(valueobject.ApplicationStatusScheduled, now,
		func(n *LoanApplication) { n.loanID = loanID },
		nil,
	)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a LoanApplication) ID() string { return a.id }
func (a LoanApplication) TenantID() string { return a.tenantID }
func (a LoanApplication) FarmerID() string { return a.farmerID }
func (a LoanApplication) RequestedAmount() decimal.Decimal { return a.requestedAmount }
func (a LoanApplication) Currency() money.Currency { return a.currency }
func (a LoanApplication) TermMonths() int { return a.termMonths }
func (a LoanApplication) Purpose() string { return a.purpose }
func (a LoanApplication) Factors() valueobject.RiskFactors { return a.factors }
func (a LoanApplication) Assessment() valueobject.RiskAssessment { return a.assessment }
func (a LoanApplication) Status() valueobject.ApplicationStatus { return a.status }
func (a LoanApplication) DecisionReason() string { return a.decisionReason }
func (a LoanApplication) AnnualRatePercent() decimal.Decimal { return a.annualRatePercent }
func (a LoanApplication) LoanID() string { return a.loanID }
func (a LoanApplication) Version() int { return a.version }
func (a LoanApplication) CreatedAt() time.Time { return a.createdAt }
func (a LoanApplication) UpdatedAt() time.Time { return a.updatedAt }
func (a LoanApplication) DomainEvents() []event.DomainEvent { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a LoanApplication) ClearEvents() LoanApplication {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
