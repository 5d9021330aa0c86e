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
// Loan aggregate root (servicing)
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate owning the installment schedule. Mutations
// return a new copy.
type Loan struct {
	id            string
	tenantID      string
	applicationID string
	farmerID      string
	currency      money.Currency
	terms         valueobject.LoanTerms
	status        valueobject.LoanStatus
	installments  []Installment
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates an ACTIVE loan for an approved application and generates
// its schedule.
func NewLoan(
	tenantID, applicationID, farmerID string,
	terms valueobject.LoanTerms,
	currency money.Currency,
	now time.Time,
) (Loan, error) {
	if tenantID == "" {
		return Loan{}, errors.New("tenant ID is required")
	}
	if applicationID == "" {
		return Loan{}, errors.New("application ID is required")
	}
	if farmerID == "" {
		return Loan{}, errors.New("farmer ID is required")
	}
	if terms.IsZero() {
		return Loan{}, errors.New("loan terms are required")
	}
	if currency.IsZero() {
		return Loan{}, errors.New("currency is required")
	}

	id := uuid.New().String()
	schedule := BuildSchedule(id, terms)

	loan := Loan{
		id:            id,
		tenantID:      tenantID,
		applicationID: applicationID,
		farmerID:      farmerID,
		currency:      currency,
		terms:         terms,
		status:        valueobject.LoanStatusActive,
		installments:  schedule,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}

	first := schedule[0]
	loan.domainEvents = append(loan.domainEvents, event.NewScheduleCreated(
		id, tenantID, applicationID, farmerID,
		terms.Principal(), currency.Code(), terms.AnnualRatePercent(),
		terms.TermMonths(), first.DueDate, first.Amount, now,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, tenantID, applicationID, farmerID string,
	currency money.Currency,
	terms valueobject.LoanTerms,
	status valueobject.LoanStatus,
	installments []Installment,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:            id,
		tenantID:      tenantID,
		applicationID: applicationID,
		farmerID:      farmerID,
		currency:      currency,
		terms:         terms,
		status:        status,
		installments:  installments,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordRepayment settles installment sequence and returns the updated loan
// together with the paid installment. Once no overdue installments remain a
// delinquent loan returns to ACTIVE; once every installment is paid the loan
// is PAID_OFF.
func (l Loan) RecordRepayment(
	sequence int,
	method valueobject.PaymentMethod,
	reference string,
	paidAt time.Time,
) (Loan, Installment, error) {
	idx := l.indexOf(sequence)
	if idx < 0 {
		return l, Installment{}, valueobject.ErrInstallmentNotFound
	}

	paid, err := l.installments[idx].MarkPaid(method, reference, paidAt)
	if err != nil {
		return l, Installment{}, err
	}

	next := l
	next.installments = copyInstallments(l.installments)
	next.installments[idx] = paid
	next.updatedAt = paidAt
	next.domainEvents = copyEvents(l.domainEvents)

	outstanding := next.OutstandingAmount()
	next.domainEvents = append(next.domainEvents, event.NewRepaymentRecorded(
		l.id, l.tenantID, sequence, paid.Amount, l.currency.Code(),
		method.String(), reference, paidAt, outstanding,
	))

	switch {
	case outstanding.IsZero() && next.allPaid():
		if next.status, err = l.status.TransitionTo(valueobject.LoanStatusPaidOff); err != nil {
			return l, Installment{}, err
		}
		next.domainEvents = append(next.domainEvents, event.NewLoanPaidOff(l.id, l.tenantID, paidAt))
	case next.status.Equal(valueobject.LoanStatusDelinquent) && !next.hasOverdue():
		if next.status, err = l.status.TransitionTo(valueobject.LoanStatusActive); err != nil {
			return l, Installment{}, err
		}
	}

	return next, paid, nil
}

// Sweep reclassifies the schedule as of asOf. It returns the updated loan and
// the installments that became OVERDUE in this pass; a loan with nothing newly
// overdue is returned unchanged.
func (l Loan) Sweep(asOf time.Time) (Loan, []Installment) {
	swept := Reclassify(l.installments, asOf)

	var newlyOverdue []Installment
	for i := range swept {
		if !swept[i].Status.Equal(l.installments[i].Status) {
			newlyOverdue = append(newlyOverdue, swept[i])
		}
	}
	if len(newlyOverdue) == 0 {
		return l, nil
	}

	next := l
	next.installments = swept
	next.updatedAt = asOf
	next.domainEvents = copyEvents(l.domainEvents)
	for _, inst := range newlyOverdue {
		next.domainEvents = append(next.domainEvents, event.NewInstallmentOverdue(
			l.id, l.tenantID, inst.Sequence, inst.Amount, l.currency.Code(), inst.DueDate, asOf,
		))
	}

	// Only an ACTIVE loan may become DELINQUENT; an already delinquent loan
	// keeps its status.
	if status, err := l.status.TransitionTo(valueobject.LoanStatusDelinquent); err == nil {
		next.status = status
		next.domainEvents = append(next.domainEvents, event.NewLoanDelinquent(
			l.id, l.tenantID, next.OverdueAmount(), next.OutstandingAmount(), asOf,
		))
	}

	return next, newlyOverdue
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// OutstandingAmount is the sum of all unpaid installment amounts.
func (l Loan) OutstandingAmount() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range l.installments {
		if inst.IsUnpaid() {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// OverdueAmount is the sum of OVERDUE installment amounts.
func (l Loan) OverdueAmount() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range l.installments {
		if inst.Status.Equal(valueobject.InstallmentStatusOverdue) {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// NextDue returns the earliest unpaid installment.
func (l Loan) NextDue() (Installment, bool) {
	for _, inst := range l.installments {
		if inst.IsUnpaid() {
			return inst, true
		}
	}
	return Installment{}, false
}

// InstallmentBySequence returns the installment with the given sequence.
func (l Loan) InstallmentBySequence(sequence int) (Installment, bool) {
	idx := l.indexOf(sequence)
	if idx < 0 {
		return Installment{}, false
	}
	return l.installments[idx], true
}

func (l Loan) indexOf(sequence int) int {
	for i := range l.installments {
		if l.installments[i].Sequence == sequence {
			return i
		}
	}
	return -1
}

func (l Loan) allPaid() bool {
	for _, inst := range l.installments {
		if inst.IsUnpaid() {
			return false
		}
	}
	return true
}

func (l Loan) hasOverdue() bool {
	for _, inst := range l.installments {
		if inst.Status.Equal(valueobject.InstallmentStatusOverdue) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string { return l.id }
func (l Loan) TenantID() string { return l.tenantID }
func (l Loan) ApplicationID() string { return l.applicationID }
func (l Loan) FarmerID() string { return l.farmerID }
func (l Loan) Currency() money.Currency { return l.currency }
func (l Loan) Terms() valueobject.LoanTerms { return l.terms }
func (l Loan) Status() valueobject.LoanStatus { return l.status }
func (l Loan) Version() int { return l.version }
func (l Loan) CreatedAt() time.Time { return l.createdAt }
func (l Loan) UpdatedAt() time.Time { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent { return l.domainEvents }

// Installments returns a copy of the schedule ordered by sequence.
func (l Loan) Installments() []Installment { return copyInstallments(l.installments) }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}
