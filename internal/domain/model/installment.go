package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

// Installment is one scheduled repayment of a loan. It is a value: methods
// return modified copies.
type Installment struct {
	DueDate              time.Time
	PaidDate             *time.Time
	LoanID               string
	TransactionReference string
	Amount               decimal.Decimal
	Principal            decimal.Decimal
	Interest             decimal.Decimal
	Status               valueobject.InstallmentStatus
	PaymentMethod        valueobject.PaymentMethod
	Sequence             int
}

// MarkPaid settles a PENDING or OVERDUE installment.
func (i Installment) MarkPaid(method valueobject.PaymentMethod, reference string, paidAt time.Time) (Installment, error) {
	if i.Status.IsPaid() {
		return i, valueobject.ErrInstallmentAlreadyPaid
	}
	status, err := i.Status.TransitionTo(valueobject.InstallmentStatusPaid)
	if err != nil {
		return i, err
	}
	paid := paidAt
	next := i
	next.Status = status
	next.PaidDate = &paid
	next.PaymentMethod = method
	next.TransactionReference = reference
	return next, nil
}

// IsUnpaid reports whether the installment still has money owing.
func (i Installment) IsUnpaid() bool { return !i.Status.IsPaid() }

func copyInstallments(src []Installment) []Installment {
	if src == nil {
		return nil
	}
	dst := make([]Installment, len(src))
	copy(dst, src)
	return dst
}
