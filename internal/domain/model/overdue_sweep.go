package model

import (
	"time"

	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

// Reclassify returns a copy of schedule in which every PENDING installment
// whose due date falls strictly before asOf is OVERDUE. Dates are compared
// as civil dates. The input is never modified and PAID installments are
// never touched, so applying it twice with the same asOf is a no-op.
func Reclassify(schedule []Installment, asOf time.Time) []Installment {
	out := copyInstallments(schedule)
	today := civilDate(asOf)
	for i := range out {
		if out[i].Status.Equal(valueobject.InstallmentStatusPending) && civilDate(out[i].DueDate).Before(today) {
			out[i].Status = valueobject.InstallmentStatusOverdue
		}
	}
	return out
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
