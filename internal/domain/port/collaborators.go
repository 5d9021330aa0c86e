package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Clock supplies the current time. Nothing below the application layer reads
// the system clock.
type Clock interface {
	Now() time.Time
}

// NotificationKind identifies what happened to a loan.
type NotificationKind string

const (
	NotificationScheduleCreated    NotificationKind = "SCHEDULE_CREATED"
	NotificationPaymentRecorded    NotificationKind = "PAYMENT_RECORDED"
	NotificationInstallmentOverdue NotificationKind = "INSTALLMENT_OVERDUE"
)

// Notification is plain data for the SMS/USSD/email channels. Rendering text
// is the channel's job.
type Notification struct {
	Kind     NotificationKind `json:"kind"`
	LoanID   string           `json:"loan_id"`
	TenantID string           `json:"tenant_id"`
	FarmerID string           `json:"farmer_id"`
	Amount   decimal.Decimal  `json:"amount"`
	Currency string           `json:"currency"`
	DueDate  time.Time        `json:"due_date"`
	Sequence int              `json:"sequence"`
}

// Notifier hands notifications to the farmer-facing channels.
type Notifier interface {
	Notify(ctx context.Context, notifications ...Notification) error
}

// SweepLock provides cluster-wide mutual exclusion for the overdue sweep.
// Acquire returns acquired=false when another holder owns key.
type SweepLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// LendingMetrics records business counters.
type LendingMetrics interface {
	RiskAssessed(ctx context.Context, tier string)
	ScheduleCreated(ctx context.Context, installments int)
	RepaymentRecorded(ctx context.Context, method string)
	InstallmentsOverdue(ctx context.Context, count int)
	SweepCompleted(ctx context.Context, loans int, duration time.Duration)
}
