// Package telemetry records lending business metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LendingMetrics implements port.LendingMetrics.
type LendingMetrics struct {
	riskAssessments     metric.Int64Counter
	schedulesGenerated  metric.Int64Counter
	installmentsBooked  metric.Int64Counter
	repaymentsRecorded  metric.Int64Counter
	installmentsOverdue metric.Int64Counter
	sweepLoans          metric.Int64Counter
	sweepDuration       metric.Float64Histogram
}

// NewLendingMetrics creates the instruments on meter.
func NewLendingMetrics(meter metric.Meter) (*LendingMetrics, error) {
	var (
		m   LendingMetrics
		err error
	)
	if m.riskAssessments, err = meter.Int64Counter("risk_assessments",
		metric.WithDescription("Risk assessments computed, by tier.")); err != nil {
		return nil, fmt.Errorf("create risk_assessments counter: %w", err)
	}
	if m.schedulesGenerated, err = meter.Int64Counter("schedules_generated",
		metric.WithDescription("Repayment schedules generated for booked loans.")); err != nil {
		return nil, fmt.Errorf("create schedules_generated counter: %w", err)
	}
	if m.installmentsBooked, err = meter.Int64Counter("installments_generated",
		metric.WithDescription("Installments created across all generated schedules.")); err != nil {
		return nil, fmt.Errorf("create installments_generated counter: %w", err)
	}
	if m.repaymentsRecorded, err = meter.Int64Counter("repayments_recorded",
		metric.WithDescription("Installments settled, by payment method.")); err != nil {
		return nil, fmt.Errorf("create repayments_recorded counter: %w", err)
	}
	if m.installmentsOverdue, err = meter.Int64Counter("installments_overdue",
		metric.WithDescription("Installments marked OVERDUE by the sweep.")); err != nil {
		return nil, fmt.Errorf("create installments_overdue counter: %w", err)
	}
	if m.sweepLoans, err = meter.Int64Counter("sweep_loans_scanned",
		metric.WithDescription("Loans examined by the overdue sweep.")); err != nil {
		return nil, fmt.Errorf("create sweep_loans_scanned counter: %w", err)
	}
	if m.sweepDuration, err = meter.Float64Histogram("sweep_duration",
		metric.WithUnit("s"),
		metric.WithDescription("Wall time of one overdue sweep run.")); err != nil {
		return nil, fmt.Errorf("create sweep_duration histogram: %w", err)
	}
	return &m, nil
}

func (m *LendingMetrics) RiskAssessed(ctx context.Context, tier string) {
	m.riskAssessments.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

func (m *LendingMetrics) ScheduleCreated(ctx context.Context, installments int) {
	m.schedulesGenerated.Add(ctx, 1)
	m.installmentsBooked.Add(ctx, int64(installments))
}

func (m *LendingMetrics) RepaymentRecorded(ctx context.Context, method string) {
	if method == "" {
		method = "UNKNOWN"
	}
	m.repaymentsRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

func (m *LendingMetrics) InstallmentsOverdue(ctx context.Context, count int) {
	if count > 0 {
		m.installmentsOverdue.Add(ctx, int64(count))
	}
}

func (m *LendingMetrics) SweepCompleted(ctx context.Context, loans int, duration time.Duration) {
	m.sweepLoans.Add(ctx, int64(loans))
	m.sweepDuration.Record(ctx, duration.Seconds())
}
