package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
)

const sweepLockPrefix = "agricgrow:sweep:"

// SweepConfig bounds a sweep run.
type SweepConfig struct {
	PageSize    int
	Concurrency int
	LockTTL     time.Duration
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.PageSize <= 0 {
		c.PageSize = 200
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 8
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Minute
	}
	return c
}

// SweepOverdueUseCase marks past-due installments OVERDUE across all active
// loans. Loans are swept in parallel; a loan that fails is logged, counted
// and skipped.
type SweepOverdueUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	notifier  port.Notifier
	lock      port.SweepLock
	clock     port.Clock
	metrics   port.LendingMetrics
	logger    *slog.Logger
	cfg       SweepConfig
}

// NewSweepOverdueUseCase wires dependencies.
func NewSweepOverdueUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	notifier port.Notifier,
	lock port.SweepLock,
	clock port.Clock,
	metrics port.LendingMetrics,
	logger *slog.Logger,
	cfg SweepConfig,
) *SweepOverdueUseCase {
	return &SweepOverdueUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		notifier:  notifier,
		lock:      lock,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg.withDefaults(),
	}
}

// Execute runs one sweep as of req.AsOf. Only one sweep per civil date runs
// at a time across the cluster; a run that loses the lock reports Skipped.
func (uc *SweepOverdueUseCase) Execute(
	ctx context.Context,
	req dto.SweepOverdueRequest,
) (dto.SweepOverdueResponse, error) {
	started := uc.clock.Now()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = started
	}
	resp := dto.SweepOverdueResponse{AsOf: asOf}

	// 1. Take the cluster-wide lock for this date.
	key := sweepLockPrefix + asOf.Format(time.DateOnly)
	release, acquired, err := uc.lock.Acquire(ctx, key, uc.cfg.LockTTL)
	if err != nil {
		return resp, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !acquired {
		uc.logger.InfoContext(ctx, "sweep already running elsewhere", "key", key)
		resp.Skipped = true
		return resp, nil
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.WarnContext(ctx, "release sweep lock", "key", key, "error", err)
		}
	}()

	// 2. Page through active loans and sweep each page in parallel.
	var scanned, updated, overdue, failed atomic.Int64
	afterID := ""
	for {
		page, err := uc.loanRepo.FindActive(ctx, afterID, uc.cfg.PageSize)
		if err != nil {
			return resp, fmt.Errorf("find active loans: %w", err)
		}
		if len(page) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(uc.cfg.Concurrency)
		for _, loan := range page {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				n, err := uc.sweepLoan(gctx, loan, asOf)
				scanned.Add(1)
				if err != nil {
					failed.Add(1)
					uc.logger.ErrorContext(gctx, "sweep loan failed", "loan_id", loan.ID(), "error", err)
					return nil
				}
				if n > 0 {
					updated.Add(1)
					overdue.Add(int64(n))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return resp, fmt.Errorf("sweep loans: %w", err)
		}

		afterID = page[len(page)-1].ID()
		if len(page) < uc.cfg.PageSize {
			break
		}
	}

	resp.LoansScanned = int(scanned.Load())
	resp.LoansUpdated = int(updated.Load())
	resp.LoansFailed = int(failed.Load())
	resp.InstallmentsOverdue = int(overdue.Load())

	uc.metrics.InstallmentsOverdue(ctx, resp.InstallmentsOverdue)
	uc.metrics.SweepCompleted(ctx, resp.LoansScanned, uc.clock.Now().Sub(started))
	uc.logger.InfoContext(ctx, "overdue sweep completed",
		"as_of", asOf.Format(time.DateOnly),
		"loans_scanned", resp.LoansScanned,
		"loans_updated", resp.LoansUpdated,
		"loans_failed", resp.LoansFailed,
		"installments_overdue", resp.InstallmentsOverdue,
	)

	return resp, nil
}

// sweepLoan reclassifies one loan and returns how many installments became
// overdue. A loan changed since its page was read, typically by a repayment,
// is reloaded and swept once more.
func (uc *SweepOverdueUseCase) sweepLoan(ctx context.Context, loan model.Loan, asOf time.Time) (int, error) {
	swept, newlyOverdue := loan.Sweep(asOf)
	if len(newlyOverdue) == 0 {
		return 0, nil
	}

	err := uc.loanRepo.Save(ctx, swept)
	if errors.Is(err, port.ErrConcurrentModification) {
		fresh, findErr := uc.loanRepo.FindByID(ctx, loan.TenantID(), loan.ID())
		if findErr != nil {
			return 0, fmt.Errorf("reload loan: %w", findErr)
		}
		if swept, newlyOverdue = fresh.Sweep(asOf); len(newlyOverdue) == 0 {
			return 0, nil
		}
		err = uc.loanRepo.Save(ctx, swept)
	}
	if err != nil {
		return 0, fmt.Errorf("save loan: %w", err)
	}
	if err := uc.publisher.Publish(ctx, swept.DomainEvents()...); err != nil {
		return 0, fmt.Errorf("publish events: %w", err)
	}

	notifications := make([]port.Notification, 0, len(newlyOverdue))
	for _, inst := range newlyOverdue {
		notifications = append(notifications, port.Notification{
			Kind:     port.NotificationInstallmentOverdue,
			LoanID:   swept.ID(),
			TenantID: swept.TenantID(),
			FarmerID: swept.FarmerID(),
			Amount:   inst.Amount,
			Currency: swept.Currency().Code(),
			DueDate:  inst.DueDate,
			Sequence: inst.Sequence,
		})
	}
	if err := uc.notifier.Notify(ctx, notifications...); err != nil {
		return 0, fmt.Errorf("notify farmer: %w", err)
	}

	return len(newlyOverdue), nil
}
