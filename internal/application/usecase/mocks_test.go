package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
)

// --- Mocks ---

type mockLoanApplicationRepository struct {
	saveFunc     func(ctx context.Context, app model.LoanApplication) error
	findByIDFunc func(ctx context.Context, tenantID, id string) (model.LoanApplication, error)
	savedApps    []model.LoanApplication
}

func (m *mockLoanApplicationRepository) Save(ctx context.Context, app model.LoanApplication) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockLoanApplicationRepository) FindByID(ctx context.Context, tenantID, id string) (model.LoanApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.LoanApplication{}, port.ErrNotFound
}

type mockLoanRepository struct {
	saveFunc       func(ctx context.Context, loan model.Loan) error
	findByIDFunc   func(ctx context.Context, tenantID, id string) (model.Loan, error)
	findActiveFunc func(ctx context.Context, afterID string, limit int) ([]model.Loan, error)

	mu         sync.Mutex
	savedLoans []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, tenantID, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Loan{}, port.ErrNotFound
}

func (m *mockLoanRepository) FindActive(ctx context.Context, afterID string, limit int) ([]model.Loan, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, afterID, limit)
	}
	return nil, nil
}

// pagedLoans serves loans in ID order the way the Postgres repository does.
func pagedLoans(loans ...model.Loan) func(ctx context.Context, afterID string, limit int) ([]model.Loan, error) {
	sorted := append([]model.Loan(nil), loans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })
	return func(_ context.Context, afterID string, limit int) ([]model.Loan, error) {
		var page []model.Loan
		for _, l := range sorted {
			if l.ID() > afterID {
				page = append(page, l)
			}
			if len(page) == limit {
				break
			}
		}
		return page, nil
	}
}

type mockLendingEventPublisher struct {
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error

	mu              sync.Mutex
	publishedEvents []event.DomainEvent
}

func (m *mockLendingEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockLendingEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, notifications ...port.Notification) error

	mu   sync.Mutex
	sent []port.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, notifications ...port.Notification) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, notifications...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, notifications...)
	return nil
}

type mockSweepLock struct {
	acquireFunc func(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error)
	keys        []string
	released    int
}

func (m *mockSweepLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	m.keys = append(m.keys, key)
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, key, ttl)
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, true, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type noopMetrics struct{}

func (noopMetrics) RiskAssessed(context.Context, string) {}
func (noopMetrics) ScheduleCreated(context.Context, int) {}
func (noopMetrics) RepaymentRecorded(context.Context, string) {}
func (noopMetrics) InstallmentsOverdue(context.Context, int) {}
func (noopMetrics) SweepCompleted(context.Context, int, time.Duration) {}
