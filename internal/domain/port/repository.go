package port

import (
	"context"
	"errors"

	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
)

// ErrNotFound is returned by repositories when no aggregate matches.
var ErrNotFound = errors.New("not found")

// ErrConcurrentModification is returned by Save when the stored version no
// longer matches the aggregate's.
var ErrConcurrentModification = errors.New("concurrent modification")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanApplicationRepository persists and retrieves loan applications.
type LoanApplicationRepository interface {
	Save(ctx context.Context, app model.LoanApplication) error
	FindByID(ctx context.Context, tenantID, id string) (model.LoanApplication, error)
}

// LoanRepository persists loans together with their installment schedules.
// Save stores the schedule keyed by loan ID and upserts each installment by
// (loan ID, sequence); a PAID installment is never downgraded.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, tenantID, id string) (model.Loan, error)
	// FindActive pages through ACTIVE and DELINQUENT loans of every tenant in
	// ID order, returning at most limit loans with an ID greater than afterID.
	FindActive(ctx context.Context, afterID string, limit int) ([]model.Loan, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
