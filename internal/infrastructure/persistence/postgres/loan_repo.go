package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
	pkgpostgres "github.com/olonibua/agricgrow-sub000/pkg/postgres"
)

const loanColumns = `
	id, tenant_id, application_id, farmer_id,
	principal, annual_rate_percent, term_months, start_date,
	currency, status, version, created_at, updated_at`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan and upserts its installments by (loan_id, sequence).
// A PAID installment row is never overwritten.
// Deadlocks and serialization failures surface as ErrConcurrentModification so
// callers reload and retry.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		loanQuery := `
			INSERT INTO loans (` + loanColumns + `
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (id) DO UPDATE SET
				status     = EXCLUDED.status,
				version    = loans.version + 1,
				updated_at = EXCLUDED.updated_at
			WHERE loans.version = $11
		`
		terms := loan.Terms()
		tag, err := tx.Exec(ctx, loanQuery,
			loan.ID(), loan.TenantID(), loan.ApplicationID(), loan.FarmerID(),
			terms.Principal(), terms.AnnualRatePercent(), terms.TermMonths(), terms.StartDate(),
			loan.Currency().Code(), loan.Status().String(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("loan %s: %w", loan.ID(), port.ErrConcurrentModification)
		}

		installmentQuery := `
			INSERT INTO installments (
				loan_id, sequence, due_date, amount, principal, interest,
				status, paid_at, payment_method, transaction_reference
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (loan_id, sequence) DO UPDATE SET
				status                = EXCLUDED.status,
				paid_at               = EXCLUDED.paid_at,
				payment_method        = EXCLUDED.payment_method,
				transaction_reference = EXCLUDED.transaction_reference
			WHERE installments.status <> 'PAID'
		`
		batch := &pgx.Batch{}
		for _, inst := range loan.Installments() {
			batch.Queue(installmentQuery,
				loan.ID(), inst.Sequence, inst.DueDate, inst.Amount, inst.Principal, inst.Interest,
				inst.Status.String(), inst.PaidDate, inst.PaymentMethod.String(), inst.TransactionReference,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save installments: %w", err)
		}
		return nil
	})
	if pkgpostgres.IsRetryable(err) {
		return fmt.Errorf("loan %s: %w: %w", loan.ID(), port.ErrConcurrentModification, err)
	}
	return err
}

// FindByID retrieves a loan and its schedule.
func (r *LoanRepo) FindByID(ctx context.Context, tenantID, id string) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE tenant_id = $1 AND id = $2`

	row, err := scanLoanRow(r.pool.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, port.ErrNotFound)
	}
	if err != nil {
		return model.Loan{}, err
	}

	schedules, err := r.loadSchedules(ctx, row.id)
	if err != nil {
		return model.Loan{}, err
	}
	return row.toLoan(schedules[row.id])
}

// FindActive pages through ACTIVE and DELINQUENT loans of every tenant in ID
// order.
func (r *LoanRepo) FindActive(ctx context.Context, afterID string, limit int) ([]model.Loan, error) {
	if afterID == "" {
		afterID = uuid.Nil.String()
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status IN ('ACTIVE', 'DELINQUENT') AND id > $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query active loans: %w", err)
	}
	defer rows.Close()

	var (
		loanRows []loanRow
		ids      []string
	)
	for rows.Next() {
		row, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loanRows = append(loanRows, row)
		ids = append(ids, row.id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active loans: %w", err)
	}
	if len(loanRows) == 0 {
		return nil, nil
	}

	schedules, err := r.loadSchedules(ctx, ids...)
	if err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0, len(loanRows))
	for _, row := range loanRows {
		loan, err := row.toLoan(schedules[row.id])
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

type loanRow struct {
	startDate            time.Time
	createdAt, updatedAt time.Time
	id, tenantID         string
	applicationID        string
	farmerID             string
	currency, status     string
	principal, rate      decimal.Decimal
	termMonths, version  int
}

func scanLoanRow(s scannable) (loanRow, error) {
	var row loanRow
	err := s.Scan(
		&row.id, &row.tenantID, &row.applicationID, &row.farmerID,
		&row.principal, &row.rate, &row.termMonths, &row.startDate,
		&row.currency, &row.status, &row.version, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loanRow{}, err
		}
		return loanRow{}, fmt.Errorf("scan loan: %w", err)
	}
	return row, nil
}

func (row loanRow) toLoan(schedule []model.Installment) (model.Loan, error) {
	status, err := valueobject.NewLoanStatus(row.status)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}
	currency, err := money.NewCurrency(row.currency)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse currency: %w", err)
	}
	terms, err := valueobject.NewLoanTerms(row.principal, row.rate, row.termMonths, row.startDate)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan terms: %w", err)
	}
	return model.ReconstructLoan(
		row.id, row.tenantID, row.applicationID, row.farmerID,
		currency, terms, status, schedule,
		row.version, row.createdAt, row.updatedAt,
	), nil
}

// loadSchedules returns the installments of each loan keyed by loan ID.
func (r *LoanRepo) loadSchedules(ctx context.Context, loanIDs ...string) (map[string][]model.Installment, error) {
	query := `
		SELECT loan_id, sequence, due_date, amount, principal, interest,
		       status, paid_at, payment_method, transaction_reference
		FROM installments
		WHERE loan_id = ANY($1::uuid[])
		ORDER BY loan_id, sequence
	`
	rows, err := r.pool.Query(ctx, query, loanIDs)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	schedules := make(map[string][]model.Installment, len(loanIDs))
	for rows.Next() {
		var (
			inst              model.Installment
			statusStr, method string
		)
		if err := rows.Scan(
			&inst.LoanID, &inst.Sequence, &inst.DueDate, &inst.Amount, &inst.Principal, &inst.Interest,
			&statusStr, &inst.PaidDate, &method, &inst.TransactionReference,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		if inst.Status, err = valueobject.NewInstallmentStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		if inst.PaymentMethod, err = valueobject.NewPaymentMethod(method); err != nil {
			return nil, fmt.Errorf("parse payment method: %w", err)
		}
		schedules[inst.LoanID] = append(schedules[inst.LoanID], inst)
	}
	return schedules, rows.Err()
}
