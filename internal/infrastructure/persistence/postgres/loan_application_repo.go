package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

// LoanApplicationRepo implements port.LoanApplicationRepository.
type LoanApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewLoanApplicationRepo creates a new repository backed by PostgreSQL.
func NewLoanApplicationRepo(pool *pgxpool.Pool) *LoanApplicationRepo {
	return &LoanApplicationRepo{pool: pool}
}

// Save persists a loan application (upsert by ID with optimistic locking).
func (r *LoanApplicationRepo) Save(ctx context.Context, app model.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (
			id, tenant_id, farmer_id, requested_amount, currency,
			term_months, purpose, crop_type, loan_amount, farm_size_hectares,
			estimated_revenue, has_collateral, has_previous_loan, has_irrigation, has_insurance,
			risk_score, risk_factors, status, decision_reason, annual_rate_percent,
			loan_id, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		ON CONFLICT (id) DO UPDATE SET
			risk_score          = EXCLUDED.risk_score,
			risk_factors        = EXCLUDED.risk_factors,
			status              = EXCLUDED.status,
			decision_reason     = EXCLUDED.decision_reason,
			annual_rate_percent = EXCLUDED.annual_rate_percent,
			loan_id             = EXCLUDED.loan_id,
			version             = loan_applications.version + 1,
			updated_at          = EXCLUDED.updated_at
		WHERE loan_applications.version = $22
	`
	f := app.Factors()
	assessment := app.Assessment()

	var riskScore *int
	if !assessment.IsZero() {
		score := assessment.Score
		riskScore = &score
	}

	tag, err := r.pool.Exec(ctx, query,
		app.ID(), app.TenantID(), app.FarmerID(), app.RequestedAmount(), app.Currency().Code(),
		app.TermMonths(), app.Purpose(), f.CropType().String(), f.LoanAmount(), f.FarmSizeHectares(),
		f.EstimatedRevenue(), f.HasCollateral(), f.HasPreviousLoan(), f.HasIrrigation(), f.HasInsurance(),
		riskScore, assessment.FactorStrings(), app.Status().String(), app.DecisionReason(), app.AnnualRatePercent(),
		nullableUUID(app.LoanID()), app.Version(), app.CreatedAt(), app.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan application %s: %w", app.ID(), port.ErrConcurrentModification)
	}
	return nil
}

// FindByID retrieves a single loan application.
func (r *LoanApplicationRepo) FindByID(ctx context.Context, tenantID, id string) (model.LoanApplication, error) {
	query := `
		SELECT id, tenant_id, farmer_id, requested_amount, currency,
		       term_months, purpose, crop_type, loan_amount, farm_size_hectares,
		       estimated_revenue, has_collateral, has_previous_loan, has_irrigation, has_insurance,
		       risk_score, risk_factors, status, decision_reason, annual_rate_percent,
		       loan_id, version, created_at, updated_at
		FROM loan_applications
		WHERE tenant_id = $1 AND id = $2
	`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanApplication{}, fmt.Errorf("loan application %s: %w", id, port.ErrNotFound)
	}
	return app, err
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var (
		id, tenantID, farmerID, currencyCode string
		purpose, cropType, statusStr, reason string
		requestedAmount, loanAmount          decimal.Decimal
		farmSize, revenue, ratePercent       decimal.Decimal
		termMonths, version                  int
		hasCollateral, hasPreviousLoan       bool
		hasIrrigation, hasInsurance          bool
		riskScore                            *int
		riskFactors                          []string
		loanID                               *string
		createdAt, updatedAt                 time.Time
	)

	err := s.Scan(
		&id, &tenantID, &farmerID, &requestedAmount, &currencyCode,
		&termMonths, &purpose, &cropType, &loanAmount, &farmSize,
		&revenue, &hasCollateral, &hasPreviousLoan, &hasIrrigation, &hasInsurance,
		&riskScore, &riskFactors, &statusStr, &reason, &ratePercent,
		&loanID, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoanApplication{}, err
		}
		return model.LoanApplication{}, fmt.Errorf("scan loan application: %w", err)
	}

	status, err := valueobject.NewApplicationStatus(statusStr)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse application status: %w", err)
	}
	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse currency: %w", err)
	}
	factors, err := valueobject.NewRiskFactors(valueobject.RiskFactorsParams{
		CropType:         cropType,
		LoanAmount:       loanAmount,
		FarmSizeHectares: farmSize,
		EstimatedRevenue: revenue,
		HasCollateral:    hasCollateral,
		HasPreviousLoan:  hasPreviousLoan,
		HasIrrigation:    hasIrrigation,
		HasInsurance:     hasInsurance,
	})
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse risk factors: %w", err)
	}

	var assessment valueobject.RiskAssessment
	if riskScore != nil {
		ids := make([]valueobject.RiskFactorID, len(riskFactors))
		for i, f := range riskFactors {
			ids[i] = valueobject.RiskFactorID(f)
		}
		assessment = valueobject.ReconstructRiskAssessment(*riskScore, ids)
	}

	var linkedLoan string
	if loanID != nil {
		linkedLoan = *loanID
	}

	return model.ReconstructLoanApplication(
		id, tenantID, farmerID, requestedAmount, currency,
		termMonths, purpose, factors, assessment, status, reason,
		ratePercent, linkedLoan, version, createdAt, updatedAt,
	), nil
}

func nullableUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
