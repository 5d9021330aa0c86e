package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RiskFactorsRequest carries the farm profile used for risk scoring.
type RiskFactorsRequest struct {
	CropType         string          `json:"crop_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	FarmSizeHectares decimal.Decimal `json:"farm_size_hectares"`
	EstimatedRevenue decimal.Decimal `json:"estimated_revenue"`
	HasCollateral    bool            `json:"has_collateral"`
	HasPreviousLoan  bool            `json:"has_previous_loan"`
	HasIrrigation    bool            `json:"has_irrigation"`
	HasInsurance     bool            `json:"has_insurance"`
}

// AssessRiskRequest asks for a stand-alone risk assessment.
type AssessRiskRequest struct {
	Factors RiskFactorsRequest `json:"factors"`
}

// PreviewScheduleRequest describes loan terms to amortize without persisting.
type PreviewScheduleRequest struct {
	StartDate         time.Time       `json:"start_date"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	Currency          string          `json:"currency"`
	TermMonths        int             `json:"term_months"`
}

// SubmitApplicationRequest carries the data needed to submit a new loan application.
type SubmitApplicationRequest struct {
	TenantID        string             `json:"tenant_id"`
	FarmerID        string             `json:"farmer_id"`
	RequestedAmount decimal.Decimal    `json:"requested_amount"`
	Currency        string             `json:"currency"`
	Purpose         string             `json:"purpose"`
	Factors         RiskFactorsRequest `json:"factors"`
	TermMonths      int                `json:"term_months"`
}

// ApproveLoanRequest asks for an underwriting decision on an application.
// StartDate defaults to the current date when zero.
type ApproveLoanRequest struct {
	StartDate     time.Time `json:"start_date"`
	TenantID      string    `json:"tenant_id"`
	ApplicationID string    `json:"application_id"`
}

// RecordRepaymentRequest settles one installment.
type RecordRepaymentRequest struct {
	PaidAt               time.Time `json:"paid_at"`
	TenantID             string    `json:"tenant_id"`
	LoanID               string    `json:"loan_id"`
	PaymentMethod        string    `json:"payment_method"`
	TransactionReference string    `json:"transaction_reference"`
	Sequence             int       `json:"sequence"`
}

// SweepOverdueRequest triggers an overdue sweep. AsOf defaults to now.
type SweepOverdueRequest struct {
	AsOf time.Time `json:"as_of"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	TenantID string `json:"tenant_id"`
	LoanID   string `json:"loan_id"`
}

// GetApplicationRequest identifies a loan application to retrieve.
type GetApplicationRequest struct {
	TenantID      string `json:"tenant_id"`
	ApplicationID string `json:"application_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScoreContributionResponse is one rule's effect on a risk score.
type ScoreContributionResponse struct {
	Rule  string `json:"rule"`
	Delta int    `json:"delta"`
}

// RiskAssessmentResponse is the external representation of a risk assessment.
type RiskAssessmentResponse struct {
	Tier          string                      `json:"tier"`
	Factors       []string                    `json:"factors"`
	Contributions []ScoreContributionResponse `json:"contributions,omitempty"`
	Score         int                         `json:"score"`
}

// InstallmentResponse represents a single installment of a schedule.
type InstallmentResponse struct {
	DueDate              time.Time       `json:"due_date"`
	PaidDate             *time.Time      `json:"paid_date,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Principal            decimal.Decimal `json:"principal"`
	Interest             decimal.Decimal `json:"interest"`
	Status               string          `json:"status"`
	PaymentMethod        string          `json:"payment_method,omitempty"`
	TransactionReference string          `json:"transaction_reference,omitempty"`
	Sequence             int             `json:"sequence"`
}

// ScheduleResponse is a previewed repayment schedule.
type ScheduleResponse struct {
	MonthlyPayment decimal.Decimal       `json:"monthly_payment"`
	TotalInterest  decimal.Decimal       `json:"total_interest"`
	TotalPayable   decimal.Decimal       `json:"total_payable"`
	Currency       string                `json:"currency,omitempty"`
	Installments   []InstallmentResponse `json:"installments"`
}

// LoanApplicationResponse is the external representation of a loan application.
type LoanApplicationResponse struct {
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Assessment        *RiskAssessmentResponse `json:"assessment,omitempty"`
	ID                string                  `json:"id"`
	TenantID          string                  `json:"tenant_id"`
	FarmerID          string                  `json:"farmer_id"`
	RequestedAmount   decimal.Decimal         `json:"requested_amount"`
	AnnualRatePercent decimal.Decimal         `json:"annual_rate_percent"`
	Currency          string                  `json:"currency"`
	CropType          string                  `json:"crop_type"`
	Purpose           string                  `json:"purpose"`
	Status            string                  `json:"status"`
	DecisionReason    string                  `json:"decision_reason,omitempty"`
	LoanID            string                  `json:"loan_id,omitempty"`
	TermMonths        int                     `json:"term_months"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	StartDate         time.Time             `json:"start_date"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	NextDue           *InstallmentResponse  `json:"next_due,omitempty"`
	ID                string                `json:"id"`
	TenantID          string                `json:"tenant_id"`
	ApplicationID     string                `json:"application_id"`
	FarmerID          string                `json:"farmer_id"`
	Principal         decimal.Decimal       `json:"principal"`
	AnnualRatePercent decimal.Decimal       `json:"annual_rate_percent"`
	Outstanding       decimal.Decimal       `json:"outstanding"`
	Overdue           decimal.Decimal       `json:"overdue"`
	Currency          string                `json:"currency"`
	Status            string                `json:"status"`
	Installments      []InstallmentResponse `json:"installments"`
	TermMonths        int                   `json:"term_months"`
}

// ApproveLoanResponse reports the underwriting decision and, when approved,
// the scheduled loan.
type ApproveLoanResponse struct {
	Loan        *LoanResponse           `json:"loan,omitempty"`
	Application LoanApplicationResponse `json:"application"`
	Approved    bool                    `json:"approved"`
}

// RepaymentResponse summarises a recorded repayment.
type RepaymentResponse struct {
	Installment InstallmentResponse `json:"installment"`
	LoanID      string              `json:"loan_id"`
	LoanStatus  string              `json:"loan_status"`
	Outstanding decimal.Decimal     `json:"outstanding"`
	Currency    string              `json:"currency"`
}

// SweepOverdueResponse summarises one sweep run.
type SweepOverdueResponse struct {
	AsOf                time.Time `json:"as_of"`
	LoansScanned        int       `json:"loans_scanned"`
	LoansUpdated        int       `json:"loans_updated"`
	LoansFailed         int       `json:"loans_failed"`
	InstallmentsOverdue int       `json:"installments_overdue"`
	Skipped             bool      `json:"skipped"`
}
