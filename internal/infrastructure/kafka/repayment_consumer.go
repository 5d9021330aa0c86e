package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
	pkgkafka "github.com/olonibua/agricgrow-sub000/pkg/kafka"
)

// RepaymentRecorder is satisfied by *usecase.RecordRepaymentUseCase.
type RepaymentRecorder interface {
	Execute(ctx context.Context, req dto.RecordRepaymentRequest) (dto.RepaymentResponse, error)
}

// repaymentMessage is what the mobile-money gateway publishes once a farmer's
// payment clears.
type repaymentMessage struct {
	PaidAt               time.Time `json:"paid_at"`
	TenantID             string    `json:"tenant_id"`
	LoanID               string    `json:"loan_id"`
	PaymentMethod        string    `json:"payment_method"`
	TransactionReference string    `json:"transaction_reference"`
	Sequence             int       `json:"sequence"`
}

// RepaymentHandler turns repayment messages into RecordRepayment calls.
type RepaymentHandler struct {
	recorder RepaymentRecorder
	logger   *slog.Logger
}

// NewRepaymentHandler wires dependencies.
func NewRepaymentHandler(recorder RepaymentRecorder, logger *slog.Logger) *RepaymentHandler {
	return &RepaymentHandler{recorder: recorder, logger: logger}
}

// Handle implements pkgkafka.Handler. Messages that can never succeed are
// reported with pkgkafka.ErrSkipMessage so the consumer commits them.
func (h *RepaymentHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var m repaymentMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		return fmt.Errorf("decode repayment: %w: %w", err, pkgkafka.ErrSkipMessage)
	}
	if m.TenantID == "" || m.LoanID == "" || m.Sequence <= 0 {
		return fmt.Errorf("repayment missing tenant, loan or sequence: %w", pkgkafka.ErrSkipMessage)
	}

	resp, err := h.recorder.Execute(ctx, dto.RecordRepaymentRequest{
		TenantID:             m.TenantID,
		LoanID:               m.LoanID,
		Sequence:             m.Sequence,
		PaymentMethod:        m.PaymentMethod,
		TransactionReference: m.TransactionReference,
		PaidAt:               m.PaidAt,
	})
	switch {
	case errors.Is(err, valueobject.ErrInstallmentAlreadyPaid):
		h.logger.InfoContext(ctx, "duplicate repayment ignored",
			"loan_id", m.LoanID, "sequence", m.Sequence, "reference", m.TransactionReference)
		return nil
	case errors.Is(err, port.ErrNotFound),
		errors.Is(err, valueobject.ErrInstallmentNotFound),
		errors.Is(err, valueobject.ErrInvalidPaymentMethod):
		return fmt.Errorf("record repayment: %w: %w", err, pkgkafka.ErrSkipMessage)
	case err != nil:
		return fmt.Errorf("record repayment: %w", err)
	}

	h.logger.InfoContext(ctx, "repayment recorded",
		"loan_id", resp.LoanID,
		"sequence", resp.Installment.Sequence,
		"loan_status", resp.LoanStatus,
	)
	return nil
}
