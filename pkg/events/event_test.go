package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("EAT", 3*3600))

	evt := NewBaseEvent("lending.loan.created", "loan-123", "Loan", "coop-1", at)

	assert.NotEmpty(t, evt.EventID())
	assert.Equal(t, "lending.loan.created", evt.EventType())
	assert.Equal(t, "loan-123", evt.AggregateID())
	assert.Equal(t, "Loan", evt.AggregateType())
	assert.Equal(t, "coop-1", evt.TenantID())
	assert.True(t, evt.OccurredAt().Equal(at))
	assert.Equal(t, time.UTC, evt.OccurredAt().Location())
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	at := time.Now()
	a := NewBaseEvent("x", "agg", "Loan", "t", at)
	b := NewBaseEvent("x", "agg", "Loan", "t", at)
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestHeaders(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("EAT", 3*3600))
	evt := NewBaseEvent("lending.loan.created", "loan-123", "Loan", "coop-1", at)

	h := Headers(evt)
	assert.Equal(t, evt.EventID(), h["event_id"])
	assert.Equal(t, "lending.loan.created", h["event_type"])
	assert.Equal(t, "Loan", h["aggregate_type"])
	assert.Equal(t, "coop-1", h["tenant_id"])
	assert.Equal(t, "2024-03-01T05:30:00Z", h["occurred_at"])
}

func TestBaseEvent_EmbeddedJSONEnvelope(t *testing.T) {
	type paid struct {
		BaseEvent
		Sequence int `json:"sequence"`
	}
	evt := paid{
		BaseEvent: NewBaseEvent("lending.installment.paid", "loan-1", "Loan", "coop-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		Sequence:  3,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "lending.installment.paid", decoded["event_type"])
	assert.Equal(t, "loan-1", decoded["aggregate_id"])
	assert.Equal(t, "coop-1", decoded["tenant_id"])
	assert.Equal(t, float64(3), decoded["sequence"])
}
