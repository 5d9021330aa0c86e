package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/telemetry"
	"github.com/olonibua/agricgrow-sub000/pkg/observability"
)

func TestLendingMetrics(t *testing.T) {
	provider, handler, err := observability.InitMetrics(observability.MetricsConfig{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewLendingMetrics(provider.Meter("agricgrow"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RiskAssessed(ctx, "VERY_HIGH")
	m.ScheduleCreated(ctx, 6)
	m.RepaymentRecorded(ctx, "MOBILE_MONEY")
	m.RepaymentRecorded(ctx, "")
	m.InstallmentsOverdue(ctx, 2)
	m.SweepCompleted(ctx, 10, 1500*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `risk_assessments_total{`)
	assert.Contains(t, body, `tier="VERY_HIGH"`)
	assert.Contains(t, body, "schedules_generated_total")
	assert.Contains(t, body, "installments_generated_total")
	assert.Contains(t, body, `method="MOBILE_MONEY"`)
	assert.Contains(t, body, `method="UNKNOWN"`)
	assert.Contains(t, body, "installments_overdue_total")
	assert.Contains(t, body, "sweep_duration_seconds")
}
