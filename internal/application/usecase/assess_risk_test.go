package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

func TestAssessRisk_Execute(t *testing.T) {
	uc := usecase.NewAssessRiskUseCase(service.NewRiskEngine(), noopMetrics{})

	t.Run("returns score tier factors and contributions", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			Factors: dto.RiskFactorsRequest{
				CropType:         "rice",
				LoanAmount:       decimal.NewFromInt(300_000),
				FarmSizeHectares: decimal.NewFromInt(1),
				EstimatedRevenue: decimal.NewFromInt(200_000),
				HasPreviousLoan:  true,
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 95, resp.Score)
		assert.Equal(t, "VERY_HIGH", resp.Tier)
		assert.Equal(t, []string{"no-collateral", "existing-loan", "crop-irrigation-mismatch"}, resp.Factors)

		sum := 50
		for _, c := range resp.Contributions {
			sum += c.Delta
		}
		assert.Equal(t, 95, sum)
	})

	t.Run("rejects negative revenue", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			Factors: dto.RiskFactorsRequest{EstimatedRevenue: decimal.NewFromInt(-5)},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidFactors)

		var fe *valueobject.InvalidFactorsError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "estimated_revenue", fe.Field)
	})
}
