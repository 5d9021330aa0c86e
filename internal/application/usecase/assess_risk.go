package usecase

import (
	"context"
	"fmt"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
)

// AssessRiskUseCase scores a farm profile without creating an application.
type AssessRiskUseCase struct {
	engine  *service.RiskEngine
	metrics port.LendingMetrics
}

// NewAssessRiskUseCase wires dependencies.
func NewAssessRiskUseCase(engine *service.RiskEngine, metrics port.LendingMetrics) *AssessRiskUseCase {
	return &AssessRiskUseCase{engine: engine, metrics: metrics}
}

// Execute validates the factors and returns the assessment with the
// contribution of each rule.
func (uc *AssessRiskUseCase) Execute(
	ctx context.Context,
	req dto.AssessRiskRequest,
) (dto.RiskAssessmentResponse, error) {
	factors, err := toRiskFactors(req.Factors)
	if err != nil {
		return dto.RiskAssessmentResponse{}, fmt.Errorf("validate factors: %w", err)
	}

	assessment, contributions := uc.engine.Explain(factors)
	uc.metrics.RiskAssessed(ctx, assessment.Tier.String())

	return toAssessmentResponse(assessment, contributions), nil
}
