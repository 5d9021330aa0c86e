package usecase

import (
	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/domain/model"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/domain/valueobject"
)

func toRiskFactors(req dto.RiskFactorsRequest) (valueobject.RiskFactors, error) {
	return valueobject.NewRiskFactors(valueobject.RiskFactorsParams{
		CropType:         req.CropType,
		LoanAmount:       req.LoanAmount,
		FarmSizeHectares: req.FarmSizeHectares,
		EstimatedRevenue: req.EstimatedRevenue,
		HasCollateral:    req.HasCollateral,
		HasPreviousLoan:  req.HasPreviousLoan,
		HasIrrigation:    req.HasIrrigation,
		HasInsurance:     req.HasInsurance,
	})
}

func toAssessmentResponse(a valueobject.RiskAssessment, contributions []service.ScoreContribution) dto.RiskAssessmentResponse {
	resp := dto.RiskAssessmentResponse{
		Score:   a.Score,
		Tier:    a.Tier.String(),
		Factors: a.FactorStrings(),
	}
	for _, c := range contributions {
		resp.Contributions = append(resp.Contributions, dto.ScoreContributionResponse{Rule: c.Rule, Delta: c.Delta})
	}
	return resp
}

func toInstallmentResponse(i model.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		Sequence:             i.Sequence,
		DueDate:              i.DueDate,
		PaidDate:             i.PaidDate,
		Amount:               i.Amount,
		Principal:            i.Principal,
		Interest:             i.Interest,
		Status:               i.Status.String(),
		PaymentMethod:        i.PaymentMethod.String(),
		TransactionReference: i.TransactionReference,
	}
}

func toInstallmentResponses(schedule []model.Installment) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, 0, len(schedule))
	for _, i := range schedule {
		out = append(out, toInstallmentResponse(i))
	}
	return out
}

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	terms := loan.Terms()
	resp := dto.LoanResponse{
		ID:                loan.ID(),
		TenantID:          loan.TenantID(),
		ApplicationID:     loan.ApplicationID(),
		FarmerID:          loan.FarmerID(),
		Principal:         terms.Principal(),
		AnnualRatePercent: terms.AnnualRatePercent(),
		TermMonths:        terms.TermMonths(),
		StartDate:         terms.StartDate(),
		Currency:          loan.Currency().Code(),
		Status:            loan.Status().String(),
		Outstanding:       loan.OutstandingAmount(),
		Overdue:           loan.OverdueAmount(),
		Installments:      toInstallmentResponses(loan.Installments()),
		CreatedAt:         loan.CreatedAt(),
		UpdatedAt:         loan.UpdatedAt(),
	}
	if next, ok := loan.NextDue(); ok {
		n := toInstallmentResponse(next)
		resp.NextDue = &n
	}
	return resp
}

func toApplicationResponse(app model.LoanApplication) dto.LoanApplicationResponse {
	resp := dto.LoanApplicationResponse{
		ID:                app.ID(),
		TenantID:          app.TenantID(),
		FarmerID:          app.FarmerID(),
		RequestedAmount:   app.RequestedAmount(),
		Currency:          app.Currency().Code(),
		TermMonths:        app.TermMonths(),
		Purpose:           app.Purpose(),
		CropType:          app.Factors().CropType().String(),
		Status:            app.Status().String(),
		DecisionReason:    app.DecisionReason(),
		AnnualRatePercent: app.AnnualRatePercent(),
		LoanID:            app.LoanID(),
		CreatedAt:         app.CreatedAt(),
		UpdatedAt:         app.UpdatedAt(),
	}
	if !app.Assessment().IsZero() {
		a := toAssessmentResponse(app.Assessment(), nil)
		resp.Assessment = &a
	}
	return resp
}
