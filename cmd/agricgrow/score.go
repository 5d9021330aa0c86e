package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/telemetry"
)

func scoreCmd() *cobra.Command {
	var (
		amount, farmSize, revenue string
		f                         dto.RiskFactorsRequest
		asJSON                    bool
	)

	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score a farmer's risk factors",
		Example: `  agricgrow score --crop maize --amount 150000 --farm-size 2 --revenue 400000 --collateral --insurance`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if f.LoanAmount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("parse --amount: %w", err)
			}
			if f.FarmSizeHectares, err = decimal.NewFromString(farmSize); err != nil {
				return fmt.Errorf("parse --farm-size: %w", err)
			}
			if f.EstimatedRevenue, err = decimal.NewFromString(revenue); err != nil {
				return fmt.Errorf("parse --revenue: %w", err)
			}

			metrics, err := telemetry.NewLendingMetrics(noop.NewMeterProvider().Meter("agricgrow"))
			if err != nil {
				return err
			}
			resp, err := usecase.NewAssessRiskUseCase(service.NewRiskEngine(), metrics).
				Execute(cmd.Context(), dto.AssessRiskRequest{Factors: f})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return printAssessment(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&f.CropType, "crop", "", "crop grown, e.g. maize, rice, tomato")
	cmd.Flags().StringVar(&amount, "amount", "", "requested loan amount")
	cmd.Flags().StringVar(&farmSize, "farm-size", "0", "farm size in hectares")
	cmd.Flags().StringVar(&revenue, "revenue", "0", "estimated annual revenue")
	cmd.Flags().BoolVar(&f.HasCollateral, "collateral", false, "farmer offers collateral")
	cmd.Flags().BoolVar(&f.HasPreviousLoan, "previous-loan", false, "farmer has an existing loan")
	cmd.Flags().BoolVar(&f.HasIrrigation, "irrigation", false, "farm is irrigated")
	cmd.Flags().BoolVar(&f.HasInsurance, "insurance", false, "crop is insured")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printAssessment(out io.Writer, a dto.RiskAssessmentResponse) error {
	fmt.Fprintf(out, "score %d  tier %s\n", a.Score, a.Tier)
	if len(a.Factors) > 0 {
		fmt.Fprintf(out, "factors %s\n", strings.Join(a.Factors, ", "))
	}
	for _, c := range a.Contributions {
		fmt.Fprintf(out, "  %+4d  %s\n", c.Delta, c.Rule)
	}
	return nil
}
