package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/clock"
	"github.com/olonibua/agricgrow-sub000/pkg/money"
)

func scheduleCmd() *cobra.Command {
	var (
		principal, rate, start, currency string
		term                             int
		asJSON                           bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the repayment schedule for a set of loan terms",
		Example: `  agricgrow schedule --principal 30000 --rate 12 --term 12 --start 2024-01-15
  agricgrow schedule --principal 5000 --rate 0 --term 6 --currency KES --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := decimal.NewFromString(principal)
			if err != nil {
				return fmt.Errorf("parse --principal: %w", err)
			}
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("parse --rate: %w", err)
			}
			req := dto.PreviewScheduleRequest{
				Principal:         p,
				AnnualRatePercent: r,
				TermMonths:        term,
				Currency:          currency,
			}
			if start != "" {
				if req.StartDate, err = time.Parse(time.DateOnly, start); err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
			}

			resp, err := usecase.NewPreviewScheduleUseCase(clock.System{}).Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return printSchedule(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "amount borrowed")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent (0-100)")
	cmd.Flags().IntVar(&term, "term", 12, "term in months")
	cmd.Flags().StringVar(&start, "start", "", "disbursement date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func printSchedule(out io.Writer, s dto.ScheduleResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDue\tAmount\tPrincipal\tInterest\t")
	for _, inst := range s.Installments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			inst.Sequence,
			inst.DueDate.Format(time.DateOnly),
			inst.Amount.StringFixed(2),
			inst.Principal.StringFixed(2),
			inst.Interest.StringFixed(2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	cur, _ := money.NewCurrency(s.Currency) // zero when the preview had no currency
	_, err := fmt.Fprintf(out, "\nmonthly payment %s  total interest %s  total payable %s\n",
		money.Format(s.MonthlyPayment, cur),
		money.Format(s.TotalInterest, cur),
		money.Format(s.TotalPayable, cur),
	)
	return err
}
