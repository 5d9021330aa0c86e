package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
)

type overdueSweeper interface {
	Execute(ctx context.Context, req dto.SweepOverdueRequest) (dto.SweepOverdueResponse, error)
}

// runSweepLoop sweeps once immediately and then on every tick until ctx is
// done. A failed run is logged and retried on the next tick.
func runSweepLoop(ctx context.Context, sweeper overdueSweeper, interval time.Duration, logger *slog.Logger) error {
	tracer := otel.Tracer("github.com/olonibua/agricgrow-sub000/cmd/agricgrow")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sweep enabled", "interval", interval)
	for {
		runCtx, span := tracer.Start(ctx, "overdue-sweep")
		if _, err := sweeper.Execute(runCtx, dto.SweepOverdueRequest{}); err != nil && ctx.Err() == nil {
			logger.ErrorContext(ctx, "overdue sweep failed", "error", err)
		}
		span.End()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func sweepCmd(a *app) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one overdue sweep against the database and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.SweepOverdueRequest{}
			if asOf != "" {
				d, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return fmt.Errorf("parse --as-of: %w", err)
				}
				req.AsOf = d
			}

			svc, err := a.wire(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close(context.WithoutCancel(cmd.Context())) }() //nolint:errcheck

			resp, err := svc.sweepOverdue.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "sweep as of this date (YYYY-MM-DD, default today)")
	return cmd
}
