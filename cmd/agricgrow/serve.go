package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/kafka"
	pgRepo "github.com/olonibua/agricgrow-sub000/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/olonibua/agricgrow-sub000/internal/presentation/grpc"
	"github.com/olonibua/agricgrow-sub000/internal/presentation/rest"
	pkgkafka "github.com/olonibua/agricgrow-sub000/pkg/kafka"
	"github.com/olonibua/agricgrow-sub000/pkg/observability"
	pkgpostgres "github.com/olonibua/agricgrow-sub000/pkg/postgres"
)

func serveCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers, the repayment consumer and the periodic sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg := a.cfg
	logger := a.logger
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting agricgrow lending service",
		"version", version,
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.WithoutCancel(ctx)) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	if migrate {
		if err := pkgpostgres.RunMigrations(a.dsn(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	svc, err := a.wire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	// gRPC server.
	handler := grpcPresentation.NewLendingHandler(grpcPresentation.UseCases{
		AssessRisk:        svc.assessRisk,
		PreviewSchedule:   svc.previewSchedule,
		SubmitApplication: svc.submitApp,
		GetApplication:    svc.getApp,
		ApproveLoan:       svc.approveLoan,
		GetLoan:           svc.getLoan,
		RecordRepayment:   svc.recordRepayment,
		SweepOverdue:      svc.sweepOverdue,
	}, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, logger, grpcPresentation.ServerOptions{
		CertFile:     cfg.TLS.CertFile,
		KeyFile:      cfg.TLS.KeyFile,
		ClientCAFile: cfg.TLS.ClientCAFile,
		Reflection:   cfg.GRPCReflection,
	})
	if err != nil {
		return err
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, svc.pool) },
		"redis":    func(ctx context.Context) error { return svc.redis.Ping(ctx).Err() },
	}, svc.metricsHandler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	if cfg.Kafka.ConsumeRepayments {
		repayments := kafka.NewRepaymentHandler(svc.recordRepayment, logger)
		consumer, err := pkgkafka.NewConsumer(a.kafkaConfig(), cfg.Kafka.RepaymentsTopic, repayments.Handle, logger)
		if err != nil {
			return fmt.Errorf("create repayment consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }() //nolint:errcheck
		g.Go(func() error { return consumer.Start(gctx) })
	}

	if cfg.Sweep.Enabled {
		g.Go(func() error {
			return runSweepLoop(gctx, svc.sweepOverdue, cfg.Sweep.Interval, logger)
		})
	}

	// Stop the servers once a signal arrives or any component fails.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("agricgrow lending service stopped")
	return nil
}
