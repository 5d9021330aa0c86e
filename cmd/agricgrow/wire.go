package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/olonibua/agricgrow-sub000/internal/application/usecase"
	"github.com/olonibua/agricgrow-sub000/internal/domain/service"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/clock"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/kafka"
	pgRepo "github.com/olonibua/agricgrow-sub000/internal/infrastructure/persistence/postgres"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/redis"
	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/telemetry"
	pkgkafka "github.com/olonibua/agricgrow-sub000/pkg/kafka"
	"github.com/olonibua/agricgrow-sub000/pkg/observability"
	pkgpostgres "github.com/olonibua/agricgrow-sub000/pkg/postgres"
)

// services holds every wired adapter and use case of a running process.
type services struct {
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	metricsHandler http.Handler

	assessRisk      *usecase.AssessRiskUseCase
	previewSchedule *usecase.PreviewScheduleUseCase
	submitApp       *usecase.SubmitLoanApplicationUseCase
	getApp          *usecase.GetApplicationUseCase
	approveLoan     *usecase.ApproveLoanUseCase
	getLoan         *usecase.GetLoanUseCase
	recordRepayment *usecase.RecordRepaymentUseCase
	sweepOverdue    *usecase.SweepOverdueUseCase

	closers []func(context.Context) error
}

// Close releases resources in reverse acquisition order.
func (s *services) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func (a *app) wire(ctx context.Context) (_ *services, err error) {
	cfg := a.cfg
	logger := a.logger
	s := &services{}
	defer func() {
		if err != nil {
			_ = s.Close(context.WithoutCancel(ctx))
		}
	}()

	// Metrics.
	provider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	s.closers = append(s.closers, provider.Shutdown)
	s.metricsHandler = metricsHandler

	metrics, err := telemetry.NewLendingMetrics(provider.Meter("agricgrow/lending"))
	if err != nil {
		return nil, err
	}

	// Database.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, a.dbConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.pool = pool
	s.closers = append(s.closers, func(context.Context) error {
		pool.Close()
		return nil
	})
	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	// Kafka.
	producer, err := pkgkafka.NewProducer(a.kafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	s.producer = producer
	s.closers = append(s.closers, func(context.Context) error { return producer.Close() })

	// Redis.
	redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	s.redis = redisClient
	s.closers = append(s.closers, func(context.Context) error { return redisClient.Close() })

	// Adapters.
	appRepo := pgRepo.NewLoanApplicationRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	publisher := kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	notifier := kafka.NewNotifier(producer, cfg.Kafka.NotificationsTopic, logger)
	lock := redis.NewSweepLock(redisClient)
	clk := clock.System{}
	riskEngine := service.NewRiskEngine()
	underwriter := service.NewUnderwritingEngine()

	// Use cases.
	s.assessRisk = usecase.NewAssessRiskUseCase(riskEngine, metrics)
	s.previewSchedule = usecase.NewPreviewScheduleUseCase(clk)
	s.submitApp = usecase.NewSubmitLoanApplicationUseCase(appRepo, publisher, clk, metrics, riskEngine)
	s.getApp = usecase.NewGetApplicationUseCase(appRepo)
	s.approveLoan = usecase.NewApproveLoanUseCase(appRepo, loanRepo, publisher, notifier, clk, metrics, underwriter)
	s.getLoan = usecase.NewGetLoanUseCase(loanRepo)
	s.recordRepayment = usecase.NewRecordRepaymentUseCase(loanRepo, publisher, notifier, clk, metrics)
	s.sweepOverdue = usecase.NewSweepOverdueUseCase(loanRepo, publisher, notifier, lock, clk, metrics, logger,
		usecase.SweepConfig{
			PageSize:    cfg.Sweep.PageSize,
			Concurrency: cfg.Sweep.Concurrency,
			LockTTL:     cfg.Sweep.LockTTL,
		})

	return s, nil
}

func (a *app) kafkaConfig() pkgkafka.Config {
	k := a.cfg.Kafka
	return pkgkafka.Config{
		Brokers:       k.Brokers,
		ClientID:      k.ClientID,
		ConsumerGroup: k.ConsumerGroup,
		TLS:           k.TLS,
		CAFile:        k.CAFile,
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}
