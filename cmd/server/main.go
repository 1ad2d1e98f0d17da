package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpAdapter "github.com/sankopay/agencyledger/internal/adapter/http"
	"github.com/sankopay/agencyledger/internal/adapter/http/handler"
	postgresRepo "github.com/sankopay/agencyledger/internal/adapter/repository/postgres"
	redisRepo "github.com/sankopay/agencyledger/internal/adapter/repository/redis"
	"github.com/sankopay/agencyledger/internal/infrastructure/config"
	"github.com/sankopay/agencyledger/internal/infrastructure/dispatcher"
	"github.com/sankopay/agencyledger/internal/infrastructure/logger"
	"github.com/sankopay/agencyledger/internal/infrastructure/metrics"
	"github.com/sankopay/agencyledger/internal/infrastructure/postgres"
	"github.com/sankopay/agencyledger/internal/infrastructure/redis"
	"github.com/sankopay/agencyledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	floatRepo := postgresRepo.NewFloatAccountRepository(pool)
	floatTxnRepo := postgresRepo.NewFloatTransactionRepository(pool)
	mappingRepo := postgresRepo.NewMappingRepository(pool)
	glRepo := postgresRepo.NewGLRepository(pool)
	equityRepo := postgresRepo.NewEquityRepository(pool)
	statementRepo := postgresRepo.NewStatementRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	chartUC := usecase.NewChartUseCase(accountRepo, auditRepo, cache, idGen, log)
	mappingUC := usecase.NewMappingUseCase(mappingRepo, accountRepo, cache, idGen, log)
	postingUC := usecase.NewPostingUseCase(txManager, glRepo, accountRepo, mappingUC, idGen, log)
	balanceUC := usecase.NewFloatBalanceUseCase(txManager, floatRepo, floatTxnRepo, outboxRepo, idGen, log)
	settlementUC := usecase.NewSettlementUseCase(balanceUC, postingUC, outboxRepo, auditRepo, idGen, log)
	reconUC := usecase.NewReconciliationUseCase(floatRepo, glRepo, mappingUC, postingUC, chartUC, auditRepo, log)
	statementUC := usecase.NewStatementUseCase(
		statementRepo, floatRepo, equityRepo,
		cfg.LongTermLoansValue(), cfg.BalanceEpsilonValue(), log,
	)

	appMetrics := metrics.New()

	// Outbox dispatcher executes queued posting requests in the background.
	disp := dispatcher.New(dispatcher.Config{
		OutboxRepo: outboxRepo,
		Posting:    postingUC,
		Publisher:  dispatcher.NewLogPublisher(log),
		Retrier:    retrier,
		Metrics:    appMetrics,
		Logger:     log,
		BatchSize:  cfg.DispatcherBatchSize,
		Interval:   cfg.DispatcherInterval,
	})
	dispCtx, dispCancel := context.WithCancel(ctx)
	defer dispCancel()
	go disp.Start(dispCtx)

	if cfg.ReconciliationInterval > 0 {
		go runReconciliationSweep(dispCtx, reconUC, appMetrics, cfg.ReconciliationInterval, log)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:        handler.NewPostingHandler(postingUC),
		ChartHandler:          handler.NewChartHandler(chartUC, postingUC),
		MappingHandler:        handler.NewMappingHandler(mappingUC),
		FloatHandler:          handler.NewFloatHandler(balanceUC),
		SettlementHandler:     handler.NewSettlementHandler(settlementUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		StatementHandler:      handler.NewStatementHandler(statementUC),
		AuditHandler:          handler.NewAuditHandler(auditRepo),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		Logger:                log,
		RateLimit:             cfg.RateLimit,
		RateBurst:             cfg.RateBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	dispCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// runReconciliationSweep periodically compares every float account against
// its GL mirror and exports the drift through metrics. Repairs stay manual.
func runReconciliationSweep(
	ctx context.Context,
	recon *usecase.ReconciliationUseCase,
	m *metrics.Metrics,
	interval time.Duration,
	log zerolog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := recon.ReconcileAll(ctx)
			if err != nil {
				log.Error().Err(err).Msg("reconciliation sweep failed")
				continue
			}
			m.ReconciliationRuns.Inc()
			m.DriftedAccounts.Set(float64(len(report.Discrepancies)))
			for _, result := range report.Discrepancies {
				m.ReconciliationDrift.WithLabelValues(result.FloatAccountID, result.BranchID).
					Set(result.Drift.InexactFloat64())
			}
		}
	}
}
