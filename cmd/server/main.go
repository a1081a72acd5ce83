package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/debtledger/internal/adapter/http"
	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/debtledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/debtledger/internal/adapter/repository/redis"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/config"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
	"github.com/iho/debtledger/internal/infrastructure/redis"
	"github.com/iho/debtledger/internal/infrastructure/sweeper"
	"github.com/iho/debtledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	amountRepo := postgresRepo.NewAmountRepository(pool)
	billRepo := postgresRepo.NewBillRepository(pool)
	assignmentRepo := postgresRepo.NewAssignmentRepository(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	bankAccountRepo := postgresRepo.NewBankAccountRepository(pool)
	queueRepo := postgresRepo.NewQueueRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	matchingUC := usecase.NewMatchingUseCase(txManager, amountRepo, billRepo, assignmentRepo, bankAccountRepo, auditRepo, idGen).
		WithRetrier(retrier)
	assignmentUC := usecase.NewAssignmentUseCase(txManager, amountRepo, billRepo, assignmentRepo, clientRepo, auditRepo, idGen, matchingUC)
	reversalUC := usecase.NewReversalUseCase(txManager, amountRepo, assignmentRepo, auditRepo, idGen)
	searchUC := usecase.NewPaymentSearchUseCase(amountRepo)
	billUC := usecase.NewBillUseCase(billRepo, clientRepo, txManager, idGen)
	clientUC := usecase.NewClientUseCase(clientRepo, bankAccountRepo, idGen).WithCache(cache)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// Wire the intake gate: credits settle bills, debits resolve reversals
	registry := domain.NewProcessorRegistry()
	if err := registry.Register(domain.StepSettle, usecase.NewSettleProcessor(matchingUC)); err != nil {
		log.Fatal().Err(err).Msg("failed to register settle processor")
	}
	if err := registry.Register(domain.StepReverse, usecase.NewReversalProcessor(reversalUC)); err != nil {
		log.Fatal().Err(err).Msg("failed to register reversal processor")
	}

	intakeUC := usecase.NewIntakeUseCase(txManager, amountRepo, queueRepo, idGen, registry, log.Logger)

	// Initialize handlers
	amountHandler := handler.NewAmountHandler(intakeUC, matchingUC, searchUC, reversalUC)
	assignmentHandler := handler.NewAssignmentHandler(assignmentUC, searchUC)
	billHandler := handler.NewBillHandler(billUC)
	clientHandler := handler.NewClientHandler(clientUC, billUC, searchUC)
	auditHandler := handler.NewAuditHandler(auditUC)
	queueHandler := handler.NewQueueHandler(intakeUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AmountHandler:     amountHandler,
		AssignmentHandler: assignmentHandler,
		BillHandler:       billHandler,
		ClientHandler:     clientHandler,
		AuditHandler:      auditHandler,
		QueueHandler:      queueHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// Start the queue sweeper
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	sw := sweeper.NewSweeper(sweeper.Config{
		Processor: intakeUC,
		QueueRepo: queueRepo,
		BatchSize: cfg.SweepBatchSize,
		Interval:  cfg.SweepInterval,
		Retention: cfg.QueueRetention,
	})
	go func() {
		if err := sw.Start(sweepCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("queue sweeper stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopSweep()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
