package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finledger/config"
	advisorAdapter "finledger/internal/adapter/advisor"
	httpHandler "finledger/internal/adapter/http/handler"
	pgStorage "finledger/internal/adapter/storage/postgres"
	redisStorage "finledger/internal/adapter/storage/redis"
	"finledger/internal/core/ports"
	"finledger/internal/service"
	"finledger/pkg/logger"
	"finledger/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting finledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	alertRepo := pgStorage.NewAlertRepo(pool)
	budgetRepo := pgStorage.NewBudgetRepo(pool)
	goalRepo := pgStorage.NewGoalRepo(pool)

	// Initialize Redis stores
	reportCache := redisStorage.NewReportCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hasher := service.NewArgon2PasswordHasher()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	fpSvc := service.NewFingerprintService()
	fraudSvc := service.NewFraudService()
	collector := metrics.NewCollector()

	// Optional Gemini narrator for advisor reports
	var narrator ports.NarrativeGenerator
	if cfg.Advisor.Enabled {
		n, err := advisorAdapter.NewGeminiNarrator(ctx, cfg.Advisor.Model)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini narrator unavailable, advisor reports degrade to heuristics")
		} else {
			narrator = n
			log.Info().Str("model", cfg.Advisor.Model).Msg("Gemini narrator enabled")
		}
	}

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, walletRepo, hasher, tokenSvc)
	ledgerSvc := service.NewLedgerService(txRepo, walletRepo, alertRepo, fpSvc, fraudSvc, collector, log)
	walletSvc := service.NewWalletService(walletRepo, txRepo, log)
	reportingSvc := service.NewReportingService(txRepo, walletRepo)
	alertSvc := service.NewAlertService(alertRepo)
	budgetSvc := service.NewBudgetService(budgetRepo, txRepo)
	goalSvc := service.NewGoalService(goalRepo)
	advisorSvc := service.NewAdvisorService(txRepo, reportCache, narrator, cfg.Advisor.CacheTTL, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LedgerSvc:      ledgerSvc,
		WalletSvc:      walletSvc,
		ReportingSvc:   reportingSvc,
		AlertSvc:       alertSvc,
		BudgetSvc:      budgetSvc,
		GoalSvc:        goalSvc,
		AdvisorSvc:     advisorSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		MetricsHandler: collector.Handler(),
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
