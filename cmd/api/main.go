package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-callback-gateway/config"
	httpHandler "payment-callback-gateway/internal/adapter/http/handler"
	pgStorage "payment-callback-gateway/internal/adapter/storage/postgres"
	redisStorage "payment-callback-gateway/internal/adapter/storage/redis"
	"payment-callback-gateway/internal/adapter/telegram"
	"payment-callback-gateway/internal/core/ports"
	"payment-callback-gateway/internal/service"
	"payment-callback-gateway/pkg/logger"
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
		Msg("Starting Payment Callback Gateway")

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
	txRepo := pgStorage.NewTransactionRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)

	// Initialize Redis stores
	resolvedCache := redisStorage.NewResolvedCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize buyer notifier
	notifier := telegram.NewNotifier(
		cfg.Telegram.APIBaseURL,
		cfg.Telegram.BotToken,
		&http.Client{Timeout: cfg.Telegram.Timeout},
		log,
	)

	// Initialize provider adapters and resolution engines
	legacyProvider := service.NewLegacyProvider(cfg.Provider.SecretKey)
	violetProvider := service.NewVioletProvider(cfg.Provider.SecretKey, cfg.Provider.APIKey)

	legacySvc := service.NewResolutionService(legacyProvider, txRepo, userRepo, productRepo, resolvedCache, notifier, log)
	violetSvc := service.NewResolutionService(violetProvider, txRepo, userRepo, productRepo, resolvedCache, notifier, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LegacySvc:      legacySvc,
		VioletSvc:      violetSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
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
