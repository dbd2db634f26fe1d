// Command api is the Medication Tracker API server.
//
// Usage:
//
//	medication-api
//	API_PORT=8080 medication-api

// @title Medication Tracker API
// @version 1.0.0
// @description Medication reminder backend: accounts, per-user medicine lists, push subscriptions, and a background reminder scheduler.
// @host localhost:5000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ahssan23/medication-tracker/internal/api"
	"github.com/Ahssan23/medication-tracker/internal/api/handler"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/config"
	"github.com/Ahssan23/medication-tracker/internal/db"
	"github.com/Ahssan23/medication-tracker/internal/maintenance"
	"github.com/Ahssan23/medication-tracker/internal/metrics"
	"github.com/Ahssan23/medication-tracker/internal/push"
	"github.com/Ahssan23/medication-tracker/internal/reminder"
	"github.com/Ahssan23/medication-tracker/internal/store/postgres"

	_ "github.com/Ahssan23/medication-tracker/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Apply pending schema migrations
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Stores
	users := postgres.NewUserRepo(pool.Pool)
	medicines := postgres.NewMedicineRepo(pool.Pool)
	subs := postgres.NewSubscriptionRepo(pool.Pool)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Auth
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	// Start reminder scheduler (if VAPID keys are configured)
	sender := push.NewSender(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, logger)
	if sender != nil {
		dispatcher := push.NewDispatcher(sender, subs, cfg.PushSendTimeout, collector, logger)

		var dedup reminder.DedupStore
		if cfg.PersistDedup {
			dedup = reminder.NewPostgresDedup(pool.Pool)
		} else {
			dedup = reminder.NewMemoryDedup()
		}

		scheduler := reminder.NewScheduler(medicines, dedup, dispatcher, cfg.ScanInterval, cfg.Lookahead, collector, logger)
		go scheduler.Run(ctx)
	} else {
		logger.Info("Reminder scheduler disabled (no VAPID key pair)")
	}

	// Start maintenance tickers (sent-reminder cleanup)
	go maintenance.Start(ctx, pool.Pool, maintenance.Config{CleanupInterval: cfg.CleanupInterval}, logger)

	// Create router
	h := handler.New(users, medicines, subs, tokens, cfg, pool)
	router := api.NewRouter(h, tokens, cfg, metrics.Handler(registry))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Medication Tracker API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
