package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/database"
	"github.com/stemsi/academic-backend/internal/handler"
	"github.com/stemsi/academic-backend/internal/logger"
	"github.com/stemsi/academic-backend/internal/metrics"
	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/internal/router"
	"github.com/stemsi/academic-backend/internal/service"
	"github.com/stemsi/academic-backend/internal/validator"
	"github.com/stemsi/academic-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("driver", cfg.DBDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Academic Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Database ───────────────────────────────────────────
	repos, closeDB, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	defer closeDB()

	// ─── Migrate Schema ────────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DBDriver, cfg.MigrationURL(), log); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate schema")
		}
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	var locker worker.Locker = &worker.LocalLocker{}
	if rdb != nil {
		defer rdb.Close()
		locker = worker.NewRedisLocker(rdb, worker.ReaperLockKey)
	}

	// ─── Initialize Services & Handlers ────────────────────────────────
	managers := service.NewManagers(repos, log)
	handlers := handler.NewHandlers(managers)
	m := metrics.New()

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	reaperDone := make(chan struct{})

	reaper := worker.NewReaper(managers.TestRuns, locker, m, cfg.ReaperInterval, cfg.TestRunRetention, log)
	go func() {
		defer close(reaperDone)
		reaper.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, log, m)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reaper and wait for an in-flight pass.
	workerCancel()
	select {
	case <-reaperDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Reaper did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
