package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/database"
	"github.com/lankastocks/cse-analyzer/internal/export"
	"github.com/lankastocks/cse-analyzer/internal/modules/history"
	"github.com/lankastocks/cse-analyzer/internal/scheduler"
	"github.com/lankastocks/cse-analyzer/internal/server"
	"github.com/lankastocks/cse-analyzer/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting CSE Analyzer")

	// Load analysis parameters (fee tiers, thresholds, weights)
	analysisCfg, err := config.LoadAnalysis(cfg.AnalysisConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load analysis configuration")
	}

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// History repository and schema
	historyRepo := history.NewRepository(db.Conn(), log)
	if err := historyRepo.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Report exporter
	exporter, err := export.New(cfg.ExportDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize exporter")
	}

	// Initialize scheduler with the history retention job
	sched := scheduler.New(log)
	retention := scheduler.NewRetentionJob(historyRepo, cfg.HistoryRetention, log)
	if err := sched.AddJob("0 0 3 * * *", retention); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Analysis: analysisCfg,
		History:  historyRepo,
		Exporter: exporter,
		DevMode:  cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
