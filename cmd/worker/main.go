package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/chrisostomemataba/Kemomovies/internal/analytics"
	"github.com/chrisostomemataba/Kemomovies/internal/config"
	"github.com/chrisostomemataba/Kemomovies/internal/database"
	"github.com/chrisostomemataba/Kemomovies/internal/logging"
	"github.com/chrisostomemataba/Kemomovies/internal/telemetry"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// The worker drains the analytics queue: every end-of-session report
// published by the API is validated and persisted here, off the request
// path.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger, err := logging.NewDefaultLogger()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	service := analytics.NewService(repo, log.Logger)

	queue, err := telemetry.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	reportHandler := func(report *models.PlayerAnalytics) error {
		if err := service.IngestReport(ctx, report); err != nil {
			logger.ErrorWithErr("Failed to ingest session report", err)
			return err
		}

		logger.LogPlaybackSession(report.SessionID, report.MovieID,
			report.WatchDuration, report.QualityChanges, report.BufferingEvents)
		return nil
	}

	logger.Info("Worker started, waiting for session reports...")
	if err := queue.ConsumeReports(ctx, reportHandler); err != nil {
		logger.Fatalf("Failed to consume reports: %v", err)
	}

	<-ctx.Done()
	logger.Info("Worker stopped")
}
