package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chrisostomemataba/Kemomovies/internal/metrics"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// ReportStore persists session reports and serves aggregates.
type ReportStore interface {
	CreatePlayerAnalytics(ctx context.Context, report *models.PlayerAnalytics) error
	GetPlayerAnalytics(ctx context.Context, sessionID string) (*models.PlayerAnalytics, error)
	GetMovieAnalytics(ctx context.Context, movieID int64) (*models.MovieAnalytics, error)
}

// Service handles analytics ingestion and aggregation
type Service struct {
	store  ReportStore
	logger zerolog.Logger
}

// NewService creates a new analytics service
func NewService(store ReportStore, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// IngestReport validates and persists an end-of-session report.
// Duplicate session IDs are absorbed by the store, so redelivered
// queue messages are safe to ingest again.
func (s *Service) IngestReport(ctx context.Context, report *models.PlayerAnalytics) error {
	if report.SessionID == "" {
		return fmt.Errorf("report missing session id")
	}
	if report.MovieID <= 0 {
		return fmt.Errorf("report missing movie id")
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.EndTime.IsZero() {
		report.EndTime = time.Now()
	}
	if report.WatchDuration < 0 {
		report.WatchDuration = 0
	}

	if err := s.store.CreatePlayerAnalytics(ctx, report); err != nil {
		metrics.AnalyticsReportsPersisted.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to persist session report: %w", err)
	}

	metrics.AnalyticsReportsPersisted.WithLabelValues("success").Inc()
	s.logger.Debug().
		Str("session_id", report.SessionID).
		Int64("movie_id", report.MovieID).
		Float64("watch_duration", report.WatchDuration).
		Msg("Session report persisted")

	return nil
}

// GetSessionReport retrieves a single session's report
func (s *Service) GetSessionReport(ctx context.Context, sessionID string) (*models.PlayerAnalytics, error) {
	return s.store.GetPlayerAnalytics(ctx, sessionID)
}

// GetMovieAnalytics retrieves aggregated analytics for a movie
func (s *Service) GetMovieAnalytics(ctx context.Context, movieID int64) (*models.MovieAnalytics, error) {
	return s.store.GetMovieAnalytics(ctx, movieID)
}

// CalculateEngagementScore computes an engagement score (0-100) for a
// session report. movieDuration is the movie length in seconds; pass 0
// when unknown to skip the completion factor.
func (s *Service) CalculateEngagementScore(report *models.PlayerAnalytics, movieDuration float64) float64 {
	score := 100.0

	// Penalize for buffering (up to -30 points)
	bufferPenalty := float64(report.BufferingEvents) * 5
	if bufferPenalty > 30 {
		bufferPenalty = 30
	}
	score -= bufferPenalty

	// Penalize for frequent quality churn (up to -20 points)
	churnPenalty := float64(report.QualityChanges) * 2
	if churnPenalty > 20 {
		churnPenalty = 20
	}
	score -= churnPenalty

	// Penalize for low completion (up to -40 points)
	if movieDuration > 0 {
		completion := report.WatchDuration / movieDuration
		if completion > 1 {
			completion = 1
		}
		score -= (1 - completion) * 40
	}

	// Skimming at high speed counts against engagement (-10 points)
	if report.AveragePlaybackSpeed >= 1.75 {
		score -= 10
	}

	if score < 0 {
		score = 0
	}

	return score
}
