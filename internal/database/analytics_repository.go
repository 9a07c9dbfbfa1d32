package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Analytics Repository Methods

// CreatePlayerAnalytics persists an end-of-session analytics report
func (r *Repository) CreatePlayerAnalytics(ctx context.Context, report *models.PlayerAnalytics) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	query := `
		INSERT INTO player_analytics (
			id, session_id, movie_id, user_id, watch_duration,
			average_playback_speed, quality_changes, buffering_events,
			start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO NOTHING
	`

	_, err := r.db.Pool.Exec(ctx, query,
		report.ID, report.SessionID, report.MovieID, report.UserID,
		report.WatchDuration, report.AveragePlaybackSpeed,
		report.QualityChanges, report.BufferingEvents,
		report.StartTime, report.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create player analytics: %w", err)
	}

	return nil
}

// GetPlayerAnalytics retrieves a session's analytics report
func (r *Repository) GetPlayerAnalytics(ctx context.Context, sessionID string) (*models.PlayerAnalytics, error) {
	var report models.PlayerAnalytics

	query := `
		SELECT id, session_id, movie_id, user_id, watch_duration,
		       average_playback_speed, quality_changes, buffering_events,
		       start_time, end_time
		FROM player_analytics
		WHERE session_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, sessionID).Scan(
		&report.ID, &report.SessionID, &report.MovieID, &report.UserID,
		&report.WatchDuration, &report.AveragePlaybackSpeed,
		&report.QualityChanges, &report.BufferingEvents,
		&report.StartTime, &report.EndTime,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("analytics report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player analytics: %w", err)
	}

	return &report, nil
}

// GetMovieAnalytics aggregates playback analytics for a movie
func (r *Repository) GetMovieAnalytics(ctx context.Context, movieID int64) (*models.MovieAnalytics, error) {
	analytics := models.MovieAnalytics{MovieID: movieID}

	query := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT user_id),
			COALESCE(SUM(watch_duration), 0),
			COALESCE(AVG(watch_duration), 0),
			COALESCE(AVG(average_playback_speed), 0),
			COALESCE(AVG(CASE WHEN buffering_events > 0 THEN 1.0 ELSE 0.0 END), 0),
			COALESCE(AVG(quality_changes), 0),
			COALESCE(MAX(end_time), now())
		FROM player_analytics
		WHERE movie_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, movieID).Scan(
		&analytics.TotalSessions, &analytics.UniqueViewers,
		&analytics.TotalWatchTime, &analytics.AverageWatchTime,
		&analytics.AverageSpeed, &analytics.BufferingRate,
		&analytics.AverageQualityChanges, &analytics.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate movie analytics: %w", err)
	}

	return &analytics, nil
}
