package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Stream sources

// GetStreamSources returns the active stream sources for a movie
func (r *Repository) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	query := `
		SELECT id, movie_id, quality, stream_url, format, size
		FROM movie_streams
		WHERE movie_id = $1 AND is_active = true
		ORDER BY quality
	`

	rows, err := r.db.Pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stream sources: %w", err)
	}
	defer rows.Close()

	var sources []models.StreamSource
	for rows.Next() {
		var src models.StreamSource
		if err := rows.Scan(&src.ID, &src.MovieID, &src.Quality, &src.URL, &src.Type, &src.Size); err != nil {
			return nil, fmt.Errorf("failed to scan stream source: %w", err)
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stream sources: %w", err)
	}

	return sources, nil
}

// CreateStreamSource registers a playable source for a movie
func (r *Repository) CreateStreamSource(ctx context.Context, src *models.StreamSource) error {
	if src.ID == "" {
		src.ID = uuid.New().String()
	}

	query := `
		INSERT INTO movie_streams (id, movie_id, quality, stream_url, format, size, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		src.ID, src.MovieID, src.Quality, src.URL, src.Type, src.Size,
	)
	if err != nil {
		return fmt.Errorf("failed to create stream source: %w", err)
	}

	return nil
}

// DeactivateStreamSource marks a source as no longer playable
func (r *Repository) DeactivateStreamSource(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE movie_streams SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate stream source: %w", err)
	}
	return nil
}

// Subtitles

// GetSubtitles returns the subtitle tracks for a movie
func (r *Repository) GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error) {
	query := `
		SELECT id, movie_id, language_code, language_label, subtitle_url
		FROM movie_subtitles
		WHERE movie_id = $1
		ORDER BY language_code
	`

	rows, err := r.db.Pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtitles: %w", err)
	}
	defer rows.Close()

	var subtitles []models.Subtitle
	for rows.Next() {
		var sub models.Subtitle
		if err := rows.Scan(&sub.ID, &sub.MovieID, &sub.Language, &sub.Label, &sub.URL); err != nil {
			return nil, fmt.Errorf("failed to scan subtitle: %w", err)
		}
		subtitles = append(subtitles, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitles: %w", err)
	}

	return subtitles, nil
}

// Watch history

// UpsertWatchProgress stores or updates the playback offset for a user/movie pair
func (r *Repository) UpsertWatchProgress(ctx context.Context, progress *models.WatchProgress) error {
	if progress.WatchedAt.IsZero() {
		progress.WatchedAt = time.Now()
	}

	query := `
		INSERT INTO watch_history (user_id, movie_id, watch_duration, duration, completed, watched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET watch_duration = $3, duration = $4, completed = $5, watched_at = $6
	`

	_, err := r.db.Pool.Exec(ctx, query,
		progress.UserID, progress.MovieID, progress.Position,
		progress.Duration, progress.Completed, progress.WatchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert watch progress: %w", err)
	}

	return nil
}

// GetResumePosition returns the stored playback offset for a user/movie pair.
// A missing row means no resume and returns zero.
func (r *Repository) GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error) {
	var position float64

	query := `
		SELECT watch_duration
		FROM watch_history
		WHERE user_id = $1 AND movie_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, userID, movieID).Scan(&position)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get resume position: %w", err)
	}

	return position, nil
}

// GetWatchHistory returns a user's watch history, most recent first
func (r *Repository) GetWatchHistory(ctx context.Context, userID string, limit int) ([]models.WatchProgress, error) {
	query := `
		SELECT user_id, movie_id, watch_duration, duration, completed, watched_at
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	var history []models.WatchProgress
	for rows.Next() {
		var entry models.WatchProgress
		if err := rows.Scan(&entry.UserID, &entry.MovieID, &entry.Position,
			&entry.Duration, &entry.Completed, &entry.WatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return history, nil
}
