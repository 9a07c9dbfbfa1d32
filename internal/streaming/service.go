package streaming

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisostomemataba/Kemomovies/internal/cache"
	"github.com/chrisostomemataba/Kemomovies/internal/metrics"
	"github.com/chrisostomemataba/Kemomovies/internal/storage"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Repository defines the persistence operations the streaming service needs.
type Repository interface {
	GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error)
	GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error)
	GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error)
	UpsertWatchProgress(ctx context.Context, progress *models.WatchProgress) error
}

// ObjectStore turns stored asset keys into fetchable playback URLs.
type ObjectStore interface {
	PlaybackURL(ctx context.Context, objectName string) (string, error)
}

// Service resolves playable sources, subtitles, and resume positions. It
// fronts the repository with a Redis cache and presigns storage-hosted
// assets on the way out.
type Service struct {
	repo      Repository
	store     ObjectStore
	cache     *cache.Cache
	sourceTTL time.Duration
	resumeTTL time.Duration
}

// NewService creates a streaming service. The cache is optional; a nil cache
// resolves every call against the repository.
func NewService(repo Repository, store ObjectStore, c *cache.Cache, sourceTTL time.Duration) *Service {
	if sourceTTL <= 0 {
		sourceTTL = 5 * time.Minute
	}

	return &Service{
		repo:      repo,
		store:     store,
		cache:     c,
		sourceTTL: sourceTTL,
		resumeTTL: 24 * time.Hour,
	}
}

// GetStreamSources returns the playable sources for a movie, presigned and
// ready for a player to attach.
func (s *Service) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	start := time.Now()
	defer func() {
		metrics.SourceResolutionDuration.Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		cached, err := s.cache.GetStreamSources(ctx, movieID)
		if err != nil {
			log.Warn().Err(err).Int64("movie_id", movieID).Msg("stream source cache lookup failed")
		}
		if cached != nil {
			metrics.SourceCacheHitsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.SourceCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	sources, err := s.repo.GetStreamSources(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stream sources: %w", err)
	}

	for i := range sources {
		url, err := s.resolveURL(ctx, sources[i].URL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source %s: %w", sources[i].ID, err)
		}
		sources[i].URL = url
	}

	if s.cache != nil && len(sources) > 0 {
		if err := s.cache.SetStreamSources(ctx, movieID, sources, s.sourceTTL); err != nil {
			log.Warn().Err(err).Int64("movie_id", movieID).Msg("failed to cache stream sources")
		}
	}

	return sources, nil
}

// GetSubtitles returns the available subtitle tracks for a movie.
func (s *Service) GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSubtitles(ctx, movieID)
		if err != nil {
			log.Warn().Err(err).Int64("movie_id", movieID).Msg("subtitle cache lookup failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	subtitles, err := s.repo.GetSubtitles(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subtitles: %w", err)
	}

	for i := range subtitles {
		url, err := s.resolveURL(ctx, subtitles[i].URL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve subtitle %s: %w", subtitles[i].ID, err)
		}
		subtitles[i].URL = url
	}

	if s.cache != nil && len(subtitles) > 0 {
		if err := s.cache.SetSubtitles(ctx, movieID, subtitles, s.sourceTTL); err != nil {
			log.Warn().Err(err).Int64("movie_id", movieID).Msg("failed to cache subtitles")
		}
	}

	return subtitles, nil
}

// GetResumePosition returns the stored playback offset for a user/movie
// pair. Absence means zero.
func (s *Service) GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error) {
	if s.cache != nil {
		position, found, err := s.cache.GetResumePosition(ctx, userID, movieID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Int64("movie_id", movieID).
				Msg("resume cache lookup failed")
		}
		if found {
			return position, nil
		}
	}

	position, err := s.repo.GetResumePosition(ctx, userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch resume position: %w", err)
	}

	if s.cache != nil && position > 0 {
		if err := s.cache.SetResumePosition(ctx, userID, movieID, position, s.resumeTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Int64("movie_id", movieID).
				Msg("failed to cache resume position")
		}
	}

	return position, nil
}

// SaveProgress upserts a user's watch progress and write-through caches the
// new resume position.
func (s *Service) SaveProgress(ctx context.Context, progress *models.WatchProgress) error {
	if err := s.repo.UpsertWatchProgress(ctx, progress); err != nil {
		return fmt.Errorf("failed to save watch progress: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetResumePosition(ctx, progress.UserID, progress.MovieID, progress.Position, s.resumeTTL); err != nil {
			log.Warn().Err(err).Str("user_id", progress.UserID).Int64("movie_id", progress.MovieID).
				Msg("failed to update resume cache")
		}
	}

	return nil
}

// resolveURL presigns storage object keys; absolute URLs pass through
// untouched (CDN-hosted assets).
func (s *Service) resolveURL(ctx context.Context, raw string) (string, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	if s.store == nil {
		return raw, nil
	}
	return s.store.PlaybackURL(ctx, raw)
}

var _ ObjectStore = (*storage.Storage)(nil)
