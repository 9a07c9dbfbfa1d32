package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Cache provides caching for resolved stream sources and resume positions
// using Redis.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks Redis connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Stream source cache

// SetStreamSources caches the resolved source list for a movie
func (c *Cache) SetStreamSources(ctx context.Context, movieID int64, sources []models.StreamSource, ttl time.Duration) error {
	data, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to marshal stream sources: %w", err)
	}

	key := fmt.Sprintf("streams:%d", movieID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetStreamSources retrieves a cached source list. A cache miss returns
// nil sources and no error.
func (c *Cache) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	key := fmt.Sprintf("streams:%d", movieID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get stream sources from cache: %w", err)
	}

	var sources []models.StreamSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream sources: %w", err)
	}

	return sources, nil
}

// DeleteStreamSources invalidates a movie's cached source list
func (c *Cache) DeleteStreamSources(ctx context.Context, movieID int64) error {
	key := fmt.Sprintf("streams:%d", movieID)
	return c.client.Del(ctx, key).Err()
}

// Resume position cache

// SetResumePosition write-through caches a user's playback offset
func (c *Cache) SetResumePosition(ctx context.Context, userID string, movieID int64, position float64, ttl time.Duration) error {
	key := fmt.Sprintf("resume:%s:%d", userID, movieID)
	return c.client.Set(ctx, key, position, ttl).Err()
}

// GetResumePosition retrieves a cached playback offset. A cache miss
// returns found=false and no error.
func (c *Cache) GetResumePosition(ctx context.Context, userID string, movieID int64) (position float64, found bool, err error) {
	key := fmt.Sprintf("resume:%s:%d", userID, movieID)
	position, err = c.client.Get(ctx, key).Float64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get resume position from cache: %w", err)
	}

	return position, true, nil
}

// DeleteResumePosition invalidates a cached playback offset
func (c *Cache) DeleteResumePosition(ctx context.Context, userID string, movieID int64) error {
	key := fmt.Sprintf("resume:%s:%d", userID, movieID)
	return c.client.Del(ctx, key).Err()
}

// Subtitle cache

// SetSubtitles caches a movie's subtitle track list
func (c *Cache) SetSubtitles(ctx context.Context, movieID int64, subtitles []models.Subtitle, ttl time.Duration) error {
	data, err := json.Marshal(subtitles)
	if err != nil {
		return fmt.Errorf("failed to marshal subtitles: %w", err)
	}

	key := fmt.Sprintf("subtitles:%d", movieID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetSubtitles retrieves a cached subtitle list. A cache miss returns nil
// subtitles and no error.
func (c *Cache) GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error) {
	key := fmt.Sprintf("subtitles:%d", movieID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subtitles from cache: %w", err)
	}

	var subtitles []models.Subtitle
	if err := json.Unmarshal(data, &subtitles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subtitles: %w", err)
	}

	return subtitles, nil
}

// Rate limiting

// CheckRateLimit implements a fixed-window rate limit and reports whether
// the request is allowed.
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	rateKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := c.client.Incr(ctx, rateKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := c.client.Expire(ctx, rateKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= limit, nil
}
