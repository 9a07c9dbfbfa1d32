package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Client is the player-side implementation of source resolution, resume
// lookup, and analytics submission against the streaming API. It plugs
// straight into Options as the session's resolver and resume store.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

var (
	_ SourceResolver = (*Client)(nil)
	_ ResumeStore    = (*Client)(nil)
)

// NewClient creates a streaming API client. token may be empty for
// anonymous playback (no resume, no progress).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			// Bounded so a dead resolver cannot leave a session
			// loading forever.
			Timeout: 15 * time.Second,
		},
	}
}

// GetStreamSources resolves the playable sources for a movie.
func (c *Client) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	var sources []models.StreamSource
	url := fmt.Sprintf("%s/api/v1/movies/%d/streams", c.baseURL, movieID)
	if err := c.getJSON(ctx, url, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// GetSubtitles fetches the subtitle tracks for a movie.
func (c *Client) GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error) {
	var subtitles []models.Subtitle
	url := fmt.Sprintf("%s/api/v1/movies/%d/subtitles", c.baseURL, movieID)
	if err := c.getJSON(ctx, url, &subtitles); err != nil {
		return nil, err
	}
	return subtitles, nil
}

// GetResumePosition fetches the stored playback offset for a user/movie pair.
func (c *Client) GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error) {
	var payload struct {
		Position float64 `json:"position"`
	}
	url := fmt.Sprintf("%s/api/v1/users/%s/resume/%d", c.baseURL, userID, movieID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return 0, err
	}
	return payload.Position, nil
}

// SaveProgress submits a watch-progress update.
func (c *Client) SaveProgress(ctx context.Context, progress *models.WatchProgress) error {
	url := fmt.Sprintf("%s/api/v1/users/%s/progress", c.baseURL, progress.UserID)
	return c.postJSON(ctx, url, progress)
}

// SubmitAnalytics hands an end-of-session report to the telemetry sink.
// Callers are expected to discard failures: analytics must never interfere
// with playback.
func (c *Client) SubmitAnalytics(ctx context.Context, report *models.PlayerAnalytics) error {
	url := fmt.Sprintf("%s/api/v1/analytics/sessions", c.baseURL)
	return c.postJSON(ctx, url, report)
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
