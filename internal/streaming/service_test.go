package streaming

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisostomemataba/Kemomovies/internal/cache"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

type fakeRepo struct {
	sources     []models.StreamSource
	subtitles   []models.Subtitle
	resume      map[string]float64
	saved       []models.WatchProgress
	sourceCalls int
	err         error
}

func (f *fakeRepo) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	f.sourceCalls++
	return f.sources, f.err
}

func (f *fakeRepo) GetSubtitles(ctx context.Context, movieID int64) ([]models.Subtitle, error) {
	return f.subtitles, f.err
}

func (f *fakeRepo) GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.resume[userID], nil
}

func (f *fakeRepo) UpsertWatchProgress(ctx context.Context, progress *models.WatchProgress) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *progress)
	return nil
}

type fakeStore struct {
	presigned []string
}

func (f *fakeStore) PlaybackURL(ctx context.Context, objectName string) (string, error) {
	f.presigned = append(f.presigned, objectName)
	return "https://storage.example.com/" + objectName + "?signed=1", nil
}

func TestService_GetStreamSources_PresignsObjectKeys(t *testing.T) {
	repo := &fakeRepo{
		sources: []models.StreamSource{
			{ID: "src-1", MovieID: 42, Type: models.StreamTypeHLS, URL: "movies/42/master.m3u8"},
			{ID: "src-2", MovieID: 42, Type: models.StreamTypeMP4, URL: "https://cdn.example.com/42.mp4"},
		},
	}
	store := &fakeStore{}
	svc := NewService(repo, store, nil, time.Minute)

	sources, err := svc.GetStreamSources(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	// Object key presigned, absolute URL passed through
	assert.Equal(t, "https://storage.example.com/movies/42/master.m3u8?signed=1", sources[0].URL)
	assert.Equal(t, "https://cdn.example.com/42.mp4", sources[1].URL)
	assert.Equal(t, []string{"movies/42/master.m3u8"}, store.presigned)
}

func TestService_GetStreamSources_CacheShortCircuits(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := cache.NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	require.NoError(t, err)
	defer c.Close()

	repo := &fakeRepo{
		sources: []models.StreamSource{
			{ID: "src-1", MovieID: 42, Type: models.StreamTypeHLS, URL: "https://cdn.example.com/master.m3u8"},
		},
	}
	svc := NewService(repo, nil, c, time.Minute)

	first, err := svc.GetStreamSources(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.GetStreamSources(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, repo.sourceCalls, "second resolution should come from cache")
}

func TestService_GetStreamSources_RepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := NewService(repo, nil, nil, time.Minute)

	_, err := svc.GetStreamSources(context.Background(), 42)
	assert.Error(t, err)
}

func TestService_GetResumePosition(t *testing.T) {
	repo := &fakeRepo{resume: map[string]float64{"user-1": 1834.5}}
	svc := NewService(repo, nil, nil, time.Minute)

	position, err := svc.GetResumePosition(context.Background(), "user-1", 42)
	require.NoError(t, err)
	assert.Equal(t, 1834.5, position)

	// Unknown user means no resume, not an error
	position, err = svc.GetResumePosition(context.Background(), "user-2", 42)
	require.NoError(t, err)
	assert.Zero(t, position)
}

func TestService_SaveProgress_WriteThroughCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := cache.NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	require.NoError(t, err)
	defer c.Close()

	repo := &fakeRepo{}
	svc := NewService(repo, nil, c, time.Minute)

	progress := &models.WatchProgress{UserID: "user-1", MovieID: 42, Position: 600, Duration: 5400}
	require.NoError(t, svc.SaveProgress(context.Background(), progress))
	require.Len(t, repo.saved, 1)

	position, found, err := c.GetResumePosition(context.Background(), "user-1", 42)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 600.0, position)
}
