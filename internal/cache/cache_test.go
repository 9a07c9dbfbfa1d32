package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_StreamSources(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	sources := []models.StreamSource{
		{ID: "src-1", MovieID: 42, Quality: models.Quality1080p, URL: "https://cdn.example.com/42/master.m3u8", Type: models.StreamTypeHLS},
		{ID: "src-2", MovieID: 42, Quality: models.Quality720p, URL: "https://cdn.example.com/42/720.mp4", Type: models.StreamTypeMP4},
	}

	if err := cache.SetStreamSources(ctx, 42, sources, time.Minute); err != nil {
		t.Fatalf("SetStreamSources failed: %v", err)
	}

	got, err := cache.GetStreamSources(ctx, 42)
	if err != nil {
		t.Fatalf("GetStreamSources failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(got))
	}
	if got[0].Type != models.StreamTypeHLS {
		t.Errorf("Expected hls source first, got %s", got[0].Type)
	}

	// Cache miss is nil, nil
	missing, err := cache.GetStreamSources(ctx, 999)
	if err != nil {
		t.Fatalf("GetStreamSources miss failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil on cache miss, got %v", missing)
	}

	if err := cache.DeleteStreamSources(ctx, 42); err != nil {
		t.Fatalf("DeleteStreamSources failed: %v", err)
	}
	gone, err := cache.GetStreamSources(ctx, 42)
	if err != nil {
		t.Fatalf("GetStreamSources after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("Expected nil after delete")
	}
}

func TestCache_ResumePosition(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	if err := cache.SetResumePosition(ctx, "user-1", 42, 1834.5, time.Hour); err != nil {
		t.Fatalf("SetResumePosition failed: %v", err)
	}

	position, found, err := cache.GetResumePosition(ctx, "user-1", 42)
	if err != nil {
		t.Fatalf("GetResumePosition failed: %v", err)
	}
	if !found {
		t.Fatal("Expected resume position to be found")
	}
	if position != 1834.5 {
		t.Errorf("Expected position 1834.5, got %f", position)
	}

	// Miss reports found=false
	_, found, err = cache.GetResumePosition(ctx, "user-2", 42)
	if err != nil {
		t.Fatalf("GetResumePosition miss failed: %v", err)
	}
	if found {
		t.Error("Expected miss for unknown user")
	}
}

func TestCache_Subtitles(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	subtitles := []models.Subtitle{
		{ID: "sub-1", MovieID: 42, Language: "en", Label: "English", URL: "https://cdn.example.com/42/en.vtt"},
	}

	if err := cache.SetSubtitles(ctx, 42, subtitles, time.Minute); err != nil {
		t.Fatalf("SetSubtitles failed: %v", err)
	}

	got, err := cache.GetSubtitles(ctx, 42)
	if err != nil {
		t.Fatalf("GetSubtitles failed: %v", err)
	}
	if len(got) != 1 || got[0].Language != "en" {
		t.Errorf("Unexpected subtitles: %v", got)
	}
}

func TestCache_RateLimit(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := cache.CheckRateLimit(ctx, "client-1", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
		if !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}

	allowed, err := cache.CheckRateLimit(ctx, "client-1", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit failed: %v", err)
	}
	if allowed {
		t.Error("Fourth request should be rejected")
	}
}

func TestCache_ExpiredResumePosition(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	if err := cache.SetResumePosition(ctx, "user-1", 42, 100, time.Second); err != nil {
		t.Fatalf("SetResumePosition failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, found, err := cache.GetResumePosition(ctx, "user-1", 42)
	if err != nil {
		t.Fatalf("GetResumePosition failed: %v", err)
	}
	if found {
		t.Error("Expected expired position to be a miss")
	}
}
