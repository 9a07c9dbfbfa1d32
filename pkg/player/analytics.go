package player

import (
	"sync"
	"time"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Analytics passively tallies session telemetry. It never blocks playback:
// increments are in-memory and submission happens outside the controller.
type Analytics struct {
	mu              sync.Mutex
	startTime       time.Time
	qualityChanges  int
	bufferingEvents int
	speedSum        float64
	speedSamples    int
}

// AnalyticsSnapshot is a read-only view of the accumulated tallies.
type AnalyticsSnapshot struct {
	StartTime       time.Time
	QualityChanges  int
	BufferingEvents int
	AverageSpeed    float64
}

func newAnalytics(start time.Time) *Analytics {
	return &Analytics{startTime: start}
}

func (a *Analytics) recordQualityChange() {
	a.mu.Lock()
	a.qualityChanges++
	a.mu.Unlock()
}

func (a *Analytics) recordBuffering() {
	a.mu.Lock()
	a.bufferingEvents++
	a.mu.Unlock()
}

func (a *Analytics) recordSpeedSample(rate float64) {
	a.mu.Lock()
	a.speedSum += rate
	a.speedSamples++
	a.mu.Unlock()
}

// Snapshot returns the current tallies. AverageSpeed is 1 when no rate
// change was ever observed.
func (a *Analytics) Snapshot() AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	avg := 1.0
	if a.speedSamples > 0 {
		avg = a.speedSum / float64(a.speedSamples)
	}

	return AnalyticsSnapshot{
		StartTime:       a.startTime,
		QualityChanges:  a.qualityChanges,
		BufferingEvents: a.bufferingEvents,
		AverageSpeed:    avg,
	}
}

// report builds the end-of-session record handed to the telemetry pipeline.
func (a *Analytics) report(sessionID string, movieID int64, userID string, watchDuration float64, end time.Time) models.PlayerAnalytics {
	snap := a.Snapshot()

	return models.PlayerAnalytics{
		SessionID:            sessionID,
		MovieID:              movieID,
		UserID:               userID,
		WatchDuration:        watchDuration,
		AveragePlaybackSpeed: snap.AverageSpeed,
		QualityChanges:       snap.QualityChanges,
		BufferingEvents:      snap.BufferingEvents,
		StartTime:            snap.StartTime,
		EndTime:              end,
	}
}
