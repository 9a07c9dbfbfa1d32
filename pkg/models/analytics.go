package models

import "time"

// PlayerAnalytics is an end-of-session analytics report submitted by the
// playback controller when a session is torn down.
type PlayerAnalytics struct {
	ID                   string    `json:"id" db:"id"`
	SessionID            string    `json:"session_id" db:"session_id"`
	MovieID              int64     `json:"movie_id" db:"movie_id"`
	UserID               string    `json:"user_id,omitempty" db:"user_id"`
	WatchDuration        float64   `json:"watch_duration" db:"watch_duration"`
	AveragePlaybackSpeed float64   `json:"average_playback_speed" db:"average_playback_speed"`
	QualityChanges       int       `json:"quality_changes" db:"quality_changes"`
	BufferingEvents      int       `json:"buffering_events" db:"buffering_events"`
	StartTime            time.Time `json:"start_time" db:"start_time"`
	EndTime              time.Time `json:"end_time" db:"end_time"`
}

// MovieAnalytics represents aggregated playback analytics for a movie
type MovieAnalytics struct {
	MovieID               int64     `json:"movie_id" db:"movie_id"`
	TotalSessions         int64     `json:"total_sessions" db:"total_sessions"`
	UniqueViewers         int64     `json:"unique_viewers" db:"unique_viewers"`
	TotalWatchTime        float64   `json:"total_watch_time" db:"total_watch_time"`
	AverageWatchTime      float64   `json:"average_watch_time" db:"average_watch_time"`
	AverageSpeed          float64   `json:"average_speed" db:"average_speed"`
	BufferingRate         float64   `json:"buffering_rate" db:"buffering_rate"`
	AverageQualityChanges float64   `json:"average_quality_changes" db:"average_quality_changes"`
	LastUpdated           time.Time `json:"last_updated" db:"last_updated"`
}
