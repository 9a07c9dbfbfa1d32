package models

import "time"

// QualityOption represents a user-facing playback quality tier
type QualityOption string

// Quality tiers exposed to the player UI
const (
	Quality480p  QualityOption = "480p"
	Quality720p  QualityOption = "720p"
	Quality1080p QualityOption = "1080p"
	Quality4K    QualityOption = "4K"
)

// PlaybackSpeed is a playback rate multiplier restricted to the supported set
type PlaybackSpeed float64

// Supported playback speeds
const (
	SpeedHalf          PlaybackSpeed = 0.5
	SpeedThreeQuarters PlaybackSpeed = 0.75
	SpeedNormal        PlaybackSpeed = 1
	SpeedFast          PlaybackSpeed = 1.25
	SpeedFaster        PlaybackSpeed = 1.5
	SpeedDouble        PlaybackSpeed = 2
)

// PlaybackSpeeds returns the supported speed set in ascending order
func PlaybackSpeeds() []PlaybackSpeed {
	return []PlaybackSpeed{SpeedHalf, SpeedThreeQuarters, SpeedNormal, SpeedFast, SpeedFaster, SpeedDouble}
}

// IsValid reports whether the speed is in the supported set
func (s PlaybackSpeed) IsValid() bool {
	switch s {
	case SpeedHalf, SpeedThreeQuarters, SpeedNormal, SpeedFast, SpeedFaster, SpeedDouble:
		return true
	}
	return false
}

// PlayerError is a machine-checkable playback error
type PlayerError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *PlayerError) Error() string {
	return e.Code + ": " + e.Message
}

// PlayerState is the externally observable playback snapshot
type PlayerState struct {
	IsPlaying        bool          `json:"is_playing"`
	CurrentTime      float64       `json:"current_time"`
	Duration         float64       `json:"duration"`
	Buffered         float64       `json:"buffered"`
	Quality          QualityOption `json:"quality"`
	Volume           float64       `json:"volume"`
	IsMuted          bool          `json:"is_muted"`
	PlaybackSpeed    PlaybackSpeed `json:"playback_speed"`
	IsFullscreen     bool          `json:"is_fullscreen"`
	SelectedSubtitle *string       `json:"selected_subtitle,omitempty"`
	Error            *PlayerError  `json:"error,omitempty"`
	Loading          bool          `json:"loading"`
}

// StreamSource represents a resolved playable endpoint for a movie
type StreamSource struct {
	ID      string        `json:"id" db:"id"`
	MovieID int64         `json:"movie_id" db:"movie_id"`
	Quality QualityOption `json:"quality" db:"quality"`
	URL     string        `json:"url" db:"stream_url"`
	Type    string        `json:"type" db:"format"`
	Size    int64         `json:"size,omitempty" db:"size"`
}

// StreamSource format constants
const (
	StreamTypeHLS = "hls"
	StreamTypeMP4 = "mp4"
)

// Subtitle represents an available subtitle track for a movie
type Subtitle struct {
	ID       string `json:"id" db:"id"`
	MovieID  int64  `json:"movie_id" db:"movie_id"`
	Language string `json:"language" db:"language_code"`
	Label    string `json:"label" db:"language_label"`
	URL      string `json:"url" db:"subtitle_url"`
}

// WatchProgress is a persisted playback offset for a user/movie pair
type WatchProgress struct {
	UserID    string    `json:"user_id" db:"user_id"`
	MovieID   int64     `json:"movie_id" db:"movie_id"`
	Position  float64   `json:"position" db:"watch_duration"`
	Duration  float64   `json:"duration" db:"duration"`
	Completed bool      `json:"completed" db:"completed"`
	WatchedAt time.Time `json:"watched_at" db:"watched_at"`
}
