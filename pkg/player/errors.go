package player

import "github.com/chrisostomemataba/Kemomovies/pkg/models"

// Closed set of playback error codes surfaced through PlayerError.Code.
const (
	// ErrCodeNoPlayableSource means the resolver returned no usable source
	// and no native fallback exists. Fatal to the session.
	ErrCodeNoPlayableSource = "NO_PLAYABLE_SOURCE"

	// ErrCodeSourceResolution means the resolver call itself failed. Fatal.
	ErrCodeSourceResolution = "SOURCE_RESOLUTION_ERROR"

	// ErrCodeStreamFatal means the adaptive transport reported a fatal
	// condition. The session should be torn down; a retry means a new session.
	ErrCodeStreamFatal = "STREAM_FATAL_ERROR"

	// ErrCodePlaybackStart means the render surface rejected a play request,
	// e.g. an autoplay policy. Non-fatal to the session itself.
	ErrCodePlaybackStart = "PLAYBACK_START_ERROR"

	// ErrCodePlayerInit covers any other initialization failure.
	ErrCodePlayerInit = "PLAYER_INIT_ERROR"
)

func newPlayerError(code, message string, details interface{}) *models.PlayerError {
	return &models.PlayerError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
