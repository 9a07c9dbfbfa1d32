package player

import "context"

// SurfaceEventType identifies a native media event emitted by a render surface.
type SurfaceEventType string

// Native media events the session binds to.
const (
	EventTimeUpdate     SurfaceEventType = "timeupdate"
	EventProgress       SurfaceEventType = "progress"
	EventWaiting        SurfaceEventType = "waiting"
	EventRateChange     SurfaceEventType = "ratechange"
	EventPlay           SurfaceEventType = "play"
	EventPause          SurfaceEventType = "pause"
	EventEnded          SurfaceEventType = "ended"
	EventLoadedMetadata SurfaceEventType = "loadedmetadata"
)

// SurfaceEvent is a single native media event.
type SurfaceEvent struct {
	Type SurfaceEventType
}

// MIME types used during source negotiation.
const (
	MIMETypeHLS = "application/vnd.apple.mpegurl"
	MIMETypeMP4 = "video/mp4"
)

// MediaSurface is the capability interface for the native media element the
// session attaches to. Implementations deliver events on a single goroutine;
// the session serializes its own state mutations, so surface implementations
// only need to keep their own accessors consistent.
type MediaSurface interface {
	// Play requests playback start. The request is asynchronous on real
	// surfaces and may be rejected (e.g. by an autoplay policy).
	Play(ctx context.Context) error
	// Pause requests playback stop. State follows the native pause event.
	Pause()

	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Duration() float64
	// BufferedEnd returns the end of the last contiguous buffered range,
	// or 0 when nothing is buffered.
	BufferedEnd() float64

	Volume() float64
	SetVolume(volume float64)
	Muted() bool
	SetMuted(muted bool)

	PlaybackRate() float64
	SetPlaybackRate(rate float64)

	// SetSource points the surface directly at a stream URL for native
	// (non-adaptive) playback.
	SetSource(url string)
	// CanPlayNative reports whether the surface can play the MIME type
	// without an adaptive transport.
	CanPlayNative(mimeType string) bool

	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error
	IsFullscreen() bool

	// Subscribe registers a listener for native events and returns an
	// unsubscribe function. The session calls the unsubscribe on teardown.
	Subscribe(fn func(SurfaceEvent)) (unsubscribe func())
}
