package player

// Level describes one variant in an adaptive stream's level list.
type Level struct {
	Height  int
	Bitrate int64
}

// TransportEventType identifies an adaptive transport event.
type TransportEventType string

// Transport events the session binds to.
const (
	TransportLevelSwitched  TransportEventType = "level_switched"
	TransportManifestParsed TransportEventType = "manifest_parsed"
	TransportError          TransportEventType = "error"
)

// TransportEvent is a single adaptive transport event. Level is the index of
// the new level for level_switched events. Fatal distinguishes unrecoverable
// stream failures from hiccups the transport recovers from on its own.
type TransportEvent struct {
	Type    TransportEventType
	Level   int
	Fatal   bool
	Details interface{}
}

// AdaptiveTransport is the capability interface for an adaptive-bitrate
// client (an hls.js equivalent). A session owns at most one transport and
// destroys it on teardown.
type AdaptiveTransport interface {
	LoadSource(url string)
	AttachMedia(surface MediaSurface) error

	Levels() []Level
	CurrentLevel() int
	// SetCurrentLevel pins playback to the level at the given index.
	// An index of -1 restores automatic level selection.
	SetCurrentLevel(index int)

	Subscribe(fn func(TransportEvent)) (unsubscribe func())
	Destroy()
}

// TransportConfig carries tuning knobs passed to the transport factory.
type TransportConfig struct {
	// CapLevelToSurfaceSize limits automatic level selection to the
	// surface's display size.
	CapLevelToSurfaceSize bool
	// StartLevel is the level index to begin playback at.
	StartLevel int
}

// TransportFactory abstracts transport availability and construction so the
// session stays polymorphic over adaptive vs. native-only playback.
type TransportFactory interface {
	// Supported reports whether adaptive playback is available on this
	// platform at all.
	Supported() bool
	New(cfg TransportConfig) AdaptiveTransport
}
