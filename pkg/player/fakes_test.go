package player

import (
	"context"
	"sync"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// fakeSurface is an in-memory MediaSurface that records control calls and
// lets tests emit native events.
type fakeSurface struct {
	mu sync.Mutex

	playErr       error
	playCalls     int
	pauseCalls    int
	currentTime   float64
	seeks         []float64
	duration      float64
	buffered      float64
	volume        float64
	muted         bool
	rate          float64
	source        string
	native        map[string]bool
	fullscreen    bool
	fullscreenErr error

	listeners []func(SurfaceEvent)
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{volume: 1, rate: 1, native: map[string]bool{}}
}

func (f *fakeSurface) Play(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	return f.playErr
}

func (f *fakeSurface) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauseCalls++
}

func (f *fakeSurface) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentTime
}

func (f *fakeSurface) SetCurrentTime(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentTime = seconds
	f.seeks = append(f.seeks, seconds)
}

func (f *fakeSurface) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeSurface) BufferedEnd() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buffered
}

func (f *fakeSurface) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeSurface) SetVolume(volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
}

func (f *fakeSurface) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *fakeSurface) SetMuted(muted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
}

func (f *fakeSurface) PlaybackRate() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *fakeSurface) SetPlaybackRate(rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
}

func (f *fakeSurface) SetSource(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source = url
}

func (f *fakeSurface) CanPlayNative(mimeType string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.native[mimeType]
}

func (f *fakeSurface) RequestFullscreen(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fullscreenErr != nil {
		return f.fullscreenErr
	}
	f.fullscreen = true
	return nil
}

func (f *fakeSurface) ExitFullscreen(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fullscreenErr != nil {
		return f.fullscreenErr
	}
	f.fullscreen = false
	return nil
}

func (f *fakeSurface) IsFullscreen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fullscreen
}

func (f *fakeSurface) Subscribe(fn func(SurfaceEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.listeners)
	f.listeners = append(f.listeners, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listeners[i] = nil
	}
}

func (f *fakeSurface) emit(ev SurfaceEvent) {
	f.mu.Lock()
	listeners := append([]func(SurfaceEvent){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(ev)
		}
	}
}

func (f *fakeSurface) seekCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seeks)
}

// fakeTransport records transport interactions and lets tests emit
// transport events.
type fakeTransport struct {
	mu sync.Mutex

	levels       []Level
	currentLevel int
	levelCalls   []int
	loadedURL    string
	attached     bool
	attachErr    error
	destroyed    bool

	listeners []func(TransportEvent)
}

func (f *fakeTransport) LoadSource(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadedURL = url
}

func (f *fakeTransport) AttachMedia(surface MediaSurface) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached = true
	return nil
}

func (f *fakeTransport) Levels() []Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels
}

func (f *fakeTransport) CurrentLevel() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentLevel
}

func (f *fakeTransport) SetCurrentLevel(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentLevel = index
	f.levelCalls = append(f.levelCalls, index)
}

func (f *fakeTransport) Subscribe(fn func(TransportEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.listeners)
	f.listeners = append(f.listeners, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listeners[i] = nil
	}
}

func (f *fakeTransport) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
}

func (f *fakeTransport) emit(ev TransportEvent) {
	f.mu.Lock()
	listeners := append([]func(TransportEvent){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(ev)
		}
	}
}

func (f *fakeTransport) isDestroyed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// fakeFactory hands out a prepared transport and counts constructions.
type fakeFactory struct {
	mu        sync.Mutex
	supported bool
	transport *fakeTransport
	created   int
	lastCfg   TransportConfig
}

func (f *fakeFactory) Supported() bool { return f.supported }

func (f *fakeFactory) New(cfg TransportConfig) AdaptiveTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	f.lastCfg = cfg
	if f.transport == nil {
		f.transport = &fakeTransport{}
	}
	return f.transport
}

// fakeResolver serves canned sources. When block is set, GetStreamSources
// waits on it before returning, so tests can interleave teardown with an
// in-flight resolution.
type fakeResolver struct {
	mu      sync.Mutex
	sources []models.StreamSource
	err     error
	calls   int
	block   chan struct{}
}

func (f *fakeResolver) GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sources, f.err
}

// fakeResume serves a canned resume position.
type fakeResume struct {
	mu       sync.Mutex
	position float64
	err      error
	calls    int
}

func (f *fakeResume) GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.position, f.err
}

func hlsSource(id string, url string) models.StreamSource {
	return models.StreamSource{ID: id, MovieID: 1, Quality: models.Quality1080p, URL: url, Type: models.StreamTypeHLS}
}

func mp4Source(id string, url string) models.StreamSource {
	return models.StreamSource{ID: id, MovieID: 1, Quality: models.Quality720p, URL: url, Type: models.StreamTypeMP4}
}
