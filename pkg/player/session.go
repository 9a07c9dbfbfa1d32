package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chrisostomemataba/Kemomovies/internal/metrics"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// SourceResolver resolves the playable sources for a movie.
type SourceResolver interface {
	GetStreamSources(ctx context.Context, movieID int64) ([]models.StreamSource, error)
}

// ResumeStore looks up a previously persisted playback offset for a
// user/movie pair. Zero means "no resume".
type ResumeStore interface {
	GetResumePosition(ctx context.Context, userID string, movieID int64) (float64, error)
}

// Callbacks are the outward-facing hooks a UI layer registers on a session.
// All are optional and invoked synchronously with the triggering event.
type Callbacks struct {
	OnError          func(*models.PlayerError)
	OnProgress       func(currentTime float64)
	OnQualityChange  func(models.QualityOption)
	OnSubtitleChange func(subtitleID *string)
}

// Options configures a playback session.
type Options struct {
	MovieID int64
	// UserID enables resume-from-position when non-empty.
	UserID string

	Surface    MediaSurface
	Transports TransportFactory
	Resolver   SourceResolver
	Resume     ResumeStore

	Transport TransportConfig
	Callbacks Callbacks
}

// Session owns one playback lifecycle for one movie on one render surface:
// source negotiation, transport binding, state tracking, and analytics
// accumulation. Exactly one transport is created per session and destroyed
// with it. All mutations after Close, including late results from in-flight
// resolution, are dropped.
type Session struct {
	id      string
	movieID int64
	userID  string

	surface  MediaSurface
	factory  TransportFactory
	resolver SourceResolver
	resume   ResumeStore
	tcfg     TransportConfig
	cbs      Callbacks

	store     *stateStore
	analytics *Analytics

	mu            sync.Mutex
	alive         bool
	transport     AdaptiveTransport
	unsubs        []func()
	metadataReady bool
	pendingResume float64
}

// NewSession creates a session for the given movie. Initialize must be called
// to begin playback; Close releases the transport and all listeners.
func NewSession(opts Options) (*Session, error) {
	if opts.Surface == nil {
		return nil, errors.New("player: media surface is required")
	}
	if opts.Resolver == nil {
		return nil, errors.New("player: source resolver is required")
	}

	s := &Session{
		id:        uuid.New().String(),
		movieID:   opts.MovieID,
		userID:    opts.UserID,
		surface:   opts.Surface,
		factory:   opts.Transports,
		resolver:  opts.Resolver,
		resume:    opts.Resume,
		tcfg:      opts.Transport,
		cbs:       opts.Callbacks,
		store:     newStateStore(),
		analytics: newAnalytics(time.Now()),
		alive:     true,
	}

	metrics.PlaybackSessionsTotal.Inc()
	metrics.PlaybackSessionsActive.Inc()

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// MovieID returns the movie this session plays.
func (s *Session) MovieID() int64 { return s.movieID }

// State returns the current playback state snapshot.
func (s *Session) State() models.PlayerState { return s.store.Snapshot() }

// Subscribe returns a channel of state snapshots and a cancel function.
func (s *Session) Subscribe() (<-chan models.PlayerState, func()) {
	return s.store.Subscribe()
}

// Analytics returns a read-only view of the accumulated telemetry.
func (s *Session) Analytics() AnalyticsSnapshot { return s.analytics.Snapshot() }

// Initialize resolves sources, binds the transport, and restores the resume
// position. It is safe to call Close while Initialize is in flight: results
// arriving after teardown are discarded.
func (s *Session) Initialize(ctx context.Context) error {
	s.bindSurface()

	sources, err := s.resolver.GetStreamSources(ctx, s.movieID)
	if !s.isAlive() {
		return nil
	}
	if err != nil {
		perr := newPlayerError(ErrCodeSourceResolution, "failed to resolve stream sources", err)
		s.handleError(perr)
		return perr
	}

	if err := s.attachSource(sources); err != nil {
		return err
	}

	s.restoreResumePosition(ctx)
	return nil
}

// attachSource selects the HLS source when present and binds the adaptive
// transport, falling back to native playback when the surface supports the
// container directly.
func (s *Session) attachSource(sources []models.StreamSource) error {
	var hls, mp4 *models.StreamSource
	for i := range sources {
		switch sources[i].Type {
		case models.StreamTypeHLS:
			if hls == nil {
				hls = &sources[i]
			}
		case models.StreamTypeMP4:
			if mp4 == nil {
				mp4 = &sources[i]
			}
		}
	}

	switch {
	case hls != nil && s.factory != nil && s.factory.Supported():
		transport := s.factory.New(s.tcfg)

		s.mu.Lock()
		if !s.alive {
			s.mu.Unlock()
			transport.Destroy()
			return nil
		}
		s.transport = transport
		s.mu.Unlock()

		s.bindTransport(transport)
		transport.LoadSource(hls.URL)
		if err := transport.AttachMedia(s.surface); err != nil {
			perr := newPlayerError(ErrCodePlayerInit, "failed to attach adaptive transport", err)
			s.handleError(perr)
			return perr
		}
		log.Debug().Str("session_id", s.id).Str("source_id", hls.ID).Msg("adaptive transport attached")

	case hls != nil && s.surface.CanPlayNative(MIMETypeHLS):
		s.surface.SetSource(hls.URL)
		s.store.update(func(st *models.PlayerState) { st.Loading = false })
		log.Debug().Str("session_id", s.id).Str("source_id", hls.ID).Msg("native HLS playback selected")

	case mp4 != nil && s.surface.CanPlayNative(MIMETypeMP4):
		s.surface.SetSource(mp4.URL)
		s.store.update(func(st *models.PlayerState) { st.Loading = false })
		log.Debug().Str("session_id", s.id).Str("source_id", mp4.ID).Msg("native MP4 playback selected")

	default:
		perr := newPlayerError(ErrCodeNoPlayableSource, "no playable source for this platform", nil)
		s.handleError(perr)
		return perr
	}

	return nil
}

// restoreResumePosition fetches the stored offset and seeks to it once
// metadata is available. Zero or missing positions start from the beginning;
// lookup failures degrade to zero rather than failing the session.
func (s *Session) restoreResumePosition(ctx context.Context) {
	if s.userID == "" || s.resume == nil {
		return
	}

	position, err := s.resume.GetResumePosition(ctx, s.userID, s.movieID)
	if !s.isAlive() {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", s.id).Int64("movie_id", s.movieID).
			Msg("resume position lookup failed, starting from zero")
		return
	}
	if position <= 0 {
		return
	}

	s.mu.Lock()
	ready := s.metadataReady
	if !ready {
		// Seeking before metadata is loaded is undefined on most
		// surfaces; defer until loadedmetadata fires.
		s.pendingResume = position
	}
	s.mu.Unlock()

	if ready {
		s.applyResume(position)
	}
}

func (s *Session) applyResume(position float64) {
	duration := s.surface.Duration()
	if duration > 0 {
		position = clamp(position, 0, duration)
	}
	s.surface.SetCurrentTime(position)
	metrics.ResumeSeeksTotal.Inc()
	log.Debug().Str("session_id", s.id).Float64("position", position).Msg("resumed playback position")
}

// bindSurface subscribes the session to the surface's native events. Every
// handler drops the event when the session is no longer alive.
func (s *Session) bindSurface() {
	unsub := s.surface.Subscribe(func(ev SurfaceEvent) {
		if !s.isAlive() {
			return
		}
		s.handleSurfaceEvent(ev)
	})

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

func (s *Session) handleSurfaceEvent(ev SurfaceEvent) {
	switch ev.Type {
	case EventTimeUpdate:
		snapshot := s.store.update(func(st *models.PlayerState) {
			st.CurrentTime = s.surface.CurrentTime()
			if d := s.surface.Duration(); d > 0 {
				st.Duration = d
			}
		})
		if s.cbs.OnProgress != nil {
			s.cbs.OnProgress(snapshot.CurrentTime)
		}

	case EventProgress:
		s.store.update(func(st *models.PlayerState) {
			buffered := s.surface.BufferedEnd()
			if st.Duration > 0 && buffered > st.Duration {
				buffered = st.Duration
			}
			st.Buffered = buffered
		})

	case EventWaiting:
		s.analytics.recordBuffering()
		metrics.PlaybackBufferingTotal.Inc()

	case EventRateChange:
		s.analytics.recordSpeedSample(s.surface.PlaybackRate())

	case EventPlay:
		s.store.update(func(st *models.PlayerState) { st.IsPlaying = true })

	case EventPause, EventEnded:
		s.store.update(func(st *models.PlayerState) { st.IsPlaying = false })

	case EventLoadedMetadata:
		s.mu.Lock()
		s.metadataReady = true
		pending := s.pendingResume
		s.pendingResume = 0
		s.mu.Unlock()

		s.store.update(func(st *models.PlayerState) {
			if d := s.surface.Duration(); d > 0 {
				st.Duration = d
			}
		})
		if pending > 0 {
			s.applyResume(pending)
		}
	}
}

// bindTransport subscribes the session to adaptive transport events.
func (s *Session) bindTransport(transport AdaptiveTransport) {
	unsub := transport.Subscribe(func(ev TransportEvent) {
		if !s.isAlive() {
			return
		}
		s.handleTransportEvent(transport, ev)
	})

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

func (s *Session) handleTransportEvent(transport AdaptiveTransport, ev TransportEvent) {
	switch ev.Type {
	case TransportLevelSwitched:
		levels := transport.Levels()
		if ev.Level < 0 || ev.Level >= len(levels) {
			return
		}
		quality := models.QualityFromHeight(levels[ev.Level].Height)
		s.store.update(func(st *models.PlayerState) { st.Quality = quality })
		s.analytics.recordQualityChange()
		metrics.QualitySwitchesTotal.WithLabelValues(string(quality)).Inc()
		if s.cbs.OnQualityChange != nil {
			s.cbs.OnQualityChange(quality)
		}

	case TransportManifestParsed:
		s.store.update(func(st *models.PlayerState) { st.Loading = false })

	case TransportError:
		if !ev.Fatal {
			// Recoverable hiccup: the transport retries on its own.
			log.Debug().Str("session_id", s.id).Interface("details", ev.Details).
				Msg("non-fatal transport error")
			return
		}
		s.handleError(newPlayerError(ErrCodeStreamFatal, "fatal streaming error occurred", ev.Details))
	}
}

// handleError is the single sink for fatal and surfaced conditions: it sets
// the state error, clears loading, and invokes OnError exactly once per
// occurrence.
func (s *Session) handleError(perr *models.PlayerError) {
	metrics.PlaybackErrorsTotal.WithLabelValues(perr.Code).Inc()
	log.Error().Str("session_id", s.id).Int64("movie_id", s.movieID).
		Str("code", perr.Code).Msg(perr.Message)

	s.store.update(func(st *models.PlayerState) {
		st.Error = perr
		st.Loading = false
	})
	if s.cbs.OnError != nil {
		s.cbs.OnError(perr)
	}
}

func (s *Session) isAlive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

func (s *Session) currentTransport() AdaptiveTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport
}

// Close tears the session down: listeners detach, the transport is destroyed,
// subscribers are closed, and the final analytics report is returned for
// submission to the telemetry sink. Close is idempotent; only the first call
// produces a report.
func (s *Session) Close() (models.PlayerAnalytics, bool) {
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return models.PlayerAnalytics{}, false
	}
	s.alive = false
	transport := s.transport
	s.transport = nil
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if transport != nil {
		transport.Destroy()
	}

	watched := s.store.Snapshot().CurrentTime
	report := s.analytics.report(s.id, s.movieID, s.userID, watched, time.Now())

	s.store.closeSubscribers()
	metrics.PlaybackSessionsActive.Dec()
	log.Debug().Str("session_id", s.id).Int64("movie_id", s.movieID).
		Float64("watch_duration", watched).Msg("playback session closed")

	return report, true
}
