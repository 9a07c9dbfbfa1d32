package player

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// Control surface. State never changes optimistically on play/pause: it
// follows the surface's native events, so the snapshot stays explainable by
// the event log alone.

// Play requests playback start on the render surface. A rejection (e.g. an
// autoplay policy) routes through the error sink with PLAYBACK_START_ERROR.
func (s *Session) Play(ctx context.Context) error {
	if !s.isAlive() {
		return nil
	}
	if err := s.surface.Play(ctx); err != nil {
		perr := newPlayerError(ErrCodePlaybackStart, "failed to start playback", err)
		s.handleError(perr)
		return perr
	}
	return nil
}

// Pause requests playback stop. The state updates when the native pause
// event fires.
func (s *Session) Pause() {
	if !s.isAlive() {
		return
	}
	s.surface.Pause()
}

// Toggle pauses when playing and plays when paused, reading the state at
// call time so rapid successive calls alternate correctly.
func (s *Session) Toggle(ctx context.Context) error {
	if s.store.Snapshot().IsPlaying {
		s.Pause()
		return nil
	}
	return s.Play(ctx)
}

// Seek moves playback to the given time, silently clamped to [0, duration].
func (s *Session) Seek(seconds float64) {
	if !s.isAlive() {
		return
	}
	s.surface.SetCurrentTime(clamp(seconds, 0, s.store.Snapshot().Duration))
}

// SeekBy moves playback relative to the current position, clamped to
// [0, duration].
func (s *Session) SeekBy(delta float64) {
	if !s.isAlive() {
		return
	}
	target := s.surface.CurrentTime() + delta
	s.surface.SetCurrentTime(clamp(target, 0, s.store.Snapshot().Duration))
}

// SetVolume clamps the volume to [0, 1] and applies it to the surface and
// the state in the same call. Volume zero forces mute; unmuting afterwards
// does not restore the pre-mute volume.
func (s *Session) SetVolume(volume float64) {
	if !s.isAlive() {
		return
	}
	normalized := clamp(volume, 0, 1)
	muted := normalized == 0

	s.surface.SetVolume(normalized)
	s.surface.SetMuted(muted)
	s.store.update(func(st *models.PlayerState) {
		st.Volume = normalized
		st.IsMuted = muted
	})
}

// ToggleMute flips the surface's mute flag; the state follows the flag.
func (s *Session) ToggleMute() {
	if !s.isAlive() {
		return
	}
	s.surface.SetMuted(!s.surface.Muted())
	muted := s.surface.Muted()
	s.store.update(func(st *models.PlayerState) { st.IsMuted = muted })
}

// SetPlaybackSpeed applies a playback rate from the supported set. Values
// outside the set are ignored.
func (s *Session) SetPlaybackSpeed(speed models.PlaybackSpeed) {
	if !s.isAlive() || !speed.IsValid() {
		return
	}
	s.surface.SetPlaybackRate(float64(speed))
	s.store.update(func(st *models.PlayerState) { st.PlaybackSpeed = speed })
}

// SetQuality pins the adaptive transport to the first level mapping to the
// requested tier. Without an adaptive transport, or when no level matches,
// the call is a no-op.
func (s *Session) SetQuality(quality models.QualityOption) {
	if !s.isAlive() {
		return
	}
	transport := s.currentTransport()
	if transport == nil {
		return
	}

	for i, level := range transport.Levels() {
		if models.QualityFromHeight(level.Height) == quality {
			transport.SetCurrentLevel(i)
			s.store.update(func(st *models.PlayerState) { st.Quality = quality })
			if s.cbs.OnQualityChange != nil {
				s.cbs.OnQualityChange(quality)
			}
			return
		}
	}
}

// SetSubtitle selects a subtitle track by ID, or disables subtitles with nil.
// Fetching subtitle content is the caller's concern.
func (s *Session) SetSubtitle(subtitleID *string) {
	if !s.isAlive() {
		return
	}
	s.store.update(func(st *models.PlayerState) { st.SelectedSubtitle = subtitleID })
	if s.cbs.OnSubtitleChange != nil {
		s.cbs.OnSubtitleChange(subtitleID)
	}
}

// ToggleFullscreen requests or exits fullscreen on the surface's container.
// Fullscreen failures are logged and swallowed: they never set the state
// error or interrupt playback, unlike playback-start failures.
func (s *Session) ToggleFullscreen(ctx context.Context) {
	if !s.isAlive() {
		return
	}

	var err error
	if s.surface.IsFullscreen() {
		err = s.surface.ExitFullscreen(ctx)
	} else {
		err = s.surface.RequestFullscreen(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", s.id).Msg("fullscreen toggle failed")
		return
	}

	fullscreen := s.surface.IsFullscreen()
	s.store.update(func(st *models.PlayerState) { st.IsFullscreen = fullscreen })
}
