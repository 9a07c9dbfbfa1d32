package player

import (
	"sync"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

// stateStore holds the playback state snapshot. It is mutated only through
// update, which keeps every transition explainable by the event log: native
// surface events, transport events, and control-surface calls.
type stateStore struct {
	mu    sync.RWMutex
	state models.PlayerState

	subMu   sync.Mutex
	subs    map[int]chan models.PlayerState
	nextSub int
	closed  bool
}

func defaultState() models.PlayerState {
	return models.PlayerState{
		Quality:       models.Quality720p,
		Volume:        1,
		PlaybackSpeed: models.SpeedNormal,
		Loading:       true,
	}
}

func newStateStore() *stateStore {
	return &stateStore{
		state: defaultState(),
		subs:  make(map[int]chan models.PlayerState),
	}
}

// Snapshot returns a copy of the current state.
func (s *stateStore) Snapshot() models.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// update applies a mutation and notifies subscribers with the new snapshot.
func (s *stateStore) update(fn func(*models.PlayerState)) models.PlayerState {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// Subscribe returns a channel carrying state snapshots after each transition
// and a cancel function. Each channel holds the latest snapshot only: a slow
// subscriber sees the freshest state, not a backlog. Subscribing to a store
// that has already been torn down yields a closed channel.
func (s *stateStore) Subscribe() (<-chan models.PlayerState, func()) {
	ch := make(chan models.PlayerState, 1)

	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *stateStore) notify(snapshot models.PlayerState) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		// Replace a stale pending snapshot instead of blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (s *stateStore) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
