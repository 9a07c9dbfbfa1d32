package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

func TestStateStoreDefaults(t *testing.T) {
	store := newStateStore()
	state := store.Snapshot()

	assert.Equal(t, models.Quality720p, state.Quality)
	assert.Equal(t, 1.0, state.Volume)
	assert.Equal(t, models.SpeedNormal, state.PlaybackSpeed)
	assert.True(t, state.Loading)
	assert.False(t, state.IsPlaying)
	assert.Nil(t, state.Error)
}

func TestStateStoreUpdateNotifiesSubscribers(t *testing.T) {
	store := newStateStore()
	ch, cancel := store.Subscribe()
	defer cancel()

	store.update(func(st *models.PlayerState) { st.IsPlaying = true })

	state := <-ch
	assert.True(t, state.IsPlaying)
}

func TestStateStoreSlowSubscriberSeesLatest(t *testing.T) {
	store := newStateStore()
	ch, cancel := store.Subscribe()
	defer cancel()

	// Three transitions without a read in between: only the freshest
	// snapshot survives.
	store.update(func(st *models.PlayerState) { st.CurrentTime = 1 })
	store.update(func(st *models.PlayerState) { st.CurrentTime = 2 })
	store.update(func(st *models.PlayerState) { st.CurrentTime = 3 })

	state := <-ch
	assert.Equal(t, 3.0, state.CurrentTime)

	select {
	case <-ch:
		t.Fatal("no backlog expected")
	default:
	}
}

func TestStateStoreCancelIsIdempotent(t *testing.T) {
	store := newStateStore()
	ch, cancel := store.Subscribe()

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Updates after cancel must not panic.
	store.update(func(st *models.PlayerState) { st.IsPlaying = true })
}

func TestStateStoreCloseSubscribers(t *testing.T) {
	store := newStateStore()
	ch1, cancel1 := store.Subscribe()
	ch2, _ := store.Subscribe()

	store.closeSubscribers()

	_, open := <-ch1
	assert.False(t, open)
	_, open = <-ch2
	assert.False(t, open)

	// Cancel after close must not double-close.
	cancel1()
}

func TestStateStoreSubscribeAfterCloseYieldsClosedChannel(t *testing.T) {
	store := newStateStore()
	store.closeSubscribers()

	ch, cancel := store.Subscribe()
	defer cancel()

	// A subscriber arriving after teardown must observe termination
	// immediately instead of waiting on a channel nobody will close.
	_, open := <-ch
	assert.False(t, open)

	store.update(func(st *models.PlayerState) { st.IsPlaying = true })
	cancel()
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, clamp(-1, 0, 10))
	require.Equal(t, 10.0, clamp(11, 0, 10))
	require.Equal(t, 5.0, clamp(5, 0, 10))
}
