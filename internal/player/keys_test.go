package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysIgnoredWithoutFocus(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)

	assert.False(t, h.c.HandleKey(keyPress(" ")))
	assert.False(t, h.c.HandleKey(keyPress("left")))
	assert.Empty(t, h.engine.seekCalls())
}

func TestKeyBindings(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)
	require.NoError(t, h.c.SetFocused(true))
	h.engine.emit(Event{Type: EventTimeUpdate, Time: 100})
	require.NoError(t, h.c.SetVolume(50))

	assert.True(t, h.c.HandleKey(keyPress(" ")))
	require.Eventually(t, func() bool { return h.engine.plays() == 1 }, time.Second, 5*time.Millisecond)

	assert.True(t, h.c.HandleKey(keyPress("left")))
	assert.True(t, h.c.HandleKey(keyPress("right")))
	assert.Equal(t, []float64{90, 110}, h.engine.seekCalls())

	assert.True(t, h.c.HandleKey(keyPress("up")))
	assert.InDelta(t, 0.6, h.c.State().Volume, 1e-9)
	assert.True(t, h.c.HandleKey(keyPress("down")))
	assert.True(t, h.c.HandleKey(keyPress("down")))
	assert.InDelta(t, 0.4, h.c.State().Volume, 1e-9)

	assert.True(t, h.c.HandleKey(keyPress("m")))
	assert.True(t, h.c.State().Muted)
	assert.True(t, h.c.HandleKey(keyPress("M")))
	assert.False(t, h.c.State().Muted)

	assert.True(t, h.c.HandleKey(keyPress("f")))
	req, _, _ := h.screen.counts()
	assert.Equal(t, 1, req)

	assert.False(t, h.c.HandleKey(keyPress("x")))
	assert.False(t, h.c.HandleKey(keyPress("q")))
}

func TestVolumeKeysClampAndDoNotDrift(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)
	require.NoError(t, h.c.SetFocused(true))
	require.NoError(t, h.c.SetVolume(0))

	for i := 0; i < 10; i++ {
		require.True(t, h.c.HandleKey(keyPress("up")))
	}
	assert.Equal(t, 1.0, h.c.State().Volume)

	require.True(t, h.c.HandleKey(keyPress("up")))
	assert.Equal(t, 1.0, h.c.State().Volume)

	for i := 0; i < 10; i++ {
		require.True(t, h.c.HandleKey(keyPress("down")))
	}
	s := h.c.State()
	assert.Equal(t, 0.0, s.Volume)
	assert.True(t, s.Muted)

	require.True(t, h.c.HandleKey(keyPress("down")))
	assert.Equal(t, 0.0, h.c.State().Volume)
}

func TestBoundKeysConsumedWhileErrored(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SetFocused(true))
	h.engine.emit(Event{Type: EventError})

	for _, k := range []string{" ", "left", "right", "up", "down", "m"} {
		assert.True(t, h.c.HandleKey(keyPress(k)), k)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.engine.plays())
	assert.Empty(t, h.engine.seekCalls())
}

func TestCustomSkipStep(t *testing.T) {
	h := newHarness(t, WithSkipStep(30))
	h.ready(t, 600)
	require.NoError(t, h.c.SetFocused(true))
	h.engine.emit(Event{Type: EventTimeUpdate, Time: 100})

	require.True(t, h.c.HandleKey(keyPress("right")))
	assert.Equal(t, []float64{130}, h.engine.seekCalls())
	assert.Equal(t, "skip forward 30s", h.c.KeyMap().SkipForward.Help().Desc)
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap(10)

	assert.Len(t, km.Bindings(), 7)
	assert.Len(t, km.ShortHelp(), 5)
	assert.Len(t, km.FullHelp(), 2)
	assert.Equal(t, "space", km.TogglePlay.Help().Key)
	assert.Equal(t, "skip back 10s", km.SkipBack.Help().Desc)
}
