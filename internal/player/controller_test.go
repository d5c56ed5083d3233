package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountStartsLoading(t *testing.T) {
	h := newHarness(t)

	s := h.c.State()
	assert.Equal(t, Loading, s.LoadState)
	assert.True(t, s.ControlsVisible)
	assert.False(t, s.Playing)
	assert.Equal(t, 1.0, s.Volume)
	assert.Equal(t, 1.0, s.PlaybackRate)
	assert.Equal(t, testSource.Title, s.Source.Title)
	assert.Equal(t, []string{testSource.URL}, h.engine.loads)
	assert.Equal(t, 1, h.engine.subscribers())
}

func TestMountDefaultsTitle(t *testing.T) {
	engine := newFakeEngine(t.Name())
	c := New(engine, nil)
	require.NoError(t, c.Mount(context.Background(), Source{URL: testSource.URL}))
	defer c.Close()

	assert.Equal(t, DefaultTitle, c.State().Source.Title)
}

func TestLoadedMetadataMakesReady(t *testing.T) {
	h := newHarness(t)

	h.engine.emit(Event{Type: EventLoadStart})
	h.engine.emit(Event{Type: EventLoadedMetadata, Duration: 596.5})

	s := h.c.State()
	assert.Equal(t, Ready, s.LoadState)
	assert.Equal(t, 596.5, s.Duration)
	assert.False(t, s.Loading())
	assert.Empty(t, s.ErrorMessage)
}

func TestTogglePlayWaitsForEngineConfirmation(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)

	require.NoError(t, h.c.TogglePlay())
	require.Eventually(t, func() bool { return h.engine.plays() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, h.c.State().Playing, "playing must only follow the engine")

	h.engine.emit(Event{Type: EventPlay})
	assert.True(t, h.c.State().Playing)

	require.NoError(t, h.c.TogglePlay())
	assert.Equal(t, 1, h.engine.pauses)
	assert.True(t, h.c.State().Playing)

	h.engine.emit(Event{Type: EventPause})
	assert.False(t, h.c.State().Playing)
}

func TestTogglePlayWhileLoadingIsForwardedAndMayBeRejected(t *testing.T) {
	h := newHarness(t)
	h.engine.playErr = errors.New("autoplay policy")

	require.NoError(t, h.c.TogglePlay())

	h.eventually(t, func(s PlayerState) bool { return s.Errored() }, "rejection should error the player")
	s := h.c.State()
	assert.Equal(t, MsgPlaybackRejected, s.ErrorMessage)
	assert.False(t, s.Playing)
	assert.Equal(t, 1, h.engine.plays())
}

func TestStalePlayRejectionIsDropped(t *testing.T) {
	h := newHarness(t)
	gate := make(chan struct{})
	h.engine.playErr = errors.New("slow failure")
	h.engine.playGate = gate

	require.NoError(t, h.c.TogglePlay())
	require.Eventually(t, func() bool { return h.engine.plays() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, h.c.Load(Source{URL: "https://example.com/other.webm"}))
	close(gate)

	assert.Never(t, func() bool { return h.c.State().Errored() }, 100*time.Millisecond, 5*time.Millisecond)
	s := h.c.State()
	assert.Equal(t, Loading, s.LoadState)
	assert.Equal(t, "https://example.com/other.webm", s.Source.URL)
}

func TestSeekConvertsPercentToTime(t *testing.T) {
	for _, pct := range []float64{0, 12.5, 33.3, 50, 99.9, 100} {
		h := newHarness(t)
		h.ready(t, 596.5)

		require.NoError(t, h.c.Seek(pct))
		want := pct / 100 * 596.5
		assert.InDelta(t, want, h.c.State().CurrentTime, 1e-9, "optimistic time for %v%%", pct)

		seeks := h.engine.seekCalls()
		require.Len(t, seeks, 1)
		h.engine.emit(Event{Type: EventTimeUpdate, Time: seeks[0]})
		assert.InDelta(t, want, h.c.State().CurrentTime, 1e-9, "confirmed time for %v%%", pct)
		require.NoError(t, h.c.Close())
	}
}

func TestSeekIgnoredWithoutDurationOrWhenErrored(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.Seek(50))
	assert.Empty(t, h.engine.seekCalls(), "duration unknown")

	h.ready(t, 120)
	h.engine.emit(Event{Type: EventError, Detail: "network"})
	require.NoError(t, h.c.Seek(50))
	assert.Empty(t, h.engine.seekCalls(), "errored")
}

func TestSkipClampsToBounds(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)

	h.engine.emit(Event{Type: EventTimeUpdate, Time: 5})
	require.NoError(t, h.c.Skip(-10))
	require.Equal(t, []float64{0}, h.engine.seekCalls())
	assert.Equal(t, 5.0, h.c.State().CurrentTime, "skip waits for the engine")

	h.engine.emit(Event{Type: EventTimeUpdate, Time: 0})
	assert.Equal(t, 0.0, h.c.State().CurrentTime)

	h.engine.emit(Event{Type: EventTimeUpdate, Time: 595})
	require.NoError(t, h.c.Skip(10))
	assert.Equal(t, []float64{0, 600}, h.engine.seekCalls())
}

func TestSkipWithoutDurationOnlyClampsAtZero(t *testing.T) {
	h := newHarness(t)
	h.engine.emit(Event{Type: EventTimeUpdate, Time: 42})

	require.NoError(t, h.c.Skip(10))
	require.NoError(t, h.c.Skip(-100))
	assert.Equal(t, []float64{52, 0}, h.engine.seekCalls())
}

func TestSetVolume(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)

	require.NoError(t, h.c.SetVolume(40))
	s := h.c.State()
	assert.InDelta(t, 0.4, s.Volume, 1e-9)
	assert.False(t, s.Muted)

	require.NoError(t, h.c.SetVolume(0))
	s = h.c.State()
	assert.Equal(t, 0.0, s.Volume)
	assert.True(t, s.Muted)

	vols := h.engine.volumeCalls()
	assert.InDelta(t, 0.4, vols[len(vols)-2], 1e-9)
	assert.Equal(t, 0.0, vols[len(vols)-1])
}

func TestToggleMuteIsInvolutive(t *testing.T) {
	for _, pct := range []float64{100, 65, 1} {
		h := newHarness(t)
		h.ready(t, 60)
		require.NoError(t, h.c.SetVolume(pct))
		before := h.c.State()

		require.NoError(t, h.c.ToggleMute())
		muted := h.c.State()
		assert.True(t, muted.Muted)
		assert.Equal(t, before.Volume, muted.Volume, "muting keeps the chosen level")
		assert.Equal(t, 0.0, muted.EffectiveVolume())

		require.NoError(t, h.c.ToggleMute())
		after := h.c.State()
		assert.Equal(t, before.Volume, after.Volume)
		assert.Equal(t, before.Muted, after.Muted)

		vols := h.engine.volumeCalls()
		assert.Equal(t, []float64{0, before.Volume}, vols[len(vols)-2:])
		require.NoError(t, h.c.Close())
	}
}

func TestUnmuteAfterZeroVolumeRestoresLastAudibleLevel(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)

	require.NoError(t, h.c.SetVolume(70))
	require.NoError(t, h.c.SetVolume(0))
	require.NoError(t, h.c.ToggleMute())

	s := h.c.State()
	assert.False(t, s.Muted)
	assert.InDelta(t, 0.7, s.Volume, 1e-9)
}

func TestEngineVolumeChangesAreMirrored(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)
	require.NoError(t, h.c.SetVolume(80))

	h.engine.emit(Event{Type: EventVolumeChange, Volume: 0})
	s := h.c.State()
	assert.True(t, s.Muted)
	assert.InDelta(t, 0.8, s.Volume, 1e-9, "zero engine output keeps the chosen level")

	h.engine.emit(Event{Type: EventVolumeChange, Volume: 0.3})
	s = h.c.State()
	assert.False(t, s.Muted)
	assert.InDelta(t, 0.3, s.Volume, 1e-9)

	h.engine.emit(Event{Type: EventVolumeChange, Volume: 0.3, Muted: true})
	assert.True(t, h.c.State().Muted)
}

func TestSetPlaybackRate(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)

	for _, rate := range Rates {
		require.NoError(t, h.c.SetPlaybackRate(rate))
		require.NoError(t, h.c.SetPlaybackRate(rate))
		assert.Equal(t, rate, h.c.State().PlaybackRate)
	}
	// each rate reaches the engine once despite the repeated call
	assert.Equal(t, Rates, h.engine.rateCalls())

	err := h.c.SetPlaybackRate(3)
	assert.ErrorIs(t, err, ErrInvalidRate)
	assert.Equal(t, 2.0, h.c.State().PlaybackRate)
}

func TestEngineRateChangeOutsideMenuIsIgnored(t *testing.T) {
	h := newHarness(t)

	h.engine.emit(Event{Type: EventRateChange, Rate: 1.5})
	assert.Equal(t, 1.5, h.c.State().PlaybackRate)

	h.engine.emit(Event{Type: EventRateChange, Rate: 1.1})
	assert.Equal(t, 1.5, h.c.State().PlaybackRate)
}

func TestFullscreenFollowsScreenNotification(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.ToggleFullscreen())
	req, exits, _ := h.screen.counts()
	assert.Equal(t, 1, req)
	assert.Equal(t, 0, exits)
	assert.False(t, h.c.State().Fullscreen, "request alone changes nothing")

	h.screen.emit(true)
	assert.True(t, h.c.State().Fullscreen)

	require.NoError(t, h.c.ToggleFullscreen())
	_, exits, _ = h.screen.counts()
	assert.Equal(t, 1, exits)

	// exited through the platform rather than this control
	h.screen.emit(false)
	assert.False(t, h.c.State().Fullscreen)
}

func TestFullscreenFailureIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.screen.err = errors.New("denied")

	require.NoError(t, h.c.ToggleFullscreen())
	s := h.c.State()
	assert.False(t, s.Fullscreen)
	assert.Equal(t, Loading, s.LoadState)
}

func TestControlsStayVisibleWhilePaused(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)

	require.NoError(t, h.c.NoteActivity())
	h.clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, h.c.State().ControlsVisible)

	require.NoError(t, h.c.PointerLeave())
	assert.True(t, h.c.State().ControlsVisible)
}

func TestControlsHideAfterIdleWhilePlaying(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)
	h.playing(t)

	require.NoError(t, h.c.NoteActivity())
	assert.True(t, h.c.State().ControlsVisible)

	h.clock.Advance(DefaultIdleHide - time.Millisecond)
	assert.True(t, h.c.State().ControlsVisible)

	h.clock.Advance(time.Millisecond)
	h.eventually(t, func(s PlayerState) bool { return !s.ControlsVisible }, "controls should hide after idle")
}

func TestRepeatedActivityHidesOnceFromLastCall(t *testing.T) {
	h := newHarness(t, WithIdleHide(3*time.Second))
	h.ready(t, 60)
	h.playing(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.c.NoteActivity())
		h.clock.Advance(2 * time.Second)
	}
	time.Sleep(20 * time.Millisecond)
	assert.True(t, h.c.State().ControlsVisible, "earlier timers must not fire")

	h.clock.Advance(time.Second)
	h.eventually(t, func(s PlayerState) bool { return !s.ControlsVisible }, "last timer should hide controls")
}

func TestPauseForcesControlsVisible(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)
	h.playing(t)

	require.NoError(t, h.c.PointerLeave())
	assert.False(t, h.c.State().ControlsVisible)

	h.engine.emit(Event{Type: EventPause})
	assert.True(t, h.c.State().ControlsVisible)
}

func TestIdleTimerDoesNotHideAfterPause(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)
	h.playing(t)

	require.NoError(t, h.c.NoteActivity())
	h.engine.emit(Event{Type: EventPause})
	h.clock.Advance(DefaultIdleHide)
	time.Sleep(20 * time.Millisecond)

	assert.True(t, h.c.State().ControlsVisible)
}

func TestErrorMidPlayback(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)
	h.playing(t)
	require.NoError(t, h.c.PointerLeave())

	h.engine.emit(Event{Type: EventError, Detail: "connection reset"})

	s := h.c.State()
	assert.Equal(t, Errored, s.LoadState)
	assert.False(t, s.Playing)
	assert.True(t, s.ControlsVisible)
	assert.Equal(t, MsgMediaLoad, s.ErrorMessage)

	// a late play notification or metadata cannot leave the error state
	h.engine.emit(Event{Type: EventPlay})
	h.engine.emit(Event{Type: EventLoadedMetadata, Duration: 600})
	s = h.c.State()
	assert.False(t, s.Playing)
	assert.Equal(t, Errored, s.LoadState)

	h.engine.emit(Event{Type: EventLoadStart})
	s = h.c.State()
	assert.Equal(t, Loading, s.LoadState)
	assert.Empty(t, s.ErrorMessage)
}

func TestErroredSuppressesTransport(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)
	h.engine.emit(Event{Type: EventError})
	vols := len(h.engine.volumeCalls())

	require.NoError(t, h.c.TogglePlay())
	require.NoError(t, h.c.Seek(10))
	require.NoError(t, h.c.Skip(10))
	require.NoError(t, h.c.SetVolume(20))
	require.NoError(t, h.c.ToggleMute())
	require.NoError(t, h.c.SetPlaybackRate(2))
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 0, h.engine.plays())
	assert.Empty(t, h.engine.seekCalls())
	assert.Len(t, h.engine.volumeCalls(), vols)
	assert.Empty(t, h.engine.rateCalls())
	assert.Equal(t, 1.0, h.c.State().PlaybackRate)
}

func TestEngineLoadFailureErrors(t *testing.T) {
	engine := newFakeEngine(t.Name())
	engine.loadErr = errors.New("unsupported protocol")
	c := New(engine, nil)
	require.NoError(t, c.Mount(context.Background(), testSource))
	defer c.Close()

	s := c.State()
	assert.Equal(t, Errored, s.LoadState)
	assert.Equal(t, MsgMediaLoad, s.ErrorMessage)
}

func TestLoadResetsAndResubscribes(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 600)
	h.playing(t)
	require.NoError(t, h.c.SetVolume(30))
	require.NoError(t, h.c.SetPlaybackRate(1.5))
	h.engine.emit(Event{Type: EventError})

	next := Source{URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4"}
	require.NoError(t, h.c.Load(next))

	s := h.c.State()
	assert.Equal(t, Loading, s.LoadState)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, 0.0, s.Duration)
	assert.Equal(t, DefaultTitle, s.Source.Title)
	assert.InDelta(t, 0.3, s.Volume, 1e-9)
	assert.Equal(t, 1.5, s.PlaybackRate)
	assert.Equal(t, 1, h.engine.subscribers())
	_, _, screens := h.screen.counts()
	assert.Equal(t, 1, screens)
	assert.Equal(t, next.URL, h.engine.loads[len(h.engine.loads)-1])
}

func TestCloseReleasesEverything(t *testing.T) {
	engine := newFakeEngine(t.Name())
	screen := newFakeScreen()
	c := New(engine, screen)
	require.NoError(t, c.Mount(context.Background(), testSource))
	require.NoError(t, c.NoteActivity())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 0, engine.subscribers())
	_, _, subs := screen.counts()
	assert.Equal(t, 0, subs)

	assert.ErrorIs(t, c.TogglePlay(), ErrNotMounted)
	assert.False(t, c.HandleKey(keyPress(" ")))
	assert.Equal(t, Loading, c.State().LoadState, "last state stays readable")

	for range c.Updates() {
	}
	assert.Error(t, c.Mount(context.Background(), testSource))
}

func TestCloseAfterParentContextCancelled(t *testing.T) {
	engine := newFakeEngine(t.Name())
	c := New(engine, newFakeScreen())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Mount(ctx, testSource))

	cancel()
	require.NoError(t, c.Close())
	assert.Equal(t, 0, engine.subscribers())
}

func TestEngineCannotBeSharedBetweenControllers(t *testing.T) {
	engine := newFakeEngine(t.Name())
	first := New(engine, nil)
	require.NoError(t, first.Mount(context.Background(), testSource))

	second := New(engine, nil)
	err := second.Mount(context.Background(), testSource)
	assert.ErrorIs(t, err, ErrEngineInUse)

	require.NoError(t, first.Close())
	third := New(engine, nil)
	require.NoError(t, third.Mount(context.Background(), testSource))
	require.NoError(t, third.Close())
}

func TestMountRejectsInvalidSource(t *testing.T) {
	c := New(newFakeEngine(t.Name()), nil)
	err := c.Mount(context.Background(), Source{URL: "   "})
	assert.ErrorIs(t, err, ErrInvalidSource)
	assert.ErrorIs(t, c.TogglePlay(), ErrNotMounted)
}

func TestUpdatesCarriesLatestState(t *testing.T) {
	h := newHarness(t)
	h.ready(t, 60)

	require.NoError(t, h.c.SetVolume(25))
	require.NoError(t, h.c.SetVolume(55))

	s := <-h.c.Updates()
	assert.InDelta(t, 0.55, s.Volume, 1e-9)
}
