package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygelfand/vidctl/internal/cache"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/player"
)

// fakeEngine counts play requests and lets tests push engine events
type fakeEngine struct {
	mu       sync.Mutex
	handlers map[int]func(player.Event)
	nextID   int
	plays    int
}

func (e *fakeEngine) ID() string                                 { return "headless" }
func (e *fakeEngine) Load(context.Context, string, string) error { return nil }
func (e *fakeEngine) Pause(context.Context) error                { return nil }
func (e *fakeEngine) Seek(context.Context, float64) error        { return nil }
func (e *fakeEngine) SetVolume(context.Context, float64) error   { return nil }
func (e *fakeEngine) SetRate(context.Context, float64) error     { return nil }
func (e *fakeEngine) RequestFullscreen(context.Context) error    { return nil }
func (e *fakeEngine) ExitFullscreen(context.Context) error       { return nil }
func (e *fakeEngine) SubscribeFullscreen(func(bool)) func()      { return func() {} }

func (e *fakeEngine) Play(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plays++
	return nil
}

func (e *fakeEngine) playCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plays
}

func (e *fakeEngine) Subscribe(h func(player.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.handlers[id] = h
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

func (e *fakeEngine) emit(ev player.Event) {
	e.mu.Lock()
	hs := make([]func(player.Event), 0, len(e.handlers))
	for _, h := range e.handlers {
		hs = append(hs, h)
	}
	e.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func (b *syncBuffer) contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(b.buf.String(), s)
}

func TestRunHeadless(t *testing.T) {
	m, err := cache.New(t.TempDir(), false)
	require.NoError(t, err)
	store := history.New(m)

	engine := &fakeEngine{handlers: map[int]func(player.Event){}}
	ctrl := player.New(engine, engine)
	require.NoError(t, ctrl.Mount(context.Background(), player.Source{
		URL:   "https://example.com/bunny.mp4",
		Title: "Big Buck Bunny",
	}))
	t.Cleanup(func() { _ = ctrl.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, out, ctrl, store) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// playback is requested once the source is ready
	engine.emit(player.Event{Type: player.EventLoadStart})
	engine.emit(player.Event{Type: player.EventLoadedMetadata, Duration: 120})
	require.Eventually(t, func() bool { return engine.playCount() == 1 }, time.Second, 5*time.Millisecond)

	// the first confirmed play lands in history
	engine.emit(player.Event{Type: player.EventPlay})
	require.Eventually(t, func() bool {
		entries, err := store.List()
		return err == nil && len(entries) == 1
	}, time.Second, 5*time.Millisecond)
	entries, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, "Big Buck Bunny", entries[0].Title)

	// playhead updates are throttled, transport changes are not
	for i := 1; i <= 5; i++ {
		engine.emit(player.Event{Type: player.EventTimeUpdate, Time: float64(i)})
	}
	engine.emit(player.Event{Type: player.EventPause})
	require.Eventually(t, func() bool { return out.contains("paused  0:05 / 2:00") }, time.Second, 5*time.Millisecond)

	lines := out.lines()
	assert.Equal(t, "Playing Big Buck Bunny. Press Ctrl+C to stop.", lines[0])
	progress := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "playing  0:0") && !strings.HasPrefix(l, "playing  0:00") {
			progress++
		}
	}
	assert.LessOrEqual(t, progress, 1)
	assert.Equal(t, 1, engine.playCount())
}
