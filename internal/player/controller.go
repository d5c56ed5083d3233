package player

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ygelfand/vidctl/internal/config"
)

const DefaultIdleHide = 3000 * time.Millisecond

// engines attached to a mounted controller, keyed by Engine.ID
var attached sync.Map

// Controller mediates between the engine's event stream, user input and
// the rendered controls. All state transitions run on one goroutine.
type Controller struct {
	engine Engine
	screen Screen
	clock  clockwork.Clock
	logger *slog.Logger
	keys   KeyMap

	idleHide      time.Duration
	skipStep      float64
	volumeStep    float64
	initialVolume float64

	mu      sync.Mutex
	box     atomic.Pointer[mailbox]
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mounted bool
	closed  bool
	updates chan PlayerState
	pending sync.WaitGroup

	snapMu sync.RWMutex
	last   PlayerState

	// owned by the loop goroutine
	state       PlayerState
	lastAudible float64
	generation  uint64
	hideTimer   clockwork.Timer
	hideSeq     uint64
	subs        []func()
}

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithIdleHide(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.idleHide = d
		}
	}
}

func WithSkipStep(seconds float64) Option {
	return func(c *Controller) {
		if seconds > 0 {
			c.skipStep = seconds
		}
	}
}

func WithVolumeStep(step float64) Option {
	return func(c *Controller) {
		if step > 0 && step <= 1 {
			c.volumeStep = step
		}
	}
}

func WithInitialVolume(volume float64) Option {
	return func(c *Controller) {
		if volume >= 0 && volume <= 1 {
			c.initialVolume = volume
		}
	}
}

// New creates an unmounted controller. screen may be nil when the engine has
// no fullscreen surface.
func New(engine Engine, screen Screen, opts ...Option) *Controller {
	c := &Controller{
		engine:        engine,
		screen:        screen,
		clock:         clockwork.NewRealClock(),
		logger:        slog.Default(),
		idleHide:      DefaultIdleHide,
		skipStep:      10,
		volumeStep:    0.1,
		initialVolume: 1,
		updates:       make(chan PlayerState, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.keys = DefaultKeyMap(c.skipStep)
	return c
}

// KeyMap returns the bindings HandleKey dispatches on
func (c *Controller) KeyMap() KeyMap {
	return c.keys
}

// Updates delivers the latest state after each transition. Older unread
// states are replaced. The channel is closed by Close.
func (c *Controller) Updates() <-chan PlayerState {
	return c.updates
}

// Mount attaches the controller to its engine and starts loading src
func (c *Controller) Mount(ctx context.Context, src Source) (err error) {
	src = src.Normalized()
	if err := src.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted || c.closed {
		return fmt.Errorf("controller already mounted")
	}
	if _, loaded := attached.LoadOrStore(c.engine.ID(), c); loaded {
		return fmt.Errorf("%w: %s", ErrEngineInUse, c.engine.ID())
	}
	defer func() {
		if err != nil {
			attached.Delete(c.engine.ID())
		}
	}()

	c.ctx, c.cancel = context.WithCancel(ctx)
	box := newMailbox()
	c.box.Store(box)
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		box.run(c.ctx)
	}()
	defer func() {
		if err != nil {
			c.cancel()
			<-c.done
		}
	}()

	err = c.do(func() {
		c.state = newState(src, c.initialVolume)
		c.lastAudible = c.initialVolume
		if c.lastAudible == 0 {
			c.lastAudible = 1
		}
		c.subscribe()
		if err := c.engine.SetVolume(c.ctx, c.initialVolume); err != nil {
			c.logger.Debug("Controller: initial volume rejected", "error", err)
		}
		c.load()
		c.publish()
	})
	if err != nil {
		return err
	}
	c.mounted = true
	c.logger.Debug("Controller: mounted", "engine", c.engine.ID(), "source", src.URL)
	return nil
}

// Load replaces the source. Subscriptions from the previous source are
// released and state returns to Loading.
func (c *Controller) Load(src Source) error {
	src = src.Normalized()
	if err := src.Validate(); err != nil {
		return err
	}
	return c.do(func() {
		c.release()
		c.generation++
		prev := c.state
		c.state = newState(src, prev.Volume)
		c.state.Muted = prev.Muted
		c.state.PlaybackRate = prev.PlaybackRate
		c.state.Fullscreen = prev.Fullscreen
		c.state.Focused = prev.Focused
		c.subscribe()
		c.load()
		c.publish()
	})
}

// Close releases every subscription, cancels the idle timer and stops the
// controller goroutine. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return nil
	}

	_ = c.do(func() {
		c.release()
		c.generation++
	})
	c.cancel()
	<-c.done
	// the loop has exited; covers a parent context cancelled before Close
	c.release()
	c.pending.Wait()

	c.mounted = false
	c.closed = true
	attached.Delete(c.engine.ID())
	close(c.updates)
	c.logger.Debug("Controller: unmounted", "engine", c.engine.ID())
	return nil
}

// State returns a snapshot taken after every event already delivered to
// the controller has been applied.
func (c *Controller) State() PlayerState {
	var s PlayerState
	if err := c.do(func() { s = c.state }); err != nil {
		c.snapMu.RLock()
		defer c.snapMu.RUnlock()
		return c.last
	}
	return s
}

func (c *Controller) TogglePlay() error { return c.do(c.togglePlay) }

func (c *Controller) Seek(percent float64) error {
	return c.do(func() { c.seek(percent) })
}

func (c *Controller) SetVolume(percent float64) error {
	return c.do(func() { c.setVolume(percent) })
}

func (c *Controller) ToggleMute() error { return c.do(c.toggleMute) }

func (c *Controller) Skip(delta float64) error {
	return c.do(func() { c.skip(delta) })
}

func (c *Controller) SetPlaybackRate(rate float64) error {
	if !ValidRate(rate) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	return c.do(func() { c.setPlaybackRate(rate) })
}

func (c *Controller) ToggleFullscreen() error { return c.do(c.toggleFullscreen) }

// NoteActivity shows the controls and restarts the idle-hide countdown
func (c *Controller) NoteActivity() error { return c.do(c.noteActivity) }

// PointerLeave hides the controls at once while playing
func (c *Controller) PointerLeave() error { return c.do(c.pointerLeave) }

// SetFocused routes or stops routing keyboard input to this controller
func (c *Controller) SetFocused(focused bool) error {
	return c.do(func() {
		c.state.Focused = focused
		c.publish()
	})
}

// do runs fn on the controller goroutine and waits for it
func (c *Controller) do(fn func()) error {
	box := c.box.Load()
	if box == nil {
		return ErrNotMounted
	}
	done := make(chan struct{})
	if !box.post(func() {
		defer close(done)
		fn()
	}) {
		return ErrNotMounted
	}
	<-done
	return nil
}

// Loop-side operations. Everything below runs on the controller goroutine.

func (c *Controller) load() {
	src := c.state.Source
	if err := c.engine.Load(c.ctx, src.URL, src.DisplayTitle()); err != nil {
		c.logger.Warn("Controller: engine refused source", "url", src.URL, "error", err)
		c.fail(ErrMediaLoad)
	}
}

func (c *Controller) subscribe() {
	gen := c.generation
	box := c.box.Load()
	c.subs = append(c.subs, c.engine.Subscribe(func(ev Event) {
		box.post(func() { c.handleEvent(gen, ev) })
	}))
	if c.screen != nil {
		c.subs = append(c.subs, c.screen.SubscribeFullscreen(func(fs bool) {
			box.post(func() { c.handleFullscreen(gen, fs) })
		}))
	}
}

func (c *Controller) release() {
	for i := len(c.subs) - 1; i >= 0; i-- {
		c.subs[i]()
	}
	c.subs = nil
	c.stopHideTimer()
}

func (c *Controller) publish() {
	c.state.settle()
	snap := c.state

	c.snapMu.Lock()
	c.last = snap
	c.snapMu.Unlock()
	select {
	case <-c.updates:
	default:
	}
	c.updates <- snap
}

func (c *Controller) fail(err error) {
	c.state.LoadState = Errored
	c.state.ErrorMessage = err.Error()
	c.state.Playing = false
	c.stopHideTimer()
}

func (c *Controller) togglePlay() {
	if c.state.Errored() {
		return
	}
	if c.state.Playing {
		if err := c.engine.Pause(c.ctx); err != nil {
			c.logger.Debug("Controller: pause request failed", "error", err)
		}
		return
	}

	gen := c.generation
	ctx := c.ctx
	box := c.box.Load()
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		err := c.engine.Play(ctx)
		if err == nil {
			return
		}
		box.post(func() {
			if gen != c.generation {
				c.logger.Debug("Controller: dropping stale play rejection", "error", err)
				return
			}
			c.logger.Warn("Controller: play rejected", "error", err)
			c.fail(ErrPlaybackRejected)
			c.publish()
		})
	}()
}

func (c *Controller) seek(percent float64) {
	if c.state.Errored() || !c.state.HasDuration() {
		return
	}
	percent = math.Max(0, math.Min(100, percent))
	target := percent / 100 * c.state.Duration
	if err := c.engine.Seek(c.ctx, target); err != nil {
		c.logger.Debug("Controller: seek request failed", "target", target, "error", err)
		return
	}
	c.state.CurrentTime = target
	c.publish()
}

func (c *Controller) setVolume(percent float64) {
	if c.state.Errored() {
		return
	}
	percent = math.Max(0, math.Min(100, percent))
	volume := percent / 100
	if err := c.engine.SetVolume(c.ctx, volume); err != nil {
		c.logger.Debug("Controller: volume request failed", "volume", volume, "error", err)
	}
	c.state.Volume = volume
	c.state.Muted = percent == 0
	if volume > 0 {
		c.lastAudible = volume
	}
	c.publish()
}

func (c *Controller) toggleMute() {
	if c.state.Errored() {
		return
	}
	if c.state.Muted {
		restore := c.state.Volume
		if restore == 0 {
			restore = c.lastAudible
		}
		if err := c.engine.SetVolume(c.ctx, restore); err != nil {
			c.logger.Debug("Controller: unmute request failed", "error", err)
		}
		c.state.Volume = restore
		c.state.Muted = false
	} else {
		if c.state.Volume > 0 {
			c.lastAudible = c.state.Volume
		}
		if err := c.engine.SetVolume(c.ctx, 0); err != nil {
			c.logger.Debug("Controller: mute request failed", "error", err)
		}
		c.state.Muted = true
	}
	c.publish()
}

func (c *Controller) skip(delta float64) {
	if c.state.Errored() {
		return
	}
	target := math.Max(0, c.state.CurrentTime+delta)
	if c.state.HasDuration() {
		target = math.Min(target, c.state.Duration)
	}
	if err := c.engine.Seek(c.ctx, target); err != nil {
		c.logger.Debug("Controller: skip request failed", "target", target, "error", err)
	}
}

func (c *Controller) setPlaybackRate(rate float64) {
	if c.state.Errored() || c.state.PlaybackRate == rate {
		return
	}
	if err := c.engine.SetRate(c.ctx, rate); err != nil {
		c.logger.Debug("Controller: rate request failed", "rate", rate, "error", err)
		return
	}
	c.state.PlaybackRate = rate
	c.publish()
}

func (c *Controller) toggleFullscreen() {
	if c.screen == nil {
		return
	}
	var err error
	if c.state.Fullscreen {
		err = c.screen.ExitFullscreen(c.ctx)
	} else {
		err = c.screen.RequestFullscreen(c.ctx)
	}
	if err != nil {
		c.logger.Debug("Controller: fullscreen request ignored", "error", err)
	}
}

func (c *Controller) noteActivity() {
	c.state.ControlsVisible = true
	c.stopHideTimer()

	c.hideSeq++
	seq := c.hideSeq
	box := c.box.Load()
	c.hideTimer = c.clock.AfterFunc(c.idleHide, func() {
		box.post(func() { c.onIdle(seq) })
	})
	c.publish()
}

func (c *Controller) stopHideTimer() {
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	// invalidates a fire that was already queued
	c.hideSeq++
}

func (c *Controller) onIdle(seq uint64) {
	if seq != c.hideSeq {
		return
	}
	c.hideTimer = nil
	if c.state.Playing && !c.state.Errored() {
		c.logger.Log(c.ctx, config.LevelTrace, "Controller: idle, hiding controls")
		c.state.ControlsVisible = false
		c.publish()
	}
}

func (c *Controller) pointerLeave() {
	if c.state.Playing && !c.state.Errored() {
		c.state.ControlsVisible = false
		c.publish()
	}
}

func (c *Controller) handleFullscreen(gen uint64, fullscreen bool) {
	if gen != c.generation {
		return
	}
	c.state.Fullscreen = fullscreen
	c.publish()
}

func (c *Controller) handleEvent(gen uint64, ev Event) {
	if gen != c.generation {
		c.logger.Log(c.ctx, config.LevelTrace, "Controller: stale engine event", "event", ev.Type)
		return
	}
	c.logger.Log(c.ctx, config.LevelTrace, "Controller: engine event", "event", ev.Type, "state", c.state.LoadState)

	switch ev.Type {
	case EventPlay:
		if c.state.Errored() {
			return
		}
		c.state.Playing = true
	case EventPause, EventEnded:
		c.state.Playing = false
	case EventTimeUpdate:
		c.state.CurrentTime = math.Max(0, ev.Time)
	case EventLoadedMetadata:
		d := ev.Duration
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			d = 0
		}
		c.state.Duration = d
		if c.state.LoadState == Loading {
			c.state.LoadState = Ready
			c.state.ErrorMessage = ""
		}
	case EventVolumeChange:
		c.mirrorVolume(ev.Volume, ev.Muted)
	case EventRateChange:
		if !ValidRate(ev.Rate) {
			c.logger.Debug("Controller: engine rate outside menu", "rate", ev.Rate)
			return
		}
		c.state.PlaybackRate = ev.Rate
	case EventError:
		c.logger.Warn("Controller: media error", "detail", ev.Detail, "url", c.state.Source.URL)
		c.fail(ErrMediaLoad)
	case EventLoadStart:
		c.state.LoadState = Loading
		c.state.ErrorMessage = ""
		c.state.CurrentTime = 0
		c.state.Duration = 0
	default:
		return
	}
	c.publish()
}

// mirrorVolume applies an engine-driven volume change. Zero output counts as
// muted and keeps the chosen level for restore.
func (c *Controller) mirrorVolume(volume float64, muted bool) {
	volume = math.Max(0, math.Min(1, volume))
	if muted || volume == 0 {
		c.state.Muted = true
		return
	}
	c.state.Volume = volume
	c.state.Muted = false
	c.lastAudible = volume
}
