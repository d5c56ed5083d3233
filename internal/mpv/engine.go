package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/dexterlb/mpvipc"
	"github.com/google/uuid"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/player"
	"golang.org/x/time/rate"
)

var ErrNotRunning = errors.New("mpv is not running")

// Options configure how mpv is spawned
type Options struct {
	Path      string
	SocketDir string
	// Tct renders video into the terminal instead of a window
	Tct bool
	// QuitOnClose stops mpv when the engine closes; otherwise the window is
	// left playing
	QuitOnClose bool
	Logger      *slog.Logger
}

// ipcConn is the part of an mpvipc connection commands go through
type ipcConn interface {
	Call(arguments ...any) (any, error)
	Close() error
}

// Engine drives one mpv process over its JSON IPC socket. It satisfies both
// player.Engine and player.Screen.
type Engine struct {
	id         string
	opts       Options
	socketPath string
	logger     *slog.Logger

	mu       sync.Mutex
	conn     ipcConn
	cmd      *exec.Cmd
	stopChan chan struct{}
	exited   chan struct{}
	monitor  sync.WaitGroup

	hmu        sync.Mutex
	nextID     int
	handlers   map[int]func(player.Event)
	fsHandlers map[int]func(bool)
}

var (
	_ player.Engine = (*Engine)(nil)
	_ player.Screen = (*Engine)(nil)
)

func New(opts Options) *Engine {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.SocketDir == "" {
		opts.SocketDir = os.TempDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	socketPath := filepath.Join(opts.SocketDir, "mpv-"+id+".sock")
	if runtime.GOOS == "windows" {
		socketPath = `\\.\pipe\vidctl-` + id
	}

	return &Engine{
		id:         id,
		opts:       opts,
		socketPath: socketPath,
		logger:     logger,
		exited:     make(chan struct{}),
		handlers:   map[int]func(player.Event){},
		fsHandlers: map[int]func(bool){},
	}
}

func (e *Engine) ID() string { return e.id }

// SocketPath is the IPC socket this engine listens on
func (e *Engine) SocketPath() string { return e.socketPath }

// Exited is closed once mpv shuts down or the connection is lost
func (e *Engine) Exited() <-chan struct{} { return e.exited }

// Start spawns mpv and waits until its IPC socket answers
func (e *Engine) Start(ctx context.Context) error {
	if _, err := exec.LookPath(e.opts.Path); err != nil {
		return fmt.Errorf("mpv command not found. please install mpv: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.MkdirAll(e.opts.SocketDir, 0o755); err != nil {
			return fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	args := []string{
		"--idle",
		"--keep-open=yes",
		"--pause",
		"--no-resume-playback",
		fmt.Sprintf("--input-ipc-server=%s", e.socketPath),
	}
	if e.opts.Tct {
		args = append(args, "-vo", "tct", "--really-quiet", "--vo-tct-buffering=frame")
	} else {
		args = append(args, "--force-window=yes")
	}

	e.logger.Debug("Engine: spawning mpv", "path", e.opts.Path, "args", args)
	cmd := exec.Command(e.opts.Path, args...)
	if e.opts.Tct {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}

	e.mu.Lock()
	e.cmd = cmd
	e.mu.Unlock()

	if err := e.connect(ctx); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return err
	}
	return nil
}

// connect waits for the socket to appear and respond to IPC
func (e *Engine) connect(ctx context.Context) error {
	for i := 0; i < 50; i++ {
		if e.socketExists() {
			c := mpvipc.NewConnection(e.socketPath)
			if err := c.Open(); err == nil {
				if e.verify(ctx, c) {
					e.mu.Lock()
					e.conn = c
					e.stopChan = make(chan struct{})
					stop := e.stopChan
					e.mu.Unlock()

					e.observe(ctx, c)
					e.monitor.Add(1)
					go e.monitorEvents(c, stop)
					return nil
				}
				_ = c.Close()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("failed to connect to mpv IPC after spawning")
}

// verify checks that mpv actually answers on c
func (e *Engine) verify(ctx context.Context, c *mpvipc.Connection) bool {
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := callOn(ctx, c, "get_property", "mpv-version"); err != nil {
		e.logger.Debug("Engine: connection check failed", "error", err)
		return false
	}
	return true
}

func (e *Engine) observe(ctx context.Context, c *mpvipc.Connection) {
	for _, p := range observed {
		if _, err := callOn(ctx, c, "observe_property", p.id, p.name); err != nil {
			e.logger.Debug("Engine: observe failed", "property", p.name, "error", err)
		}
	}
}

func (e *Engine) socketExists() bool {
	if runtime.GOOS == "windows" {
		_, err := os.OpenFile(e.socketPath, os.O_RDWR, 0)
		if err != nil {
			var pe *os.PathError
			if errors.As(err, &pe) && errors.Is(pe.Err, syscall.ENOENT) {
				return false
			}
		}
		return true
	}
	_, err := os.Stat(e.socketPath)
	return err == nil
}

func (e *Engine) monitorEvents(c *mpvipc.Connection, stopChan chan struct{}) {
	defer e.monitor.Done()
	events := make(chan *mpvipc.Event)
	stop := make(chan struct{})
	go c.ListenForEvents(events, stop)
	defer close(stop)
	defer e.markExited()

	t := newTracker()
	// time-pos fires several times a second
	timeLog := rate.Sometimes{Interval: time.Second}
	for {
		select {
		case <-stopChan:
			return
		case ev, ok := <-events:
			if !ok || ev.Name == "shutdown" {
				e.logger.Debug("Engine: mpv shutdown detected")
				return
			}
			trace := func() {
				e.logger.Log(context.Background(), config.LevelTrace, "Engine: mpv event", "name", ev.Name, "id", ev.ID, "data", ev.Data, "reason", ev.Reason)
			}
			if ev.ID == propTimePos {
				timeLog.Do(trace)
			} else {
				trace()
			}
			out, fs := t.translate(ev)
			for _, pe := range out {
				e.emit(pe)
			}
			if fs != nil {
				e.emitFullscreen(*fs)
			}
		}
	}
}

func (e *Engine) markExited() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.exited:
	default:
		close(e.exited)
	}
}

func (e *Engine) emit(ev player.Event) {
	e.hmu.Lock()
	hs := make([]func(player.Event), 0, len(e.handlers))
	for _, h := range e.handlers {
		hs = append(hs, h)
	}
	e.hmu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

func (e *Engine) emitFullscreen(fs bool) {
	e.hmu.Lock()
	hs := make([]func(bool), 0, len(e.fsHandlers))
	for _, h := range e.fsHandlers {
		hs = append(hs, h)
	}
	e.hmu.Unlock()
	for _, h := range hs {
		h(fs)
	}
}

func (e *Engine) Subscribe(handler func(player.Event)) func() {
	e.hmu.Lock()
	defer e.hmu.Unlock()
	id := e.nextID
	e.nextID++
	e.handlers[id] = handler
	return func() {
		e.hmu.Lock()
		defer e.hmu.Unlock()
		delete(e.handlers, id)
	}
}

func (e *Engine) SubscribeFullscreen(handler func(bool)) func() {
	e.hmu.Lock()
	defer e.hmu.Unlock()
	id := e.nextID
	e.nextID++
	e.fsHandlers[id] = handler
	return func() {
		e.hmu.Lock()
		defer e.hmu.Unlock()
		delete(e.fsHandlers, id)
	}
}

// Commands

func (e *Engine) Load(ctx context.Context, url, title string) error {
	// a loaded file waits for an explicit play
	if _, err := e.call(ctx, "set_property", "pause", true); err != nil {
		return err
	}
	if _, err := e.call(ctx, "loadfile", url, "replace"); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}
	if _, err := e.call(ctx, "set_property", "force-media-title", title); err != nil {
		e.logger.Debug("Engine: could not set media title", "error", err)
	}
	if title != "" {
		if err := e.ShowText(ctx, "Loading "+title+"...", 3*time.Second); err != nil {
			e.logger.Debug("Engine: could not show loading text", "error", err)
		}
	}
	return nil
}

func (e *Engine) Play(ctx context.Context) error {
	_, err := e.call(ctx, "set_property", "pause", false)
	return err
}

func (e *Engine) Pause(ctx context.Context) error {
	_, err := e.call(ctx, "set_property", "pause", true)
	return err
}

func (e *Engine) Seek(ctx context.Context, seconds float64) error {
	_, err := e.call(ctx, "seek", seconds, "absolute")
	return err
}

// SetVolume clears mpv's own mute whenever the level is audible
func (e *Engine) SetVolume(ctx context.Context, volume float64) error {
	if volume > 0 {
		if _, err := e.call(ctx, "set_property", "mute", false); err != nil {
			return err
		}
	}
	_, err := e.call(ctx, "set_property", "volume", volume*100)
	return err
}

func (e *Engine) SetRate(ctx context.Context, rate float64) error {
	_, err := e.call(ctx, "set_property", "speed", rate)
	return err
}

func (e *Engine) RequestFullscreen(ctx context.Context) error {
	_, err := e.call(ctx, "set_property", "fullscreen", true)
	return err
}

func (e *Engine) ExitFullscreen(ctx context.Context) error {
	_, err := e.call(ctx, "set_property", "fullscreen", false)
	return err
}

// ShowText displays an on-screen message in the mpv window
func (e *Engine) ShowText(ctx context.Context, text string, d time.Duration) error {
	_, err := e.call(ctx, "show-text", text, d.Milliseconds())
	return err
}

func (e *Engine) call(ctx context.Context, args ...any) (any, error) {
	e.mu.Lock()
	c := e.conn
	e.mu.Unlock()
	if c == nil {
		return nil, ErrNotRunning
	}
	e.logger.Log(ctx, config.LevelTrace, "Engine: command", "args", args)
	return callOn(ctx, c, args...)
}

// callOn runs an IPC call, giving up when ctx is done. mpvipc calls are not
// cancellable, so an abandoned call finishes in the background.
func callOn(ctx context.Context, c ipcConn, args ...any) (any, error) {
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := c.Call(args...)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops monitoring and, when configured, quits mpv
func (e *Engine) Close() error {
	e.mu.Lock()
	conn, cmd, stop := e.conn, e.cmd, e.stopChan
	e.conn, e.stopChan = nil, nil
	e.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	e.monitor.Wait()

	if conn == nil {
		return nil
	}
	if e.opts.QuitOnClose {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		if _, err := callOn(ctx, conn, "quit"); err != nil {
			e.logger.Debug("Engine: quit failed", "error", err)
		}
		cancel()
	}
	_ = conn.Close()

	if cmd != nil && e.opts.QuitOnClose {
		waited := make(chan error, 1)
		go func() { waited <- cmd.Wait() }()
		select {
		case <-waited:
		case <-time.After(2 * time.Second):
			e.logger.Debug("Engine: mpv did not exit, killing")
			_ = cmd.Process.Kill()
			<-waited
		}
		if runtime.GOOS != "windows" {
			_ = os.Remove(e.socketPath)
		}
	}
	e.logger.Debug("Engine: closed", "id", e.id)
	return nil
}
