package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/pkg/browser"
	"github.com/ygelfand/vidctl/internal/cache"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/player"
	tuihelp "github.com/ygelfand/vidctl/internal/tui/widget/help"
	"github.com/ygelfand/vidctl/internal/tui/widget/ratemenu"
	"github.com/ygelfand/vidctl/internal/ui"
	"go.dalton.dog/bubbleup"
)

const TroubleshootHint = "Try using a valid video URL (MP4, WebM, or OGG format)"

// hostKeys are the shortcuts the terminal host handles itself
type hostKeys struct {
	Quit     key.Binding
	Help     key.Binding
	Rate     key.Binding
	Open     key.Binding
	SeekJump key.Binding
}

func defaultHostKeys() hostKeys {
	return hostKeys{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Rate:     key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "playback speed")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open source in browser")),
		SeekJump: key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "jump to 0-90%")),
	}
}

// allKeys merges the player's bindings with the host's for the help views
type allKeys struct {
	player player.KeyMap
	host   hostKeys
}

func (k allKeys) ShortHelp() []key.Binding {
	return append(k.player.ShortHelp(), k.host.Help, k.host.Quit)
}

func (k allKeys) FullHelp() [][]key.Binding {
	return append(k.player.FullHelp(), []key.Binding{k.host.Rate, k.host.SeekJump, k.host.Help, k.host.Quit})
}

// Bindings lists every shortcut the terminal player answers to
func Bindings(keys player.KeyMap) []key.Binding {
	host := defaultHostKeys()
	return append(keys.Bindings(), host.SeekJump, host.Rate, host.Open, host.Help, host.Quit)
}

// Options wire the model to its collaborators. Zero values are usable.
type Options struct {
	Theme   tint.Tint
	Icons   config.IconType
	Cache   *cache.Manager
	History *history.Store
	// OpenURL opens the source externally; defaults to the system browser
	OpenURL func(string) error
	// Autoplay requests playback once the source is ready
	Autoplay bool
}

// Model hosts one mounted player controller in the terminal
type Model struct {
	ctx     context.Context
	ctrl    *player.Controller
	opts    Options
	theme   tint.Tint
	keys    hostKeys
	helpKey allKeys

	navigator *Navigator
	alert     bubbleup.AlertModel
	spinner   spinner.Model
	progress  progress.Model
	help      help.Model

	state      player.PlayerState
	started    bool
	recorded   bool
	autoplayed bool
	layout     layout
	poster     string
	width      int
	height     int
	quitting   bool
}

func NewModel(ctx context.Context, ctrl *player.Controller, opts Options) *Model {
	if opts.Theme == nil {
		opts.Theme = ui.VidctlTheme
	}
	if opts.Icons == "" {
		opts.Icons = config.IconTypeASCII
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	theme := opts.Theme

	alert := bubbleup.NewAlertModel(40, opts.Icons == config.IconTypeNerdFonts, 10*time.Second).
		WithPosition(bubbleup.TopRightPosition)
	alert.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       "error",
		ForeColor: "#FF0000",
		Prefix:    "x ",
	})
	alert.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       "warn",
		ForeColor: "#FFD700",
		Prefix:    "! ",
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.Accent(theme))

	p := progress.New(
		progress.WithSolidFill(colorString(ui.Accent(theme))),
		progress.WithoutPercentage(),
	)
	p.EmptyColor = colorString(theme.BrightBlack())

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.BrightCyan())
	h.Styles.ShortDesc = ui.MutedStyle(theme)

	keys := defaultHostKeys()
	return &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		theme:     theme,
		keys:      keys,
		helpKey:   allKeys{player: ctrl.KeyMap(), host: keys},
		navigator: NewNavigator(),
		alert:     alert,
		spinner:   s,
		progress:  p,
		help:      h,
		state:     ctrl.State(),
	}
}

func colorString(c lipgloss.TerminalColor) string {
	if lc, ok := c.(lipgloss.Color); ok {
		return string(lc)
	}
	return string(ui.Primary)
}

func (m *Model) Init() tea.Cmd {
	// the terminal has focus when the program starts
	if err := m.ctrl.SetFocused(true); err != nil {
		slog.Debug("TUI: focus on start failed", "error", err)
	}
	return tea.Batch(
		waitForState(m.ctrl.Updates()),
		m.spinner.Tick,
		m.alert.Init(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if err, ok := msg.(error); ok {
		slog.Error("TUI error", "error", err)
		cmds = append(cmds, m.alert.NewAlertCmd("error", err.Error()))
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-24, 10)
		m.help.Width = max(msg.Width-4, 0)
		if m.state.Source.Poster != "" && m.poster == "" {
			cmds = append(cmds, fetchPoster(m.ctx, m.opts.Cache, m.state.Source.Poster, m.posterWidth()))
		}

	case stateMsg:
		m.applyState(player.PlayerState(msg), &cmds)
		cmds = append(cmds, waitForState(m.ctrl.Updates()))
		return m, tea.Batch(cmds...)

	case controllerClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case posterMsg:
		if msg.err == nil {
			m.poster = msg.view
		}
		return m, nil

	case alertMsg:
		return m, m.alert.NewAlertCmd(msg.kind, msg.text)

	case ratemenu.RateChosenMsg:
		if err := m.ctrl.SetPlaybackRate(msg.Rate); err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd("warn", err.Error()))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.FocusMsg:
		m.report(m.ctrl.SetFocused(true))
		m.report(m.ctrl.NoteActivity())
		return m, nil

	case tea.BlurMsg:
		m.report(m.ctrl.SetFocused(false))
		m.report(m.ctrl.PointerLeave())
		return m, nil
	}

	if navCmd, captured := m.navigator.Update(msg); captured {
		return m, tea.Batch(append(cmds, navCmd)...)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if cmd := m.handleMouse(msg); cmd != nil {
			return m, tea.Batch(append(cmds, cmd)...)
		}

	case tea.KeyMsg:
		slog.Log(m.ctx, config.LevelTrace, "TUI: key press", "key", msg.String())
		if cmd, handled := m.handleKey(msg); handled {
			return m, tea.Batch(append(cmds, cmd)...)
		}
	}

	alertModel, alertCmd := m.alert.Update(msg)
	m.alert = alertModel.(bubbleup.AlertModel)
	cmds = append(cmds, alertCmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return tea.Quit, true
	}

	if m.ctrl.HandleKey(msg) {
		m.report(m.ctrl.NoteActivity())
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		return m.navigator.Push(tuihelp.NewHelpOverlayModel(m.helpKey, m.theme)), true
	case key.Matches(msg, m.keys.Rate):
		if m.state.Errored() {
			return nil, true
		}
		return m.navigator.Push(ratemenu.NewRateMenuModel(m.state.PlaybackRate, m.theme)), true
	case key.Matches(msg, m.keys.Open):
		if !m.state.Errored() {
			return nil, false
		}
		return m.openSource(), true
	case key.Matches(msg, m.keys.SeekJump):
		percent := float64(msg.Runes[0]-'0') * 10
		m.report(m.ctrl.Seek(percent))
		return nil, true
	}
	return nil, false
}

func (m *Model) openSource() tea.Cmd {
	url := m.state.Source.URL
	open := m.opts.OpenURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			slog.Warn("TUI: could not open source", "url", url, "error", err)
			return alertMsg{kind: "warn", text: "Could not open " + url}
		}
		return nil
	}
}

// applyState takes a new controller snapshot and schedules side effects
func (m *Model) applyState(s player.PlayerState, cmds *[]tea.Cmd) {
	prev := m.state
	m.state = s

	if s.Source.URL != prev.Source.URL {
		m.started = false
		m.recorded = false
		m.autoplayed = false
		m.poster = ""
		if s.Source.Poster != "" && m.width > 0 {
			*cmds = append(*cmds, fetchPoster(m.ctx, m.opts.Cache, s.Source.Poster, m.posterWidth()))
		}
	}

	if m.opts.Autoplay && !m.autoplayed && s.LoadState == player.Ready {
		m.autoplayed = true
		if !s.Playing {
			m.report(m.ctrl.TogglePlay())
		}
	}

	if s.Playing {
		m.started = true
		if !m.recorded && m.opts.History != nil {
			m.recorded = true
			*cmds = append(*cmds, recordHistory(m.opts.History, s.Source))
		}
	}

	if s.Errored() && !prev.Errored() {
		slog.Debug("TUI: player errored", "message", s.ErrorMessage)
	}
}

func recordHistory(store *history.Store, src player.Source) tea.Cmd {
	return func() tea.Msg {
		if err := store.Record(src, time.Now()); err != nil {
			slog.Warn("TUI: history write failed", "error", err)
			return alertMsg{kind: "warn", text: "History not saved: " + err.Error()}
		}
		return nil
	}
}

// report logs controller errors; they only happen once it is closed
func (m *Model) report(err error) {
	if err != nil {
		slog.Debug("TUI: controller call failed", "error", err)
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	base := m.renderPlayer()
	base = m.navigator.Render(base)
	return m.alert.Render(base)
}

// Run starts the interactive program and blocks until the user quits or
// ctx is cancelled
func Run(ctx context.Context, ctrl *player.Controller, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
