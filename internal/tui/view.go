package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ygelfand/vidctl/internal/player"
	"github.com/ygelfand/vidctl/internal/ui"
)

func (m *Model) posterWidth() int {
	return max(min(m.width-4, 80), 10)
}

func (m *Model) renderPlayer() string {
	m.layout = layout{}
	if m.width == 0 {
		return "Initializing..."
	}

	title := lipgloss.NewStyle().
		Foreground(m.theme.BrightWhite()).
		Bold(true).
		Padding(0, 1).
		Render(ui.Ellipsis(m.state.Source.DisplayTitle(), m.width-2))

	titleHeight := lipgloss.Height(title)
	bodyHeight := max(m.height-titleHeight, 1)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderBody())
	base := lipgloss.JoinVertical(lipgloss.Left, title, body)

	m.layout.bodyTop = titleHeight
	m.layout.bodyBottom = titleHeight + bodyHeight

	// the error panel replaces the control bar
	if !m.state.ControlsVisible || m.state.Errored() {
		return base
	}

	// controls float over the bottom of the video
	controls := m.renderControls()
	height := titleHeight + bodyHeight
	m.layout.controls.top = height - lipgloss.Height(controls)
	m.layout.controls.visible = true
	m.layout.bodyBottom = m.layout.controls.top
	return ui.OverlayBottom(base, controls, m.width, height)
}

func (m *Model) renderBody() string {
	s := m.state
	switch {
	case s.Errored():
		return m.renderError()
	case s.Loading():
		return lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " Loading video...")
	case !m.started && m.poster != "":
		return m.poster
	case !s.Playing:
		play := ui.AccentStyle(m.theme).Bold(true).Render(ui.Glyph(m.opts.Icons, ui.IconPlay))
		return lipgloss.JoinVertical(lipgloss.Center, play, "", ui.MutedStyle(m.theme).Render("press space to play"))
	default:
		return ""
	}
}

func (m *Model) renderError() string {
	icon := ui.ErrorStyle(m.theme).Render(ui.Glyph(m.opts.Icons, ui.IconError))
	heading := lipgloss.NewStyle().Bold(true).Foreground(m.theme.BrightWhite()).Render("Video Unavailable")
	msg := lipgloss.NewStyle().Foreground(m.theme.White()).Width(min(m.width-4, 60)).Align(lipgloss.Center).Render(m.state.ErrorMessage)
	hint := ui.MutedStyle(m.theme).Render(TroubleshootHint)
	open := ui.MutedStyle(m.theme).Render("press o to open the source, q to quit")

	return lipgloss.JoinVertical(lipgloss.Center, icon, "", heading, "", msg, "", hint, open)
}

func (m *Model) renderControls() string {
	s := m.state
	muted := ui.MutedStyle(m.theme)
	c := &m.layout.controls

	// progress row
	var bar string
	if s.HasDuration() {
		bar = m.progress.ViewAs(s.Progress() / 100)
	} else {
		bar = muted.Render(strings.Repeat("─", m.progress.Width))
	}
	c.barX, c.barWidth = controlsPadding, m.progress.Width
	times := muted.Render(fmt.Sprintf(" %s / %s", ui.FormatTime(s.CurrentTime), ui.FormatTime(s.Duration)))
	progressRow := lipgloss.JoinHorizontal(lipgloss.Center, bar, times)

	// button row
	playIcon := ui.IconPlay
	if s.Playing {
		playIcon = ui.IconPause
	}
	volIcon := ui.IconVolume
	volume := ui.FormatPercent(s.Volume)
	if s.Muted || s.Volume == 0 {
		volIcon = ui.IconMuted
		volume = muted.Render(volume)
	}
	fsIcon := ui.IconFullscreen
	if s.Fullscreen {
		fsIcon = ui.IconExitFullscreen
	}

	button := lipgloss.NewStyle().Foreground(m.theme.BrightWhite()).Padding(0, 1)
	glyph := func(icon ui.Icon) string { return button.Render(ui.Glyph(m.opts.Icons, icon)) }

	left := []hitZone{
		{target: hitPlay, view: glyph(playIcon)},
		{target: hitSkipBack, view: glyph(ui.IconSkipBack)},
		{target: hitSkipForward, view: glyph(ui.IconSkipForward)},
		{target: hitMute, view: glyph(volIcon)},
		{target: hitVolume, view: m.renderVolumeSlider()},
		{view: " " + volume},
	}
	right := []hitZone{
		{target: hitRate, view: button.Render(ui.Glyph(m.opts.Icons, ui.IconRate) + " " + ui.FormatRate(s.PlaybackRate))},
		{target: hitFullscreen, view: glyph(fsIcon)},
	}

	c.buttons = c.buttons[:0]
	leftView, leftWidth := c.place(left, controlsPadding)
	rightWidth := 0
	for _, z := range right {
		rightWidth += lipgloss.Width(z.view)
	}
	gap := max(m.width-leftWidth-rightWidth-2*controlsPadding, 1)
	rightView, _ := c.place(right, controlsPadding+leftWidth+gap)
	buttonRow := leftView + strings.Repeat(" ", gap) + rightView

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true, false, false, false).
		BorderForeground(m.theme.BrightBlack()).
		Padding(0, controlsPadding).
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, progressRow, buttonRow, m.help.View(m.helpKey)))
}

func (m *Model) renderVolumeSlider() string {
	filled := 0
	if !m.state.Muted {
		filled = int(math.Round(m.state.Volume * volumeCells))
	}
	filled = min(max(filled, 0), volumeCells)
	return ui.AccentStyle(m.theme).Render(strings.Repeat("━", filled)) +
		ui.MutedStyle(m.theme).Render(strings.Repeat("─", volumeCells-filled))
}

// StateLine is the one-line summary used by headless playback
func StateLine(s player.PlayerState) string {
	status := "paused"
	switch {
	case s.Errored():
		status = "error: " + s.ErrorMessage
	case s.Loading():
		status = "loading"
	case s.Playing:
		status = "playing"
	}
	vol := ui.FormatPercent(s.Volume)
	if s.Muted {
		vol += " (muted)"
	}
	return fmt.Sprintf("%s  %s / %s  vol %s  %s", status, ui.FormatTime(s.CurrentTime), ui.FormatTime(s.Duration), vol, ui.FormatRate(s.PlaybackRate))
}
