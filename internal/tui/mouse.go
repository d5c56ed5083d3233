package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ygelfand/vidctl/internal/tui/widget/ratemenu"
)

const (
	controlsPadding = 1
	volumeCells     = 10
)

type hitTarget int

const (
	hitNone hitTarget = iota
	hitPlay
	hitSkipBack
	hitSkipForward
	hitMute
	hitVolume
	hitRate
	hitFullscreen
)

// hitZone is one clickable element of the button row
type hitZone struct {
	target hitTarget
	view   string
	x, w   int
}

// controlsLayout records where the last render drew the control bar. Rows
// are relative to top: the border, the progress row, then the buttons.
type controlsLayout struct {
	visible  bool
	top      int
	barX     int
	barWidth int
	buttons  []hitZone
}

type layout struct {
	bodyTop, bodyBottom int
	controls            controlsLayout
}

func (c *controlsLayout) progressRow() int { return c.top + 1 }
func (c *controlsLayout) buttonRow() int   { return c.top + 2 }

// place lays zones out left to right from x and returns the joined row
func (c *controlsLayout) place(zones []hitZone, x int) (string, int) {
	var row string
	width := 0
	for _, z := range zones {
		z.x, z.w = x+width, lipgloss.Width(z.view)
		width += z.w
		row += z.view
		if z.target != hitNone {
			c.buttons = append(c.buttons, z)
		}
	}
	return row, width
}

func (c *controlsLayout) zoneAt(x int) (hitZone, bool) {
	for _, z := range c.buttons {
		if x >= z.x && x < z.x+z.w {
			return z, true
		}
	}
	return hitZone{}, false
}

// handleMouse maps pointer gestures onto the controller: clicks on the
// video toggle playback, the progress row seeks and the volume slider sets
// the level. Dragging works on both sliders.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	m.report(m.ctrl.NoteActivity())

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
		return nil
	case tea.MouseButtonWheelDown:
		m.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	drag := msg.Action == tea.MouseActionMotion
	if msg.Action != tea.MouseActionPress && !drag {
		return nil
	}

	c := &m.layout.controls
	switch {
	case c.visible && msg.Y == c.progressRow():
		if msg.X >= c.barX && msg.X < c.barX+c.barWidth {
			m.report(m.ctrl.Seek(float64(msg.X-c.barX) / float64(c.barWidth) * 100))
		}
	case c.visible && msg.Y == c.buttonRow():
		z, ok := c.zoneAt(msg.X)
		if !ok || (drag && z.target != hitVolume) {
			return nil
		}
		return m.press(z, msg.X)
	case !drag && msg.Y >= m.layout.bodyTop && msg.Y < m.layout.bodyBottom:
		m.report(m.ctrl.TogglePlay())
	}
	return nil
}

func (m *Model) press(z hitZone, x int) tea.Cmd {
	switch z.target {
	case hitPlay:
		m.report(m.ctrl.TogglePlay())
	case hitSkipBack:
		m.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	case hitSkipForward:
		m.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	case hitMute:
		m.report(m.ctrl.ToggleMute())
	case hitVolume:
		cell := x - z.x + 1
		m.report(m.ctrl.SetVolume(float64(cell*100) / volumeCells))
	case hitRate:
		if !m.state.Errored() {
			return m.navigator.Push(ratemenu.NewRateMenuModel(m.state.PlaybackRate, m.theme))
		}
	case hitFullscreen:
		m.report(m.ctrl.ToggleFullscreen())
	}
	return nil
}
