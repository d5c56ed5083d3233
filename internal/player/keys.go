package player

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the fixed shortcut bindings of a focused player
type KeyMap struct {
	TogglePlay  key.Binding
	SkipBack    key.Binding
	SkipForward key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Mute        key.Binding
	Fullscreen  key.Binding
}

func DefaultKeyMap(skip float64) KeyMap {
	return KeyMap{
		TogglePlay:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		SkipBack:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", fmt.Sprintf("skip back %gs", skip))),
		SkipForward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", fmt.Sprintf("skip forward %gs", skip))),
		VolumeUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "volume up")),
		VolumeDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "volume down")),
		Mute:        key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "mute/unmute")),
		Fullscreen:  key.NewBinding(key.WithKeys("f", "F"), key.WithHelp("f", "fullscreen")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePlay, k.SkipBack, k.SkipForward, k.Mute, k.Fullscreen}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TogglePlay, k.SkipBack, k.SkipForward},
		{k.VolumeUp, k.VolumeDown, k.Mute, k.Fullscreen},
	}
}

// Bindings lists every binding in display order
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.TogglePlay, k.SkipBack, k.SkipForward, k.VolumeUp, k.VolumeDown, k.Mute, k.Fullscreen}
}

// HandleKey dispatches a key press. It reports whether the key was consumed;
// bound keys are consumed even when their action is a no-op so the host
// never applies its own default handling. Nothing is consumed while the
// player is unfocused or unmounted.
func (c *Controller) HandleKey(k fmt.Stringer) bool {
	var consumed bool
	if err := c.do(func() { consumed = c.dispatchKey(k) }); err != nil {
		return false
	}
	return consumed
}

func (c *Controller) dispatchKey(k fmt.Stringer) bool {
	if !c.state.Focused {
		return false
	}

	switch {
	case key.Matches(k, c.keys.TogglePlay):
		c.togglePlay()
	case key.Matches(k, c.keys.SkipBack):
		c.skip(-c.skipStep)
	case key.Matches(k, c.keys.SkipForward):
		c.skip(c.skipStep)
	case key.Matches(k, c.keys.VolumeUp):
		c.setVolume(math.Min(100, stepPercent(c.state.Volume+c.volumeStep)))
	case key.Matches(k, c.keys.VolumeDown):
		c.setVolume(math.Max(0, stepPercent(c.state.Volume-c.volumeStep)))
	case key.Matches(k, c.keys.Mute):
		c.toggleMute()
	case key.Matches(k, c.keys.Fullscreen):
		c.toggleFullscreen()
	default:
		return false
	}
	return true
}

// stepPercent converts a volume level to whole percent so repeated steps
// don't accumulate float drift
func stepPercent(volume float64) float64 {
	return math.Round(volume * 100)
}
