package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ygelfand/vidctl/internal/ui"
)

// Overlay represents a model that is rendered on top of the player view.
// Returning a nil model from Update dismisses it.
type Overlay interface {
	tea.Model
}

type Navigator struct {
	overlays []Overlay
	width    int
	height   int
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

func (n *Navigator) Push(o Overlay) tea.Cmd {
	n.overlays = append(n.overlays, o)
	cmds := []tea.Cmd{o.Init()}
	if n.width > 0 && n.height > 0 {
		_, cmd := o.Update(tea.WindowSizeMsg{Width: n.width, Height: n.height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (n *Navigator) Pop() {
	if len(n.overlays) > 0 {
		n.overlays = n.overlays[:len(n.overlays)-1]
	}
}

func (n *Navigator) ActiveOverlay() Overlay {
	if len(n.overlays) == 0 {
		return nil
	}
	return n.overlays[len(n.overlays)-1]
}

// Update routes msg to the top overlay. Key and mouse input is captured
// while an overlay is open.
func (n *Navigator) Update(msg tea.Msg) (tea.Cmd, bool) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		n.width = msg.Width
		n.height = msg.Height
	}

	overlay := n.ActiveOverlay()
	if overlay == nil {
		return nil, false
	}

	newModel, cmd := overlay.Update(msg)
	if newModel == nil {
		n.Pop()
		return cmd, true
	}
	n.overlays[len(n.overlays)-1] = newModel.(Overlay)

	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return cmd, true
	}
	return cmd, false
}

func (n *Navigator) Render(base string) string {
	for _, o := range n.overlays {
		base = ui.Overlay(base, o.View(), n.width, n.height)
	}
	return base
}
