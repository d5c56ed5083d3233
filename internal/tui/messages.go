package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ygelfand/vidctl/internal/player"
)

type (
	// stateMsg carries the controller state after a transition
	stateMsg player.PlayerState
	// controllerClosedMsg means the controller's update channel was closed
	controllerClosedMsg struct{}

	posterMsg struct {
		view string
		err  error
	}

	// alertMsg raises a non-fatal notification
	alertMsg struct {
		kind string
		text string
	}
)

// waitForState blocks until the controller publishes its next state
func waitForState(updates <-chan player.PlayerState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return controllerClosedMsg{}
		}
		return stateMsg(s)
	}
}
