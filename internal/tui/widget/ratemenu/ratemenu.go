package ratemenu

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/vidctl/internal/player"
	"github.com/ygelfand/vidctl/internal/ui"
)

// RateChosenMsg is sent when a rate is confirmed
type RateChosenMsg struct {
	Rate float64
}

type RateMenuModel struct {
	theme  tint.Tint
	choice int
	width  int
	height int
}

// NewRateMenuModel opens the menu with the current rate highlighted
func NewRateMenuModel(current float64, theme tint.Tint) *RateMenuModel {
	choice := slices.Index(player.Rates, current)
	if choice < 0 {
		choice = slices.Index(player.Rates, 1)
	}
	return &RateMenuModel{theme: theme, choice: choice}
}

func (m *RateMenuModel) Selected() float64 {
	return player.Rates[m.choice]
}

func (m *RateMenuModel) Init() tea.Cmd {
	return nil
}

func (m *RateMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.choice = max(m.choice-1, 0)
		case "down", "j":
			m.choice = min(m.choice+1, len(player.Rates)-1)
		case "enter", " ":
			rate := m.Selected()
			return nil, func() tea.Msg { return RateChosenMsg{Rate: rate} }
		case "esc", "r", "q":
			return nil, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *RateMenuModel) View() string {
	accent := ui.Accent(m.theme)

	optionStyle := lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle := optionStyle.
		Foreground(accent).
		Bold(true)

	options := make([]string, 0, len(player.Rates))
	for i, rate := range player.Rates {
		label := ui.FormatRate(rate)
		if rate == 1 {
			label += " (normal)"
		}
		if i == m.choice {
			options = append(options, "> "+selectedStyle.Render(label))
		} else {
			options = append(options, "  "+optionStyle.Render(label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Playback Speed"),
		"",
		strings.Join(options, "\n"),
		"",
		ui.MutedStyle(m.theme).Render("[↑/↓] Select  [enter] Confirm  [esc] Cancel"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(40).
		Render(content)
}
