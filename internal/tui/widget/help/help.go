package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/vidctl/internal/ui"
)

type HelpOverlayModel struct {
	keys   help.KeyMap
	help   help.Model
	theme  tint.Tint
	width  int
	height int
}

func NewHelpOverlayModel(keys help.KeyMap, theme tint.Tint) *HelpOverlayModel {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.BrightCyan()).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.White())
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.BrightBlack())

	return &HelpOverlayModel{
		keys:  keys,
		help:  h,
		theme: theme,
	}
}

func (m *HelpOverlayModel) Init() tea.Cmd {
	return nil
}

func (m *HelpOverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(m.width/2, 45)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return nil, nil
		}
	}
	return m, nil
}

func (m *HelpOverlayModel) View() string {
	accent := ui.Accent(m.theme)

	title := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		MarginBottom(1).
		Render(" KEYBOARD SHORTCUTS ")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.help.View(m.keys),
		"",
		ui.MutedStyle(m.theme).Render(" Press esc, q, or ? to close "),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Render(content)
}
