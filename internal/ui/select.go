package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is one selectable row
type Choice struct {
	Title, Desc, Value string
}

func (c Choice) FilterValue() string { return c.Title + " " + c.Desc }

var ErrNoSelection = errors.New("no selection made")

// choiceDelegate draws a choice on one line with its description dimmed
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                               { return 1 }
func (d choiceDelegate) Spacing() int                              { return 0 }
func (d choiceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	c, ok := li.(Choice)
	if !ok {
		return
	}

	theme := CurrentTheme()
	line := fmt.Sprintf("%d. %s", index+1, c.Title)
	if c.Desc != "" {
		line += " " + MutedStyle(theme).Render(Ellipsis(c.Desc, max(m.Width()-lipgloss.Width(line)-8, 10)))
	}

	if index == m.Index() {
		fmt.Fprint(w, lipgloss.NewStyle().PaddingLeft(2).Foreground(Accent(theme)).Render("> "+line))
		return
	}
	fmt.Fprint(w, lipgloss.NewStyle().PaddingLeft(4).Render(line))
}

type picker struct {
	list   list.Model
	choice string
	done   bool
}

func newPicker(title string, options []Choice) picker {
	items := make([]list.Item, 0, len(options))
	for _, o := range options {
		items = append(items, o)
	}

	l := list.New(items, choiceDelegate{}, 80, min(len(items)+6, 16))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(items) > 5)
	l.Styles.Title = TitleStyle(CurrentTheme())
	return picker{list: l}
}

func (p picker) Init() tea.Cmd {
	return nil
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetWidth(msg.Width)
		return p, nil

	case tea.KeyMsg:
		// keys belong to the filter input while it is open
		if p.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.done = true
			return p, tea.Quit
		case "enter":
			if c, ok := p.list.SelectedItem().(Choice); ok {
				p.choice = c.Value
			}
			p.done = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p picker) View() string {
	if p.done {
		return ""
	}
	return "\n" + p.list.View()
}

// SelectOption presents a list of options to the user and returns the
// selected value
func SelectOption(title string, options []Choice) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	final, err := tea.NewProgram(newPicker(title, options)).Run()
	if err != nil {
		return "", err
	}

	if res := final.(picker).choice; res != "" {
		return res, nil
	}
	return "", ErrNoSelection
}
