package ui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/olekukonko/tablewriter"
	"github.com/ygelfand/vidctl/internal/config"
	"gopkg.in/yaml.v3"
)

// Primary is the accent used for the progress bar and focused controls
var Primary = lipgloss.Color("#e11d48")

type VidctlTint struct{}

func (t *VidctlTint) DisplayName() string { return "Vidctl" }
func (t *VidctlTint) ID() string          { return "vidctl" }
func (t *VidctlTint) About() string       { return "Vidctl dark theme" }

func (t *VidctlTint) Fg() lipgloss.TerminalColor          { return lipgloss.Color("#e4e4e7") }
func (t *VidctlTint) Bg() lipgloss.TerminalColor          { return lipgloss.Color("#09090b") }
func (t *VidctlTint) SelectionBg() lipgloss.TerminalColor { return lipgloss.Color("#27272a") }
func (t *VidctlTint) Cursor() lipgloss.TerminalColor      { return Primary }

func (t *VidctlTint) BrightBlack() lipgloss.TerminalColor  { return lipgloss.Color("#52525b") }
func (t *VidctlTint) BrightBlue() lipgloss.TerminalColor   { return lipgloss.Color("#60a5fa") }
func (t *VidctlTint) BrightCyan() lipgloss.TerminalColor   { return lipgloss.Color("#22d3ee") }
func (t *VidctlTint) BrightGreen() lipgloss.TerminalColor  { return lipgloss.Color("#4ade80") }
func (t *VidctlTint) BrightPurple() lipgloss.TerminalColor { return lipgloss.Color("#c084fc") }
func (t *VidctlTint) BrightRed() lipgloss.TerminalColor    { return lipgloss.Color("#f87171") }
func (t *VidctlTint) BrightWhite() lipgloss.TerminalColor  { return lipgloss.Color("#fafafa") }
func (t *VidctlTint) BrightYellow() lipgloss.TerminalColor { return lipgloss.Color("#facc15") }

func (t *VidctlTint) Black() lipgloss.TerminalColor  { return lipgloss.Color("#000000") }
func (t *VidctlTint) Blue() lipgloss.TerminalColor   { return lipgloss.Color("#3b82f6") }
func (t *VidctlTint) Cyan() lipgloss.TerminalColor   { return lipgloss.Color("#06b6d4") }
func (t *VidctlTint) Green() lipgloss.TerminalColor  { return lipgloss.Color("#22c55e") }
func (t *VidctlTint) Purple() lipgloss.TerminalColor { return lipgloss.Color("#a855f7") }
func (t *VidctlTint) Red() lipgloss.TerminalColor    { return lipgloss.Color("#ef4444") }
func (t *VidctlTint) White() lipgloss.TerminalColor  { return lipgloss.Color("#a1a1aa") }
func (t *VidctlTint) Yellow() lipgloss.TerminalColor { return lipgloss.Color("#eab308") }

var VidctlTheme = &VidctlTint{}

// Themes lists every selectable theme, ours first
func Themes() []tint.Tint {
	return append([]tint.Tint{VidctlTheme}, tint.DefaultTints()...)
}

// ThemeByID falls back to the vidctl theme for unknown ids
func ThemeByID(id string) tint.Tint {
	for _, t := range Themes() {
		if t.ID() == id {
			return t
		}
	}
	return VidctlTheme
}

// CurrentTheme returns the theme currently configured in config.Get()
func CurrentTheme() tint.Tint {
	return ThemeByID(config.Get().Theme)
}

// Accent returns the primary accent color for the theme
func Accent(t tint.Tint) lipgloss.TerminalColor {
	if t.ID() == VidctlTheme.ID() {
		return Primary
	}
	return t.BrightCyan()
}

func AccentStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Accent(t))
}

func TitleStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent(t)).
		MarginBottom(1)
}

func LabelStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightWhite()).
		Width(20)
}

func ValueStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.White())
}

func MutedStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.BrightBlack())
}

func ErrorStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightRed()).
		Bold(true)
}

func SuccessStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightGreen()).
		Bold(true)
}

// RenderError prints a styled error message
func RenderError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle(CurrentTheme()).Render("Error:"), err)
}

// RenderSuccess prints a styled success message
func RenderSuccess(msg string) {
	fmt.Println(SuccessStyle(CurrentTheme()).Render(msg))
}

// OutputData represents data that can be printed in multiple formats
type OutputData struct {
	Title   string
	Headers []string
	Rows    [][]string
	Raw     any // Used for JSON/YAML
}

// Print writes to stdout in the configured format
func (d OutputData) Print() error {
	return d.Fprint(os.Stdout, config.Get().OutputFormat)
}

// Fprint writes the data to w in the given format, defaulting to a table
func (d OutputData) Fprint(w io.Writer, format string) error {
	// Robustly handle potentially quoted format strings from config
	format = strings.Trim(strings.ToLower(format), "\"")

	switch format {
	case "json":
		return d.printJSON(w)
	case "json-pretty":
		return d.printJSONPretty(w)
	case "yaml":
		return d.printYAML(w)
	case "csv":
		return d.printCSV(w)
	case "txt", "text":
		return d.printText(w)
	case "table":
		fallthrough
	default:
		return d.printTable(w)
	}
}

func (d OutputData) printJSONPretty(w io.Writer) error {
	rawJSON, err := json.Marshal(d.Raw)
	if err != nil {
		return err
	}
	var obj any
	if err := json.Unmarshal(rawJSON, &obj); err != nil {
		return err
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	b, err := f.Marshal(obj)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func (d OutputData) printJSON(w io.Writer) error {
	b, err := json.Marshal(d.Raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func (d OutputData) printYAML(w io.Writer) error {
	b, err := yaml.Marshal(d.Raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func (d OutputData) printCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Headers); err != nil {
		return err
	}
	// WriteAll flushes
	return cw.WriteAll(d.Rows)
}

func (d OutputData) printText(w io.Writer) error {
	theme := CurrentTheme()
	if d.Title != "" {
		fmt.Fprintln(w, TitleStyle(theme).Render(d.Title))
	}
	for _, row := range d.Rows {
		for i, val := range row {
			if i < len(d.Headers) {
				fmt.Fprintf(w, "%s %s\n", LabelStyle(theme).Render(d.Headers[i]+":"), ValueStyle(theme).Render(val))
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (d OutputData) printTable(w io.Writer) error {
	if d.Title != "" {
		fmt.Fprintln(w, TitleStyle(CurrentTheme()).Render(d.Title))
	}

	table := tablewriter.NewWriter(w)
	table.Header(d.Headers)
	table.Bulk(d.Rows)
	return table.Render()
}

// SummaryItem is one label/value row of a summary block
type SummaryItem struct{ Label, Value string }

// RenderSummary renders a list of key-value pairs
func RenderSummary(w io.Writer, title string, items []SummaryItem) {
	theme := CurrentTheme()
	if title != "" {
		fmt.Fprintln(w, TitleStyle(theme).Render(title))
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle(theme).Render(item.Label+":"), ValueStyle(theme).Render(item.Value)))
	}
	fmt.Fprintln(w, b.String())
}
