package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Overlay composites overlay on top of base, centered both horizontally and
// vertically.
func Overlay(base, overlay string, width, height int) string {
	return overlayAt(base, overlay, width, height, (height-lipgloss.Height(overlay))/2)
}

// OverlayBottom composites overlay over the last rows of base
func OverlayBottom(base, overlay string, width, height int) string {
	return overlayAt(base, overlay, width, height, height-lipgloss.Height(overlay))
}

// overlayAt replaces whole rows of base starting at startY. Splicing into
// the middle of a row would cut through its escape sequences.
func overlayAt(base, overlay string, width, height, startY int) string {
	if base == "" {
		return overlay
	}

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, strings.Repeat(" ", width))
	}

	result := make([]string, len(baseLines))
	copy(result, baseLines)

	for y, oLine := range strings.Split(overlay, "\n") {
		baseY := startY + y
		if baseY < 0 || baseY >= len(baseLines) {
			continue
		}
		result[baseY] = lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(oLine)
	}

	return strings.Join(result, "\n")
}

// Ellipsis truncates a string to a max width and adds ... if needed.
func Ellipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := runewidth.StringWidth(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
