package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: candidate names, file paths.
	ColorCyan = lipgloss.Color("14")

	// ColorYellow is used for the "skipped" item status.
	ColorYellow = lipgloss.Color("220")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	colorGreen      = lipgloss.Color("82")
	colorBoldRed    = lipgloss.Color("204")
	colorGreenCheck = lipgloss.Color("10")
	colorBlue       = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (candidate names, output paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Item status constants.
const (
	StatusExported = "exported"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// statusStyle returns the lipgloss style for a given item status string.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusExported:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minItemColumnWidth keeps status words aligned across item lines.
const minItemColumnWidth = 40

// FormatItemLine renders a candidate name with a right-aligned, color-coded
// status suffix.
//
// Format: <name>  <status>
func FormatItemLine(name, status string) string {
	padding := minItemColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}

	return StyleNoun.Render(name) + strings.Repeat(" ", padding) + statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}
