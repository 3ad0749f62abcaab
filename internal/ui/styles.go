package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for webled terminal UIs
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	OnColor      = lipgloss.Color("#43BF6D") // Green - LED lit, success
	OffColor     = lipgloss.Color("#626262") // Gray - LED dark
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// TitleStyle is for screen titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	// SubtitleStyle is for secondary headings
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// HelpStyle is for key binding help lines
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(1, 0)

	// LampOnStyle is for the LED indicator when lit
	LampOnStyle = lipgloss.NewStyle().
			Foreground(OnColor).
			Bold(true)

	// LampOffStyle is for the LED indicator when dark
	LampOffStyle = lipgloss.NewStyle().
			Foreground(OffColor)

	// StatusKeyStyle is for detail keys (e.g. "Device:")
	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(10)

	// StatusValueStyle is for detail values
	StatusValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// ErrorMessageStyle is for inline error text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// SpinnerStyle is for activity spinners
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// SelectedItemStyle is for the highlighted list entry
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(OnColor).
				Bold(true)

	// ItemStyle is for unselected list entries
	ItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)
)

// Result markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// RenderTitle renders a screen title
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderError renders an error message with a failure marker
func RenderError(text string) string {
	return ErrorMessageStyle.Render(FailureMarker + " " + text)
}

// RenderSuccess renders a success message with a check marker
func RenderSuccess(text string) string {
	return LampOnStyle.Render(SuccessMarker + " " + text)
}

// HeaderBorderStyle returns the border style for panel headers
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// PanelBoxStyle returns the border style for the main panel box
func PanelBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Padding(1, 2)
}

// ErrorBoxStyle returns the border style for error result boxes
func ErrorBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width - 2).
		Padding(1, 2)
}
