package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor = lipgloss.Color("#4F46E5")
	SuccessColor = lipgloss.Color("#22C55E")
	WarningColor = lipgloss.Color("#EAB308")
	ErrorColor   = lipgloss.Color("#EF4444")
	SubtleColor  = lipgloss.Color("#6B7280")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// RenderBox renders content in a bordered box under a title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
