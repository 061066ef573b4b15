package utils

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	CriticalColor = lipgloss.Color("#CC3333") // Dark red
	WarningColor  = lipgloss.Color("#FF8800") // Orange
	GoodColor     = lipgloss.Color("#228B22") // Forest green
	InfoColor     = lipgloss.Color("#4682B4") // Steel blue
	TextColor     = lipgloss.Color("#CCCCCC") // Light gray
	MutedColor    = lipgloss.Color("#888888") // Medium gray
	BorderColor   = lipgloss.Color("#666666") // Dark gray
)

var (
	CriticalStyle = lipgloss.NewStyle().Foreground(CriticalColor).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	GoodStyle     = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	TextStyle     = lipgloss.NewStyle().Foreground(TextColor)
)

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(InfoColor).
			Padding(0, 1).
			Bold(true)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	HelpBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Background(lipgloss.Color("#1a1a1a")).
			Padding(0, 1)
)

// GetSeverityStyle maps a diagnostic severity name (ERROR, WARNING, INFO)
// to its color. Anything else renders as a pass.
func GetSeverityStyle(severity string) lipgloss.Style {
	switch strings.ToUpper(severity) {
	case "ERROR":
		return CriticalStyle
	case "WARNING":
		return WarningStyle
	case "INFO":
		return InfoStyle
	default:
		return GoodStyle
	}
}

func GetSeverityIcon(severity string) string {
	switch strings.ToUpper(severity) {
	case "ERROR":
		return "🔴"
	case "WARNING":
		return "⚠️"
	case "INFO":
		return "ℹ️"
	default:
		return "✅"
	}
}

func GetStatusIcon(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// Table-like formatting for aligned data
func FormatKeyValue(key, value string, keyWidth int) string {
	keyStyled := InfoStyle.Width(keyWidth).Render(key + ":")
	valueStyled := TextStyle.Render(value)
	return lipgloss.JoinHorizontal(lipgloss.Left, keyStyled, " ", valueStyled)
}

// TruncateString truncates a string to fit within maxWidth
func TruncateString(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}
	if maxWidth < 4 {
		return strings.Repeat(".", maxWidth)
	}
	return s[:maxWidth-3] + "..."
}
