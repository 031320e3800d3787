package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// Semantic colors for status indication
const (
	ColorGood     lipgloss.Color = "2" // Green
	ColorCritical lipgloss.Color = "1" // Red
	ColorWarning  lipgloss.Color = "3" // Yellow
	ColorInfo     lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary lipgloss.Color = "7" // White/default
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// SeverityColor returns the terminal color for a severity.
func SeverityColor(s threshold.Severity) lipgloss.Color {
	switch s {
	case threshold.Critical:
		return ColorCritical
	case threshold.Warning, threshold.Info:
		return ColorWarning
	case threshold.Good:
		return ColorGood
	default:
		return ColorPrimary
	}
}

// SeverityStyle renders text in the color of a severity. Critical is bold.
func SeverityStyle(s threshold.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(SeverityColor(s))
	if s == threshold.Critical {
		style = style.Bold(true)
	}
	return style
}

// HexStyle renders text in an explicit #RRGGBB color.
func HexStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// MutedStyle is for secondary text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// ErrorStyle is for failure messages.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorCritical)
}

// SuccessStyle is for confirmations.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorGood)
}

// DisableColors switches lipgloss to monochrome output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
