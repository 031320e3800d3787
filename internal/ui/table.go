package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProfileRow is one printer profile in the config listing.
type ProfileRow struct {
	Name    string
	Backend string
	URL     string
	Auth    string
	// Problem is the validation error, empty for a usable profile.
	Problem string
}

// RenderProfileTable renders printer profiles as an aligned table.
func RenderProfileTable(rows []ProfileRow) string {
	if len(rows) == 0 {
		return MutedStyle().Render("No printer profiles configured") + "\n"
	}

	nameWidth, backendWidth, urlWidth := len("NAME"), len("BACKEND"), len("URL")
	for _, row := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(row.Name))
		backendWidth = max(backendWidth, lipgloss.Width(row.Backend))
		urlWidth = max(urlWidth, lipgloss.Width(row.URL))
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var b strings.Builder
	b.WriteString(headerStyle.Render("   " +
		padRight("NAME", nameWidth+2) +
		padRight("BACKEND", backendWidth+2) +
		padRight("URL", urlWidth+2) +
		"AUTH"))
	b.WriteString("\n")

	for _, row := range rows {
		status := SuccessStyle().Render(SymbolSuccess)
		if row.Problem != "" {
			status = ErrorStyle().Render(SymbolFail)
		}
		b.WriteString(" " + status + " " +
			padRight(row.Name, nameWidth+2) +
			padRight(row.Backend, backendWidth+2) +
			padRight(row.URL, urlWidth+2) +
			MutedStyle().Render(row.Auth))
		b.WriteString("\n")
		if row.Problem != "" {
			b.WriteString("     " + ErrorStyle().Render(row.Problem) + "\n")
		}
	}
	return b.String()
}

// padRight pads s to width visible cells, ignoring ANSI codes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
