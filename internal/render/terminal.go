package render

import (
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/ui"
)

// Pango spans from the disk-io output mean nothing in a terminal.
var pangoSpan = regexp.MustCompile(`<span foreground='(#[0-9A-Fa-f]{6})'>(.*?)</span>`)

// Terminal previews a reading in an interactive shell.
type Terminal struct {
	label lipgloss.Style
}

// NewTerminal creates a terminal renderer using the current lipgloss profile.
func NewTerminal() *Terminal {
	return &Terminal{label: ui.MutedStyle()}
}

// Render implements Renderer. The short line is shown after the long one
// when they differ.
func (t *Terminal) Render(w io.Writer, out *Output) error {
	if out == nil {
		return nil
	}
	line := t.colorize(out.Color, unspan(out.Text()))
	if out.Short != "" && out.Short != out.Long {
		line += "  " + t.label.Render("short: ") + unspan(out.Short)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// RenderError writes a styled failure line to stderr.
func (t *Terminal) RenderError(_, stderr io.Writer, err error) error {
	msg := ui.ErrorStyle().Render(ui.SymbolFail + " " + errors.ShortMessage(err))
	_, werr := fmt.Fprintln(stderr, msg)
	return werr
}

func (t *Terminal) colorize(c Color, text string) string {
	if raw := c.Raw(); raw != "" {
		return ui.HexStyle(raw).Render(text)
	}
	if s, ok := c.Severity(); ok {
		return ui.SeverityStyle(s).Render(text)
	}
	return text
}

// unspan replaces pango spans with lipgloss colouring of their content.
func unspan(text string) string {
	return pangoSpan.ReplaceAllStringFunc(text, func(span string) string {
		m := pangoSpan.FindStringSubmatch(span)
		return ui.HexStyle(m[1]).Render(m[2])
	})
}
