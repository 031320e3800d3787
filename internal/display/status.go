package display

import (
	"fmt"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/metrics"
	"github.com/deimosfr/i3-status-info/internal/printer"
	"github.com/deimosfr/i3-status-info/internal/render"
)

// PerfStyle selects icons or titles for the performance profile.
type PerfStyle string

const (
	PerfIcons PerfStyle = "icons"
	PerfText  PerfStyle = "text"
)

// ParsePerfStyle validates a performance profile style name.
func ParsePerfStyle(name string) (PerfStyle, error) {
	switch PerfStyle(name) {
	case PerfIcons, PerfText:
		return PerfStyle(name), nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown display %q", name),
		"Use one of: icons, text")
}

var perfIcons = map[metrics.PerfMode]string{
	metrics.PerfBalanced:    "\uF0DC",
	metrics.PerfPerformance: "\uF962",
	metrics.PerfLowPower:    "\uF299",
}

// PerfMode builds the platform profile line.
func PerfMode(r *metrics.PerfModeReading, style PerfStyle) *render.Output {
	text := r.Mode.Title()
	if style == PerfIcons {
		if icon, ok := perfIcons[r.Mode]; ok {
			text = icon
		}
	}
	return &render.Output{Long: text, Short: text}
}

// PrinterOptions controls the remaining time on the printer line.
type PrinterOptions struct {
	HideRemainingTime      bool
	ShortHideRemainingTime bool
}

// Printer builds the job line. While printing it shows the state label,
// completion and remaining time; other states show their label alone.
func Printer(r *printer.Reading, opts PrinterOptions) *render.Output {
	out := &render.Output{Color: render.SeverityColor(r.State.Severity())}
	if !r.State.Printing() {
		out.Long = r.State.Label()
		out.Short = out.Long
		return out
	}

	progress := fmt.Sprintf("%s %.1f%%", r.State.Label(), r.Completion)
	withTime := progress + " " + FormatDuration(r.RemainingTime)

	out.Long, out.Short = withTime, withTime
	if opts.HideRemainingTime {
		out.Long, out.Short = progress, progress
	}
	if opts.ShortHideRemainingTime {
		out.Short = progress
	}
	return out
}

// FormatDuration writes seconds as days, hours, minutes and seconds, leaving
// out zero parts: 34320 is "9h32m" and 0 is "0s".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	parts := []struct {
		size   int64
		suffix string
	}{
		{86400, "d"},
		{3600, "h"},
		{60, "m"},
		{1, "s"},
	}

	var b strings.Builder
	for _, p := range parts {
		if n := seconds / p.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, p.suffix)
			seconds -= n * p.size
		}
	}
	return b.String()
}
