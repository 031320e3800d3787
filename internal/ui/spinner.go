package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const frameInterval = 80 * time.Millisecond

// Track runs fn while animating label on out, then replaces the animation
// with a ✓ or ✗ line and the elapsed time. fn's error is returned unchanged.
func Track(out io.Writer, label string, fn func() error) error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)
	start := time.Now()

	go func() {
		done <- animate(ctx, out, label)
	}()

	err := fn()
	cancel()
	width := <-done

	symbol, style := SymbolSuccess, SuccessStyle()
	if err != nil {
		symbol, style = SymbolFail, ErrorStyle()
	}
	eraseLine(out, width)
	fmt.Fprintf(out, "%s %s %s\n", style.Render(symbol), label,
		MutedStyle().Render(formatElapsed(time.Since(start))))
	return err
}

// animate draws frames until ctx ends and returns the width of the last one.
func animate(ctx context.Context, out io.Writer, label string) int {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	frameStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	width := 0
	for i := 0; ; i++ {
		line := frameStyle.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + label + "..."
		eraseLine(out, width)
		fmt.Fprint(out, line)
		width = lipgloss.Width(line)

		select {
		case <-ctx.Done():
			return width
		case <-ticker.C:
		}
	}
}

func eraseLine(out io.Writer, width int) {
	if width > 0 {
		fmt.Fprint(out, "\r"+strings.Repeat(" ", width)+"\r")
	}
}

// formatElapsed formats a duration for display, e.g. "0.03s" or "1.2s".
func formatElapsed(d time.Duration) string {
	if secs := d.Seconds(); secs >= 0.1 {
		return fmt.Sprintf("%.1fs", secs)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
