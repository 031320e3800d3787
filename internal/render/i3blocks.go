package render

import (
	"fmt"
	"io"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// i3blocks only has two alert tones: anything at or above the warning bound
// is yellow.
var i3blocksPalette = map[threshold.Severity]string{
	threshold.Critical: "#FF0000",
	threshold.Warning:  "#FFFC00",
	threshold.Info:     "#FFFC00",
	threshold.Good:     "#00FF00",
}

// I3Blocks writes the long line, the short line and an optional colour line.
type I3Blocks struct{}

// Render implements Renderer.
func (I3Blocks) Render(w io.Writer, out *Output) error {
	if out == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", out.Text(), out.ShortText()); err != nil {
		return err
	}
	color := i3blocksColor(out.Color)
	if color == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, color)
	return err
}

// RenderError writes the one-line error message to stderr.
func (I3Blocks) RenderError(_, stderr io.Writer, err error) error {
	_, werr := fmt.Fprintln(stderr, errors.ShortMessage(err))
	return werr
}

func i3blocksColor(c Color) string {
	if raw := c.Raw(); raw != "" {
		return raw
	}
	if s, ok := c.Severity(); ok {
		return i3blocksPalette[s]
	}
	return ""
}
