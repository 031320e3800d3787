// Package render writes display values in the protocols understood by status
// bars: the i3blocks three-line format, the i3status-rust custom block JSON,
// and a coloured preview for interactive terminals.
package render

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// Output formats accepted by New.
const (
	FormatAuto         = "auto"
	FormatI3Blocks     = "i3blocks"
	FormatI3StatusRust = "i3status-rust"
	FormatTerminal     = "terminal"
)

// Formats lists every accepted output format, in help order.
var Formats = []string{FormatAuto, FormatI3Blocks, FormatI3StatusRust, FormatTerminal}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Color is either empty, a severity, or a raw #RRGGBB colour code.
type Color struct {
	severity threshold.Severity
	raw      string
	set      bool
}

// SeverityColor colours output by severity. Idle yields an empty Color.
func SeverityColor(s threshold.Severity) Color {
	if s == threshold.Idle {
		return Color{}
	}
	return Color{severity: s, set: true}
}

// RawColor colours output with an explicit colour code.
func RawColor(code string) (Color, error) {
	if !hexColor.MatchString(code) {
		return Color{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid color %q", code),
			"Use the #RRGGBB form")
	}
	return Color{raw: strings.ToUpper(code), set: true}, nil
}

// IsZero reports whether no colour is set.
func (c Color) IsZero() bool { return !c.set }

// Severity returns the severity and whether the colour is severity based.
func (c Color) Severity() (threshold.Severity, bool) {
	return c.severity, c.set && c.raw == ""
}

// Raw returns the raw colour code, or "" for severity and empty colours.
func (c Color) Raw() string { return c.raw }

// Output is one display value: the text for wide and narrow bars plus an
// optional icon and colour.
type Output struct {
	Icon  string
	Long  string
	Short string
	Color Color
}

// Text returns the long line with the icon in front.
func (o *Output) Text() string {
	if o.Icon == "" {
		return o.Long
	}
	return o.Icon + " " + o.Long
}

// ShortText returns the short line, falling back to the long line.
func (o *Output) ShortText() string {
	if o.Short == "" {
		return o.Long
	}
	return o.Short
}

// Renderer writes display values and errors in one output protocol.
type Renderer interface {
	// Render writes out. A nil out writes nothing.
	Render(w io.Writer, out *Output) error
	// RenderError reports a failed check. stdout and stderr are both
	// available since protocols differ on where errors go.
	RenderError(stdout, stderr io.Writer, err error) error
}

// New returns the renderer for a format name. FormatAuto picks the terminal
// preview when stdout is a tty and i3blocks otherwise.
func New(format string) (Renderer, error) {
	switch format {
	case "", FormatAuto:
		if isTerminal(os.Stdout) {
			return NewTerminal(), nil
		}
		return I3Blocks{}, nil
	case FormatI3Blocks:
		return I3Blocks{}, nil
	case FormatI3StatusRust:
		return I3StatusRust{}, nil
	case FormatTerminal:
		return NewTerminal(), nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown output format %q", format),
			"Use one of: "+strings.Join(Formats, ", "))
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
