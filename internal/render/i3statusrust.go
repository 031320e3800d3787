package render

import (
	"encoding/json"
	"io"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// block is the i3status-rust custom block payload.
type block struct {
	Text      string `json:"text"`
	ShortText string `json:"short_text"`
	Icon      string `json:"icon,omitempty"`
	State     string `json:"state,omitempty"`
}

// I3StatusRust writes a single JSON object per reading, as expected by the
// custom block with json = true.
type I3StatusRust struct{}

// Render implements Renderer. Raw colours have no state equivalent and are
// dropped.
func (I3StatusRust) Render(w io.Writer, out *Output) error {
	if out == nil {
		return nil
	}
	b := block{
		Text:      out.Long,
		ShortText: out.ShortText(),
		Icon:      out.Icon,
	}
	if s, ok := out.Color.Severity(); ok {
		b.State = s.String()
	}
	return encode(w, b)
}

// RenderError writes the error as a critical block on stdout so the bar
// shows it.
func (I3StatusRust) RenderError(stdout, _ io.Writer, err error) error {
	msg := errors.ShortMessage(err)
	return encode(stdout, block{
		Text:      msg,
		ShortText: msg,
		State:     threshold.Critical.String(),
	})
}

func encode(w io.Writer, b block) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(b)
}
