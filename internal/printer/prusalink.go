package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/logger"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// PrusaState is printer.state of GET /api/v1/status.
type PrusaState int

const (
	PrusaPrinting PrusaState = iota + 1
	PrusaPaused
	PrusaFinished
	PrusaStopped
	PrusaIdle
	PrusaBusy
	PrusaReady
	PrusaAttention
)

const prusaPrinter = "\U000F042B"

type prusaStateInfo struct {
	name        string
	label       string
	severity    threshold.Severity
	printing    bool
	requiresJob bool
}

var prusaStates = map[PrusaState]prusaStateInfo{
	PrusaPrinting:  {name: "PRINTING", label: "\U000F0E5B", printing: true, requiresJob: true},
	PrusaPaused:    {name: "PAUSED", label: prusaPrinter + " \uF28B", requiresJob: true},
	PrusaFinished:  {name: "FINISHED", label: prusaPrinter + " \uF058", severity: threshold.Good},
	PrusaStopped:   {name: "STOPPED", label: prusaPrinter + " \uEBA5", requiresJob: true},
	PrusaIdle:      {name: "IDLE", label: prusaPrinter + " \U000F04B2"},
	PrusaBusy:      {name: "BUSY", label: "\U000F18B9"},
	PrusaReady:     {name: "READY", label: prusaPrinter + " \U000F04B2"},
	PrusaAttention: {name: "ATTENTION", label: "\U000F11C1", severity: threshold.Warning, requiresJob: true},
}

func (s PrusaState) info() prusaStateInfo {
	if info, ok := prusaStates[s]; ok {
		return info
	}
	panic(fmt.Sprintf("printer: PrusaState(%d) has no rendering rule", int(s)))
}

func (s PrusaState) String() string               { return s.info().name }
func (s PrusaState) Label() string                { return s.info().label }
func (s PrusaState) Severity() threshold.Severity { return s.info().severity }
func (s PrusaState) Printing() bool               { return s.info().printing }
func (s PrusaState) RequiresJob() bool            { return s.info().requiresJob }

// ParsePrusaState decodes a state name, ignoring case.
func ParsePrusaState(text string) (PrusaState, error) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for state, info := range prusaStates {
		if info.name == upper {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", text)
}

// UnmarshalText makes PrusaState decodable from JSON strings.
func (s *PrusaState) UnmarshalText(text []byte) error {
	state, err := ParsePrusaState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// prusaStatusResponse is the subset of GET /api/v1/status used here.
type prusaStatusResponse struct {
	Job *struct {
		Progress      *float64 `json:"progress"`
		TimeRemaining *int64   `json:"time_remaining"`
	} `json:"job"`
	Printer *struct {
		State *PrusaState `json:"state"`
	} `json:"printer"`
}

// PrusaLink polls a PrusaLink printer, with an API key or digest authentication.
type PrusaLink struct {
	client *client
}

// NewPrusaLink validates opts and returns the backend.
func NewPrusaLink(opts Options) (*PrusaLink, error) {
	if err := opts.Validate(true); err != nil {
		return nil, err
	}
	c := newClient("prusa-link", opts, logger.NewEnvLogger("[prusa-link]"))
	c.forbidden = "Invalid credentials"
	return &PrusaLink{client: c}, nil
}

func (p *PrusaLink) Name() string { return "prusa-link" }

// Poll fetches GET {url}/api/v1/status.
func (p *PrusaLink) Poll(ctx context.Context) (*Reading, error) {
	var raw json.RawMessage
	if err := p.client.getJSON(ctx, "/api/v1/status", &raw); err != nil {
		return nil, err
	}
	return decodePrusaLink(raw)
}

func decodePrusaLink(body []byte) (*Reading, error) {
	var resp prusaStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, decodeError("prusa-link", err.Error())
	}
	if resp.Printer == nil || resp.Printer.State == nil {
		return nil, decodeError("prusa-link", "missing field `printer.state`")
	}

	state := *resp.Printer.State
	reading := &Reading{Backend: "prusa-link", State: state}

	if resp.Job != nil && resp.Job.TimeRemaining != nil {
		reading.RemainingTime = *resp.Job.TimeRemaining
	}

	switch {
	case state.RequiresJob():
		if resp.Job == nil || resp.Job.Progress == nil {
			return nil, decodeError("prusa-link", fmt.Sprintf("state %s without job", state))
		}
		reading.Completion = *resp.Job.Progress
	case state == PrusaFinished:
		reading.Completion = 100
	default:
		reading.Completion = 0
	}

	return reading, nil
}
