package printer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deimosfr/i3-status-info/internal/logger"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// OctoprintState is the "state" field of GET /api/job.
type OctoprintState int

const (
	OctoprintOperational OctoprintState = iota + 1
	OctoprintPrinting
	OctoprintPausing
	OctoprintPaused
	OctoprintCancelling
	OctoprintError
	OctoprintOffline
)

type octoprintStateInfo struct {
	name        string
	label       string
	severity    threshold.Severity
	printing    bool
	requiresJob bool
}

var octoprintStates = map[OctoprintState]octoprintStateInfo{
	OctoprintOperational: {name: "Operational", label: "\U000F04B2"},
	OctoprintPrinting:    {name: "Printing", label: "\U000F0E5B", printing: true, requiresJob: true},
	OctoprintPausing:     {name: "Pausing", label: "\uF28B", requiresJob: true},
	OctoprintPaused:      {name: "Paused", label: "\uF28B", requiresJob: true},
	OctoprintCancelling:  {name: "Cancelling", label: "\uF28D"},
	OctoprintError:       {name: "Error", label: "\uEA87", severity: threshold.Warning},
	OctoprintOffline:     {name: "Offline", label: "Offline"},
}

// octoprintAliases are state texts OctoPrint sends for a known state.
var octoprintAliases = map[string]OctoprintState{
	"Printing from SD":    OctoprintPrinting,
	"Offline after error": OctoprintError,
}

func (s OctoprintState) info() octoprintStateInfo {
	if info, ok := octoprintStates[s]; ok {
		return info
	}
	panic(fmt.Sprintf("printer: OctoprintState(%d) has no rendering rule", int(s)))
}

func (s OctoprintState) String() string               { return s.info().name }
func (s OctoprintState) Label() string                { return s.info().label }
func (s OctoprintState) Severity() threshold.Severity { return s.info().severity }
func (s OctoprintState) Printing() bool               { return s.info().printing }
func (s OctoprintState) RequiresJob() bool            { return s.info().requiresJob }

// ParseOctoprintState decodes a state text. Unknown texts are an error.
func ParseOctoprintState(text string) (OctoprintState, error) {
	for state, info := range octoprintStates {
		if info.name == text {
			return state, nil
		}
	}
	if state, ok := octoprintAliases[text]; ok {
		return state, nil
	}
	return 0, fmt.Errorf("unknown variant %q", text)
}

// UnmarshalText makes OctoprintState decodable from JSON strings.
func (s *OctoprintState) UnmarshalText(text []byte) error {
	state, err := ParseOctoprintState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// octoprintJobResponse is the subset of GET /api/job used here.
type octoprintJobResponse struct {
	State    *OctoprintState `json:"state"`
	Progress *struct {
		Completion    *float64 `json:"completion"`
		PrintTimeLeft *float64 `json:"printTimeLeft"`
	} `json:"progress"`
}

// Octoprint polls an OctoPrint server. Only API key authentication is supported.
type Octoprint struct {
	client *client
}

// NewOctoprint validates opts and returns the backend.
func NewOctoprint(opts Options) (*Octoprint, error) {
	if err := opts.Validate(false); err != nil {
		return nil, err
	}
	c := newClient("octoprint", opts, logger.NewEnvLogger("[octoprint]"))
	c.forbidden = "Connection forbidden: invalid api key?"
	return &Octoprint{client: c}, nil
}

func (o *Octoprint) Name() string { return "octoprint" }

// Poll fetches GET {url}/api/job.
func (o *Octoprint) Poll(ctx context.Context) (*Reading, error) {
	var raw json.RawMessage
	if err := o.client.getJSON(ctx, "/api/job", &raw); err != nil {
		return nil, err
	}
	return decodeOctoprint(raw)
}

func decodeOctoprint(body []byte) (*Reading, error) {
	var resp octoprintJobResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, decodeError("octoprint", err.Error())
	}
	if resp.State == nil {
		return nil, decodeError("octoprint", "missing field `state`")
	}

	reading := &Reading{Backend: "octoprint", State: *resp.State}

	if resp.Progress != nil && resp.Progress.PrintTimeLeft != nil {
		reading.RemainingTime = int64(*resp.Progress.PrintTimeLeft)
	}

	// OctoPrint sends a null completion until the first progress event of a
	// job; only a missing progress object means there is no job data.
	if resp.State.RequiresJob() {
		if resp.Progress == nil {
			return nil, decodeError("octoprint", fmt.Sprintf("state %s without job progress", *resp.State))
		}
		if resp.Progress.Completion != nil {
			reading.Completion = *resp.Progress.Completion
		}
	}

	return reading, nil
}
