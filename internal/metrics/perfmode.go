package metrics

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// PerfMode is an ACPI platform profile.
type PerfMode string

const (
	PerfBalanced    PerfMode = "balanced"
	PerfPerformance PerfMode = "performance"
	PerfLowPower    PerfMode = "low-power"
)

// Title returns the human name of the profile.
func (m PerfMode) Title() string {
	switch m {
	case PerfBalanced:
		return "Balanced"
	case PerfPerformance:
		return "Performance"
	case PerfLowPower:
		return "Low Power"
	default:
		return string(m)
	}
}

// PerfModeReading holds the active platform profile.
type PerfModeReading struct {
	Mode PerfMode
}

func (PerfModeReading) Kind() Kind { return KindPerfMode }

const platformProfile = "firmware/acpi/platform_profile"

// PerfModeSource reads /sys/firmware/acpi/platform_profile.
type PerfModeSource struct {
	SysRoot string
}

func NewPerfModeSource() *PerfModeSource {
	return &PerfModeSource{}
}

// Read fails with UNAVAILABLE on hardware without platform profiles and with
// PARSE on a profile name it does not know.
func (s *PerfModeSource) Read(ctx context.Context) (*PerfModeReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := s.SysRoot
	if root == "" {
		root = SysRoot()
	}
	path := filepath.Join(root, platformProfile)

	content, err := readCounterFile(path)
	if err != nil {
		return nil, err
	}

	mode := PerfMode(strings.TrimSpace(content))
	switch mode {
	case PerfBalanced, PerfPerformance, PerfLowPower:
		return &PerfModeReading{Mode: mode}, nil
	default:
		return nil, errors.New(errors.ErrParse,
			fmt.Sprintf("Unknown performance mode: `%s`", mode), "")
	}
}
