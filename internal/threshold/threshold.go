// Package threshold maps numeric readings onto severities using ordered
// warning / danger / critical bounds.
package threshold

import (
	"fmt"
	"math"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// Band holds the three cut points of a classification.
//
// For a regular band (higher is worse) Warning <= Danger <= Critical.
// For a reverse band (lower is worse) Warning >= Danger >= Critical.
type Band struct {
	Warning  float64
	Danger   float64
	Critical float64
}

// NewBand validates and builds a regular band.
func NewBand(warning, danger, critical float64) (Band, error) {
	b := Band{Warning: warning, Danger: danger, Critical: critical}
	if anyNaN(warning, danger, critical) {
		return Band{}, errors.New(errors.ErrConfig, "Thresholds must be numbers", "")
	}
	if warning > danger || danger > critical {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Warning threshold (%g) can't be greater than critical threshold (%g)", warning, critical),
			"Thresholds must satisfy warning <= danger <= critical.")
	}
	return b, nil
}

// NewReverseBand validates and builds a band where lower values are worse.
func NewReverseBand(warning, danger, critical float64) (Band, error) {
	b := Band{Warning: warning, Danger: danger, Critical: critical}
	if anyNaN(warning, danger, critical) {
		return Band{}, errors.New(errors.ErrConfig, "Thresholds must be numbers", "")
	}
	if warning < danger || danger < critical {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Warning threshold (%g) can't be lower than critical threshold (%g)", warning, critical),
			"When lower is worse, warning >= danger >= critical.")
	}
	return b, nil
}

// NewWarningBand builds a two-bound band: danger collapses onto warning, so
// anything at or above warning is a Warning.
func NewWarningBand(warning, critical float64) (Band, error) {
	return NewBand(warning, warning, critical)
}

// NewPercentBand builds the band used by percentage checks (cpu, mem, disk).
func NewPercentBand(warning, critical float64) (Band, error) {
	if warning < 1 || warning > 99 {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Warning threshold should be set between 1 and 99 (got %g)", warning), "")
	}
	if critical < 2 || critical > 100 {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Critical threshold should be set between 2 and 100 (got %g)", critical), "")
	}
	return NewWarningBand(warning, critical)
}

// NewReversePercentBand builds the band of a percentage where lower is worse,
// e.g. battery charge. Warning is 2-100, critical 1-99 and not above warning.
func NewReversePercentBand(warning, critical float64) (Band, error) {
	if warning < 2 || warning > 100 {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Warning threshold should be set between 2 and 100 (got %g)", warning), "")
	}
	if critical < 1 || critical > 99 {
		return Band{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Critical threshold should be set between 1 and 99 (got %g)", critical), "")
	}
	return NewReverseBand(warning, warning, critical)
}

// Classify maps value onto a severity where higher values are worse.
// Comparison runs from the critical bound down, so collapsed bounds resolve
// to the worst level.
func Classify(b Band, value float64) Severity {
	switch {
	case value >= b.Critical:
		return Critical
	case value >= b.Danger:
		return Warning
	case value >= b.Warning:
		return Info
	default:
		return Idle
	}
}

// ClassifyReverse maps value onto a severity where lower values are worse,
// e.g. battery charge.
func ClassifyReverse(b Band, value float64) Severity {
	switch {
	case value <= b.Critical:
		return Critical
	case value <= b.Danger:
		return Warning
	case value <= b.Warning:
		return Info
	default:
		return Idle
	}
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
