package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// ThresholdFlags holds the -w/-c pair shared by numeric checks.
type ThresholdFlags struct {
	Warning  float64
	Critical float64
}

// AddThresholdFlags registers the -w and -c flags under the given long
// names, e.g. "warning" and "critical".
func AddThresholdFlags(cmd *cobra.Command, flags *ThresholdFlags, warningName, criticalName string, warning, critical float64) {
	cmd.Flags().Float64VarP(&flags.Warning, warningName, "w", warning, "warning threshold")
	cmd.Flags().Float64VarP(&flags.Critical, criticalName, "c", critical, "critical threshold")
}

// PercentBand validates the flags as percentages (warning 1-99, critical
// 2-100).
func (f ThresholdFlags) PercentBand() (threshold.Band, error) {
	return threshold.NewPercentBand(f.Warning, f.Critical)
}

// ReversePercentBand validates the flags as percentages where lower is
// worse (warning 2-100, critical 1-99).
func (f ThresholdFlags) ReversePercentBand() (threshold.Band, error) {
	return threshold.NewReversePercentBand(f.Warning, f.Critical)
}

// Band validates the flags as free bounds.
func (f ThresholdFlags) Band() (threshold.Band, error) {
	return threshold.NewWarningBand(f.Warning, f.Critical)
}

// ParseTimeout parses a timeout flag. A bare number is read as
// milliseconds. Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	if ms, err := strconv.ParseUint(flag, 10, 32); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil || duration < 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 100 (milliseconds), 500ms or 1s.")
	}
	return duration, nil
}
