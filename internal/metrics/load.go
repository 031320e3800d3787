package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v4/load"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// LoadSource reads the system load averages from /proc/loadavg, honouring
// I3SI_PROC_ROOT.
type LoadSource struct {
	avg func(ctx context.Context) (*load.AvgStat, error)
}

// NewLoadSource returns a source backed by gopsutil.
func NewLoadSource() *LoadSource {
	return &LoadSource{avg: load.AvgWithContext}
}

func (s *LoadSource) Read(ctx context.Context) (*LoadReading, error) {
	v, err := s.avg(hostContext(ctx, ""))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrUnavailable, "Can't read load averages", "")
	}
	return &LoadReading{Load1: v.Load1, Load5: v.Load5, Load15: v.Load15}, nil
}
