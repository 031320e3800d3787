package metrics

import (
	"context"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
)

// CPUSource computes per-core busy percentages from two /proc/stat samples.
type CPUSource struct {
	ProcRoot string
	Sampler  Sampler
	Log      logger.Logger
}

// NewCPUSource returns a source sampling 500ms apart.
func NewCPUSource() *CPUSource {
	return &CPUSource{
		Sampler: NewSampler(CPUSampleInterval),
		Log:     logger.NewEnvLogger("[cpu]"),
	}
}

// Read samples /proc/stat twice and returns the busy share of each core.
func (s *CPUSource) Read(ctx context.Context) (*CPUReading, error) {
	path := procPath(s.ProcRoot, "stat")

	first, second, elapsed, err := Sample(ctx, s.Sampler, func(context.Context) (*StatSnapshot, error) {
		content, err := readCounterFile(path)
		if err != nil {
			return nil, err
		}
		snap, err := ParseStat(content)
		if err != nil {
			return nil, parseError(err, path)
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	if len(first.Cores) != len(second.Cores) {
		return nil, errors.New(errors.ErrParse,
			"CPU count changed between samples", "Run the check again.")
	}

	reading := &CPUReading{PerCore: make([]float64, len(second.Cores))}
	if len(second.Cores) == 0 {
		// single-line /proc/stat (some containers): report the aggregate as one core
		reading.PerCore = []float64{busyPercent(first.Aggregate, second.Aggregate)}
	} else {
		for i := range second.Cores {
			reading.PerCore[i] = busyPercent(first.Cores[i], second.Cores[i])
		}
	}

	var sum float64
	for _, v := range reading.PerCore {
		sum += v
	}
	reading.Average = sum / float64(len(reading.PerCore))

	if s.Log != nil {
		s.Log.Debug("%d cores sampled over %.3fs, average %.1f%%", len(reading.PerCore), elapsed, reading.Average)
	}
	return reading, nil
}

func busyPercent(first, second CPUTimes) float64 {
	total := delta(first.Total(), second.Total())
	idle := delta(first.IdleAll(), second.IdleAll())
	if idle > total {
		idle = total
	}
	return share(total-idle, total)
}
