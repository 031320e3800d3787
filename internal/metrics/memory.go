package metrics

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/deimosfr/i3-status-info/internal/logger"
)

// MemorySource reads /proc/meminfo.
type MemorySource struct {
	ProcRoot string
	Log      logger.Logger
}

// NewMemorySource returns a source reading the host /proc.
func NewMemorySource() *MemorySource {
	return &MemorySource{Log: logger.NewEnvLogger("[mem]")}
}

// Read returns used memory as MemTotal - MemAvailable - Shmem, clamped at zero.
func (s *MemorySource) Read(ctx context.Context) (*MemoryReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := procPath(s.ProcRoot, "meminfo")
	content, err := readCounterFile(path)
	if err != nil {
		return nil, err
	}
	info, err := ParseMeminfo(content)
	if err != nil {
		return nil, parseError(err, path)
	}

	reading := &MemoryReading{TotalBytes: info.MemTotal}
	if info.MemAvailable+info.Shmem < info.MemTotal {
		reading.UsedBytes = info.MemTotal - info.MemAvailable - info.Shmem
	}
	reading.UsedPercent = share(reading.UsedBytes, reading.TotalBytes)

	if s.Log != nil {
		s.Log.Debug("used %s of %s (available %s, shmem %s)",
			humanize.IBytes(reading.UsedBytes), humanize.IBytes(info.MemTotal),
			humanize.IBytes(info.MemAvailable), humanize.IBytes(info.Shmem))
	}
	return reading, nil
}
