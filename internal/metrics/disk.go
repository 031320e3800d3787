package metrics

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
)

// DiskSource reports the usage of the filesystem mounted at Path.
type DiskSource struct {
	Path string
	Log  logger.Logger

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskSource returns a source backed by gopsutil.
func NewDiskSource(path string) *DiskSource {
	return &DiskSource{
		Path:       path,
		Log:        logger.NewEnvLogger("[disk-usage]"),
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

// Read fails with UNAVAILABLE unless Path is a mount point.
func (s *DiskSource) Read(ctx context.Context) (*DiskReading, error) {
	if s.Path == "" {
		return nil, errors.New(errors.ErrConfig, "No disk path given", "Pass --path with a mount point, e.g. --path /")
	}
	want := filepath.Clean(s.Path)

	parts, err := s.partitions(ctx, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrUnavailable, "Can't list mounted filesystems", "")
	}

	mounted := false
	for _, p := range parts {
		if filepath.Clean(p.Mountpoint) == want {
			mounted = true
			break
		}
	}
	if !mounted {
		return nil, errors.New(errors.ErrUnavailable,
			fmt.Sprintf("Disk %s not found", s.Path),
			"Use a mount point listed by 'df'.")
	}

	u, err := s.usage(ctx, want)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrUnavailable,
			fmt.Sprintf("Can't get usage of %s", s.Path), "")
	}

	reading := &DiskReading{
		Path:        want,
		UsedBytes:   u.Used,
		TotalBytes:  u.Total,
		UsedPercent: share(u.Used, u.Total),
	}
	if s.Log != nil {
		s.Log.Debug("%s (%s): %s used of %s", want, u.Fstype,
			humanize.IBytes(u.Used), humanize.IBytes(u.Total))
	}
	return reading, nil
}
