package metrics

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
)

// DefaultIODevice is the block device watched when none is given.
const DefaultIODevice = "nvme0n1"

const bytesPerMB = 1024 * 1024

// DiskIOSource measures the throughput of one block device and the iowait
// share of all CPUs over one second.
type DiskIOSource struct {
	Device   string
	ProcRoot string
	Sampler  Sampler
	Log      logger.Logger

	counters func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)
}

type ioSample struct {
	readBytes  uint64
	writeBytes uint64
	cpu        CPUTimes
}

// NewDiskIOSource returns a source backed by gopsutil and /proc/stat.
func NewDiskIOSource(device string) *DiskIOSource {
	if device == "" {
		device = DefaultIODevice
	}
	return &DiskIOSource{
		Device:   device,
		Sampler:  NewSampler(IOSampleInterval),
		Log:      logger.NewEnvLogger("[disk-io]"),
		counters: disk.IOCountersWithContext,
	}
}

// Read samples the device counters and /proc/stat twice.
func (s *DiskIOSource) Read(ctx context.Context) (*IOReading, error) {
	statPath := procPath(s.ProcRoot, "stat")

	first, second, elapsed, err := Sample(ctx, s.Sampler, func(ctx context.Context) (ioSample, error) {
		return s.sample(ctx, statPath)
	})
	if err != nil {
		return nil, err
	}

	reading := &IOReading{
		Device:    s.Device,
		ReadMBps:  rate(first.readBytes, second.readBytes, elapsed) / bytesPerMB,
		WriteMBps: rate(first.writeBytes, second.writeBytes, elapsed) / bytesPerMB,
		IOWaitPercent: share(
			delta(first.cpu.IOWait, second.cpu.IOWait),
			delta(first.cpu.Total(), second.cpu.Total()),
		),
	}

	if s.Log != nil {
		s.Log.Debug("%s over %.3fs: read %s, written %s, iowait %.1f%%", s.Device, elapsed,
			humanize.IBytes(delta(first.readBytes, second.readBytes)),
			humanize.IBytes(delta(first.writeBytes, second.writeBytes)),
			reading.IOWaitPercent)
	}
	return reading, nil
}

func (s *DiskIOSource) sample(ctx context.Context, statPath string) (ioSample, error) {
	stats, err := s.counters(hostContext(ctx, s.ProcRoot), s.Device)
	if err != nil {
		return ioSample{}, errors.WrapWithCode(err, errors.ErrUnavailable, "Can't get disks stats", "")
	}
	dev, ok := stats[s.Device]
	if !ok {
		return ioSample{}, errors.New(errors.ErrUnavailable,
			fmt.Sprintf("Device `%s` not found", s.Device),
			"Use a device name listed in /proc/diskstats, e.g. nvme0n1 or sda.")
	}

	content, err := readCounterFile(statPath)
	if err != nil {
		return ioSample{}, err
	}
	snap, err := ParseStat(content)
	if err != nil {
		return ioSample{}, parseError(err, statPath)
	}

	return ioSample{
		readBytes:  dev.ReadBytes,
		writeBytes: dev.WriteBytes,
		cpu:        snap.Aggregate,
	}, nil
}
