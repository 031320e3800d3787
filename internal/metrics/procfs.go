package metrics

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// CPUTimes holds the cumulative jiffies of one "cpu" line of /proc/stat.
type CPUTimes struct {
	Name    string
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total returns all accounted jiffies. Guest time is already part of user/nice.
func (c CPUTimes) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait + c.IRQ + c.SoftIRQ + c.Steal
}

// Idle time including iowait; the CPU was not busy during either.
func (c CPUTimes) IdleAll() uint64 {
	return c.Idle + c.IOWait
}

// StatSnapshot is the CPU part of one /proc/stat read.
type StatSnapshot struct {
	Aggregate CPUTimes
	Cores     []CPUTimes
}

// ParseStat parses the cpu lines of /proc/stat.
// Fields: cpu user nice system idle iowait irq softirq steal guest guest_nice
func ParseStat(content string) (*StatSnapshot, error) {
	snap := &StatSnapshot{}
	foundAggregate := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu") {
			continue
		}

		fields := strings.Fields(line)
		// iowait sits at index 5 and is required
		if len(fields) < 6 {
			return nil, fmt.Errorf("invalid /proc/stat cpu line: %q", line)
		}

		values := make([]uint64, 8)
		for i := 1; i < len(fields) && i <= len(values); i++ {
			val, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s field %d: %w", fields[0], i, err)
			}
			values[i-1] = val
		}

		times := CPUTimes{
			Name:    fields[0],
			User:    values[0],
			Nice:    values[1],
			System:  values[2],
			Idle:    values[3],
			IOWait:  values[4],
			IRQ:     values[5],
			SoftIRQ: values[6],
			Steal:   values[7],
		}

		if fields[0] == "cpu" {
			snap.Aggregate = times
			foundAggregate = true
			continue
		}
		snap.Cores = append(snap.Cores, times)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning /proc/stat: %w", err)
	}
	if !foundAggregate {
		return nil, fmt.Errorf("no aggregate cpu line in /proc/stat")
	}

	return snap, nil
}

// Meminfo holds the /proc/meminfo fields used for memory usage, in bytes.
type Meminfo struct {
	MemTotal     uint64
	MemAvailable uint64
	Shmem        uint64
}

// ParseMeminfo parses /proc/meminfo. Values in the file are in kB.
func ParseMeminfo(content string) (*Meminfo, error) {
	info := &Meminfo{}
	found := map[string]bool{}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		key := strings.TrimSuffix(parts[0], ":")
		var target *uint64
		switch key {
		case "MemTotal":
			target = &info.MemTotal
		case "MemAvailable":
			target = &info.MemAvailable
		case "Shmem":
			target = &info.Shmem
		default:
			continue
		}

		val, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", key, err)
		}
		*target = val * 1024
		found[key] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning /proc/meminfo: %w", err)
	}

	for _, key := range []string{"MemTotal", "MemAvailable", "Shmem"} {
		if !found[key] {
			return nil, fmt.Errorf("%s not found in /proc/meminfo", key)
		}
	}

	return info, nil
}

// readCounterFile reads a kernel counter file and maps failures onto error codes.
func readCounterFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsPermission(err):
			return "", errors.WrapWithCode(err, errors.ErrPermission,
				fmt.Sprintf("Can't read %s", path),
				"Check the permissions of the file.")
		case os.IsNotExist(err):
			return "", errors.WrapWithCode(err, errors.ErrUnavailable,
				fmt.Sprintf("%s not found", path),
				"This check needs a Linux kernel exposing the file.")
		default:
			return "", errors.WrapWithCode(err, errors.ErrUnavailable,
				fmt.Sprintf("Can't read %s", path), "")
		}
	}
	return string(data), nil
}

func parseError(err error, path string) error {
	return errors.WrapWithCode(err, errors.ErrParse,
		fmt.Sprintf("Can't parse %s", path), "")
}
