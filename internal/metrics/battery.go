package metrics

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// BatteryStatus is the charge state reported by the kernel power supply class.
type BatteryStatus string

const (
	BatteryCharging    BatteryStatus = "Charging"
	BatteryDischarging BatteryStatus = "Discharging"
	BatteryFull        BatteryStatus = "Full"
	BatteryNotCharging BatteryStatus = "Not charging"
	BatteryUnknown     BatteryStatus = "Unknown"
)

// Draining reports whether the battery is, or may be, powering the machine.
func (s BatteryStatus) Draining() bool {
	return s == BatteryDischarging || s == BatteryUnknown
}

// BatteryReading holds the charge level of one battery.
type BatteryReading struct {
	Name     string
	Capacity int
	Status   BatteryStatus
}

func (BatteryReading) Kind() Kind { return KindBattery }

const powerSupplyDir = "class/power_supply"

// BatterySource reads /sys/class/power_supply/BAT*.
type BatterySource struct {
	SysRoot string
}

func NewBatterySource() *BatterySource {
	return &BatterySource{}
}

// Read returns the first battery reporting a non-zero capacity. Some firmware
// lists an empty slot before the real pack, so a zero battery is only used
// when nothing else is present.
func (s *BatterySource) Read(ctx context.Context) (*BatteryReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := s.SysRoot
	if root == "" {
		root = SysRoot()
	}
	dir := filepath.Join(root, powerSupplyDir)
	matches, _ := filepath.Glob(filepath.Join(dir, "BAT*"))
	if len(matches) == 0 {
		return nil, errors.New(errors.ErrUnavailable,
			fmt.Sprintf("No battery found in %s", dir),
			"This check needs a laptop battery exposed by the kernel.")
	}
	sort.Strings(matches)

	var first *BatteryReading
	for _, path := range matches {
		reading, err := readBattery(path)
		if err != nil {
			return nil, err
		}
		if reading.Capacity != 0 {
			return reading, nil
		}
		if first == nil {
			first = reading
		}
	}
	return first, nil
}

func readBattery(path string) (*BatteryReading, error) {
	capacityPath := filepath.Join(path, "capacity")
	content, err := readCounterFile(capacityPath)
	if err != nil {
		return nil, err
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || capacity < 0 {
		return nil, errors.New(errors.ErrParse,
			fmt.Sprintf("Invalid battery capacity in %s: %q", capacityPath, strings.TrimSpace(content)), "")
	}

	status := BatteryUnknown
	if content, err := readCounterFile(filepath.Join(path, "status")); err == nil {
		if v := strings.TrimSpace(content); v != "" {
			status = BatteryStatus(v)
		}
	}

	return &BatteryReading{
		Name:     filepath.Base(path),
		Capacity: min(capacity, 100),
		Status:   status,
	}, nil
}
