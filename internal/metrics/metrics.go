// Package metrics reads local system counters and turns them into typed
// readings. Sources that need a rate sample twice through a Sampler.
package metrics

import (
	"context"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/common"
)

// ProcRootEnv overrides the /proc mount point, for containers and tests.
const ProcRootEnv = "I3SI_PROC_ROOT"

// SysRootEnv overrides the /sys mount point.
const SysRootEnv = "I3SI_SYS_ROOT"

// Kind names the check a reading was produced by.
type Kind string

const (
	KindCPU          Kind = "cpu"
	KindMemory       Kind = "mem"
	KindDisk         Kind = "disk-usage"
	KindIO           Kind = "disk-io"
	KindLoad         Kind = "load"
	KindPerfMode     Kind = "perf-mode"
	KindReachability Kind = "reachability"
	KindBattery      Kind = "battery"
)

// Reading is one completed measurement.
type Reading interface {
	Kind() Kind
}

// CPUReading holds busy percentages per logical core and their mean.
type CPUReading struct {
	PerCore []float64
	Average float64
}

func (CPUReading) Kind() Kind { return KindCPU }

// MemoryReading describes RAM usage. Used excludes reclaimable memory and shared memory.
type MemoryReading struct {
	UsedBytes   uint64
	TotalBytes  uint64
	UsedPercent float64
}

func (MemoryReading) Kind() Kind { return KindMemory }

// DiskReading describes the usage of one mounted filesystem.
type DiskReading struct {
	Path        string
	UsedBytes   uint64
	TotalBytes  uint64
	UsedPercent float64
}

func (DiskReading) Kind() Kind { return KindDisk }

// IOReading holds the throughput of one block device and the system iowait share.
type IOReading struct {
	Device        string
	ReadMBps      float64
	WriteMBps     float64
	IOWaitPercent float64
}

func (IOReading) Kind() Kind { return KindIO }

// LoadReading holds the 1, 5 and 15 minute load averages.
type LoadReading struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

func (LoadReading) Kind() Kind { return KindLoad }

// ReachabilityReading tells whether a network target answered.
type ReachabilityReading struct {
	Target    string
	Available bool
}

func (ReachabilityReading) Kind() Kind { return KindReachability }

// ProcRoot returns the /proc mount point, honouring I3SI_PROC_ROOT.
func ProcRoot() string {
	if root := os.Getenv(ProcRootEnv); root != "" {
		return root
	}
	return "/proc"
}

// SysRoot returns the /sys mount point, honouring I3SI_SYS_ROOT.
func SysRoot() string {
	if root := os.Getenv(SysRootEnv); root != "" {
		return root
	}
	return "/sys"
}

func procPath(root, name string) string {
	if root == "" {
		root = ProcRoot()
	}
	return filepath.Join(root, name)
}

// hostContext hands the proc root to gopsutil, which otherwise only looks at
// HOST_PROC. An unset root leaves gopsutil on its own defaults.
func hostContext(ctx context.Context, root string) context.Context {
	if root == "" {
		root = os.Getenv(ProcRootEnv)
	}
	if root == "" {
		return ctx
	}
	env := common.EnvMap{}
	if prev, ok := ctx.Value(common.EnvKey).(common.EnvMap); ok {
		for k, v := range prev {
			env[k] = v
		}
	}
	env[common.HostProcEnvKey] = root
	return context.WithValue(ctx, common.EnvKey, env)
}
