package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deimosfr/i3-status-info/internal/display"
	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/metrics"
	"github.com/deimosfr/i3-status-info/internal/render"
)

// Command-specific flags
var (
	cpuThresholds  ThresholdFlags
	cpuDisplayFlag string

	memThresholds  ThresholdFlags
	memUnitFlag    string
	memDisplayFlag string

	diskThresholds  ThresholdFlags
	diskPathFlag    string
	diskUnitFlag    string
	diskDisplayFlag string

	ioThresholds    ThresholdFlags
	ioWaitThreshold ThresholdFlags
	ioDeviceFlag    string
	ioUnitFlag      string

	loadThresholds ThresholdFlags

	perfDisplayFlag string

	batteryThresholds ThresholdFlags
)

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "CPU usage",
	Long: `Sample /proc/stat twice, 500ms apart, and show the busy share of every core
or their average. The colour follows the average.

Examples:
  i3-status-info cpu
  i3-status-info cpu --display average -w 70 -c 90`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, cpuCommand)
	},
}

var memCmd = &cobra.Command{
	Use:   "mem",
	Short: "Memory usage",
	Long: `Show used or remaining memory from /proc/meminfo. Shared memory counts as
neither used nor available.

Examples:
  i3-status-info mem
  i3-status-info mem -d used-percentage -u mb`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, memCommand)
	},
}

var diskUsageCmd = &cobra.Command{
	Use:   "disk-usage",
	Short: "Filesystem usage of a mount point",
	Long: `Show used or remaining space of the filesystem mounted at --path.

Examples:
  i3-status-info disk-usage -p /
  i3-status-info disk-usage -p /home -d used-percentage`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, diskUsageCommand)
	},
}

var diskIOCmd = &cobra.Command{
	Use:   "disk-io",
	Short: "Block device throughput and iowait",
	Long: `Sample a block device one second apart and show read and write throughput
plus the system iowait share. Each value is coloured on its own with pango
markup, so enable markup in your bar.

Without --unit every rate picks KB, MB or GB by its size.

Examples:
  i3-status-info disk-io
  i3-status-info disk-io -d sda -u mb -w 50 -c 200`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, diskIOCommand)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load averages",
	Long: `Show the 1, 5 and 15 minute load averages. The colour follows the 1 minute
average.

Examples:
  i3-status-info load -w 4 -c 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, loadCommand)
	},
}

var perfModeCmd = &cobra.Command{
	Use:   "perf-mode",
	Short: "ACPI platform profile",
	Long: `Show the active platform profile (balanced, performance or low-power) as an
icon or as text.

Examples:
  i3-status-info perf-mode
  i3-status-info perf-mode -d text`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, perfModeCommand)
	},
}

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Laptop battery charge",
	Long: `Show the charge of the first battery in /sys/class/power_supply with a gauge
icon. The block is coloured only while discharging; lower charge is worse.

Examples:
  i3-status-info battery
  i3-status-info battery -w 40 -c 15`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, batteryCommand)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate a shell completion script for i3-status-info.

Examples:
  # Bash
  i3-status-info completion bash > /etc/bash_completion.d/i3-status-info

  # Zsh
  i3-status-info completion zsh > "${fpath[1]}/_i3-status-info"

  # Fish
  i3-status-info completion fish > ~/.config/fish/completions/i3-status-info.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	AddThresholdFlags(cpuCmd, &cpuThresholds, "warning", "critical", 60, 80)
	cpuCmd.Flags().StringVarP(&cpuDisplayFlag, "display", "d", string(display.AllCores), "display: all, average")

	AddThresholdFlags(memCmd, &memThresholds, "warning", "critical", 60, 80)
	memCmd.Flags().StringVarP(&memUnitFlag, "unit", "u", "gb", "unit: kb, mb, gb")
	memCmd.Flags().StringVarP(&memDisplayFlag, "display", "d", string(display.Used), "display: used, remaining, used-percentage, remaining-percentage")

	AddThresholdFlags(diskUsageCmd, &diskThresholds, "warning-used-percentage", "critical-used-percentage", 60, 80)
	diskUsageCmd.Flags().StringVarP(&diskPathFlag, "path", "p", "", "mount point to check (required)")
	diskUsageCmd.Flags().StringVarP(&diskUnitFlag, "unit", "u", "gb", "unit: kb, mb, gb")
	diskUsageCmd.Flags().StringVarP(&diskDisplayFlag, "display", "d", string(display.Remaining), "display: used, remaining, used-percentage, remaining-percentage")

	AddThresholdFlags(diskIOCmd, &ioThresholds, "warning-mb", "critical-mb", 10, 100)
	diskIOCmd.Flags().Float64Var(&ioWaitThreshold.Warning, "warning-iowait", 5, "iowait warning threshold (%)")
	diskIOCmd.Flags().Float64Var(&ioWaitThreshold.Critical, "critical-iowait", 10, "iowait critical threshold (%)")
	diskIOCmd.Flags().StringVarP(&ioDeviceFlag, "device", "d", metrics.DefaultIODevice, "block device name as in /proc/diskstats")
	diskIOCmd.Flags().StringVarP(&ioUnitFlag, "unit", "u", "", "unit: kb, mb, gb (default adapts to each rate)")

	AddThresholdFlags(loadCmd, &loadThresholds, "warning", "critical", 4, 8)

	perfModeCmd.Flags().StringVarP(&perfDisplayFlag, "display", "d", string(display.PerfIcons), "display: icons, text")

	AddThresholdFlags(batteryCmd, &batteryThresholds, "warning", "critical", 50, 30)

	for _, c := range []*cobra.Command{memCmd, diskUsageCmd, diskIOCmd} {
		_ = c.RegisterFlagCompletionFunc("unit", fixedCompletion(display.Units...))
	}
	_ = cpuCmd.RegisterFlagCompletionFunc("display", fixedCompletion(string(display.AllCores), string(display.Average)))
	_ = memCmd.RegisterFlagCompletionFunc("display", fixedCompletion(display.SizeStyles...))
	_ = diskUsageCmd.RegisterFlagCompletionFunc("display", fixedCompletion(display.SizeStyles...))
	_ = perfModeCmd.RegisterFlagCompletionFunc("display", fixedCompletion(string(display.PerfIcons), string(display.PerfText)))

	rootCmd.AddCommand(cpuCmd, memCmd, diskUsageCmd, diskIOCmd, loadCmd, perfModeCmd, batteryCmd, completionCmd)
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func cpuCommand(ctx context.Context, s *session) (*render.Output, error) {
	band, err := cpuThresholds.PercentBand()
	if err != nil {
		return nil, err
	}
	style, err := display.ParseCPUStyle(cpuDisplayFlag)
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewCPUSource().Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.CPU(reading, style, band), nil
}

func memCommand(ctx context.Context, s *session) (*render.Output, error) {
	band, err := memThresholds.PercentBand()
	if err != nil {
		return nil, err
	}
	unit, err := display.ParseUnit(memUnitFlag)
	if err != nil {
		return nil, err
	}
	style, err := display.ParseSizeStyle(memDisplayFlag)
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewMemorySource().Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Memory(reading, style, unit, band), nil
}

func diskUsageCommand(ctx context.Context, s *session) (*render.Output, error) {
	band, err := diskThresholds.PercentBand()
	if err != nil {
		return nil, err
	}
	unit, err := display.ParseUnit(diskUnitFlag)
	if err != nil {
		return nil, err
	}
	style, err := display.ParseSizeStyle(diskDisplayFlag)
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewDiskSource(diskPathFlag).Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Disk(reading, style, unit, band), nil
}

func diskIOCommand(ctx context.Context, s *session) (*render.Output, error) {
	throughput, err := ioThresholds.Band()
	if err != nil {
		return nil, err
	}
	iowait, err := ioWaitThreshold.Band()
	if err != nil {
		return nil, err
	}

	var unit *display.Unit
	if ioUnitFlag != "" {
		u, err := display.ParseUnit(ioUnitFlag)
		if err != nil {
			return nil, err
		}
		unit = &u
	}

	reading, err := metrics.NewDiskIOSource(ioDeviceFlag).Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.IO(reading, unit, display.IOBands{Throughput: throughput, IOWait: iowait}), nil
}

func loadCommand(ctx context.Context, s *session) (*render.Output, error) {
	band, err := loadThresholds.Band()
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewLoadSource().Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Load(reading, band), nil
}

func perfModeCommand(ctx context.Context, s *session) (*render.Output, error) {
	style, err := display.ParsePerfStyle(perfDisplayFlag)
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewPerfModeSource().Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.PerfMode(reading, style), nil
}

func batteryCommand(ctx context.Context, s *session) (*render.Output, error) {
	band, err := batteryThresholds.ReversePercentBand()
	if err != nil {
		return nil, err
	}

	reading, err := metrics.NewBatterySource().Read(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Battery(reading, band), nil
}
