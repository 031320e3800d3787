// Package cli implements the i3-status-info command-line interface.
//
// Each check is a Cobra command that builds a source from its flags, reads
// one value and hands it to the display package. Commands never print on
// their own: runCheck is the single place that turns a result or an error
// into status bar output.
//
// # Command Structure
//
//	i3-status-info cpu             - CPU usage, per core or averaged
//	i3-status-info mem             - Memory usage
//	i3-status-info disk-usage      - Filesystem usage of a mount point
//	i3-status-info disk-io         - Block device throughput and iowait
//	i3-status-info load            - Load averages
//	i3-status-info perf-mode       - ACPI platform profile
//	i3-status-info tcp-check       - TCP port reachability
//	i3-status-info icmp-check      - ICMP echo reachability
//	i3-status-info octoprint       - OctoPrint job status
//	i3-status-info prusa-link      - PrusaLink job status
//	i3-status-info config [show|init]
//
// # Outcomes
//
// A check ends in one of three ways:
//
//  1. A value: rendered in the selected output protocol, exit 0.
//  2. A suppressed failure (the service is simply not there): nothing is
//     printed, exit 0, so the block disappears from the bar.
//  3. A reported failure: the renderer prints the error where its protocol
//     expects it, exit 1.
//
// # Flag Handling
//
// Global flags (--output, --config, --debug) are defined on the root
// command. Check flags keep the short forms status bar configs already use,
// such as -w/-c for thresholds.
package cli
