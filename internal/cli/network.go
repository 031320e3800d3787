package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deimosfr/i3-status-info/internal/display"
	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/probe"
	"github.com/deimosfr/i3-status-info/internal/render"
)

// ReachabilityFlags holds the texts shown for each outcome.
type ReachabilityFlags struct {
	Available   string
	Unavailable string
}

// AddReachabilityFlags registers -a/--availability-text and
// -u/--unavailability-text.
func AddReachabilityFlags(cmd *cobra.Command, flags *ReachabilityFlags) {
	cmd.Flags().StringVarP(&flags.Available, "availability-text", "a", "up", "text shown when the target answers")
	cmd.Flags().StringVarP(&flags.Unavailable, "unavailability-text", "u", "", "text shown when it does not (default: hide the block)")
}

var (
	tcpHostFlag     string
	tcpPortFlag     int
	tcpSSHAliasFlag string
	tcpSSHConfig    string
	tcpTimeoutFlag  string
	tcpTexts        ReachabilityFlags

	icmpIPFlag      string
	icmpTimeoutFlag string
	icmpTexts       ReachabilityFlags
)

var tcpCheckCmd = &cobra.Command{
	Use:   "tcp-check",
	Short: "TCP port reachability",
	Long: `Try to open a TCP connection and show the availability text when it succeeds.
The unavailability text is shown otherwise; without one the block is hidden.

--ssh-alias takes the host and port from an ssh_config Host entry instead.

Examples:
  i3-status-info tcp-check -o nas.local -p 445
  i3-status-info tcp-check --ssh-alias homelab -a "" -u "homelab down"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, tcpCheckCommand)
	},
}

var icmpCheckCmd = &cobra.Command{
	Use:   "icmp-check",
	Short: "ICMP echo reachability",
	Long: `Send one ICMP echo request with the system ping and show the availability
text when a reply arrives in time.

Examples:
  i3-status-info icmp-check -i 192.168.1.1
  i3-status-info icmp-check -i 10.0.0.1 -t 250 -u offline`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, icmpCheckCommand)
	},
}

func init() {
	tcpCheckCmd.Flags().StringVarP(&tcpHostFlag, "host", "o", "", "host name or address")
	tcpCheckCmd.Flags().IntVarP(&tcpPortFlag, "port", "p", 0, "TCP port")
	tcpCheckCmd.Flags().StringVar(&tcpSSHAliasFlag, "ssh-alias", "", "read host and port from this ssh_config alias")
	tcpCheckCmd.Flags().StringVar(&tcpSSHConfig, "ssh-config", "", "ssh config file (default ~/.ssh/config)")
	tcpCheckCmd.Flags().StringVarP(&tcpTimeoutFlag, "timeout", "t", "", "connection timeout, e.g. 500ms (default 1s)")
	AddReachabilityFlags(tcpCheckCmd, &tcpTexts)
	_ = tcpCheckCmd.RegisterFlagCompletionFunc("ssh-alias", sshAliasCompletion)

	icmpCheckCmd.Flags().StringVarP(&icmpIPFlag, "ip", "i", "", "IPv4 or IPv6 address")
	icmpCheckCmd.Flags().StringVarP(&icmpTimeoutFlag, "timeout-ms", "t", "100", "reply timeout in milliseconds")
	AddReachabilityFlags(icmpCheckCmd, &icmpTexts)

	rootCmd.AddCommand(tcpCheckCmd, icmpCheckCmd)
}

func tcpCheckCommand(ctx context.Context, s *session) (*render.Output, error) {
	timeout, err := ParseTimeout(tcpTimeoutFlag)
	if err != nil {
		return nil, err
	}

	host, port, err := tcpTarget()
	if err != nil {
		return nil, err
	}

	reading, err := probe.NewTCP(host, port, timeout).Check(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Reachability(reading, tcpTexts.Available, tcpTexts.Unavailable), nil
}

// sshAliasCompletion offers the Host entries of the ssh config in use.
func sshAliasCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	aliases, err := probe.ListSSHAliases(tcpSSHConfig)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return aliases, cobra.ShellCompDirectiveNoFileComp
}

// tcpTarget resolves the host and port, from the ssh alias when given.
// Explicit --host and --port still win over the alias entry.
func tcpTarget() (string, int, error) {
	if tcpSSHAliasFlag == "" {
		return tcpHostFlag, tcpPortFlag, nil
	}

	entry, err := probe.ResolveSSHAlias(tcpSSHConfig, tcpSSHAliasFlag)
	if err != nil {
		return "", 0, err
	}

	host, port := entry.Hostname, entry.Port
	if tcpHostFlag != "" {
		host = tcpHostFlag
	}
	if tcpPortFlag != 0 {
		port = tcpPortFlag
	}
	return host, port, nil
}

func icmpCheckCommand(ctx context.Context, s *session) (*render.Output, error) {
	timeout, err := ParseTimeout(icmpTimeoutFlag)
	if err != nil {
		return nil, err
	}
	if icmpIPFlag == "" {
		return nil, errors.New(errors.ErrConfig, "No IP provided",
			fmt.Sprintf("Pass --ip, e.g. %s icmp-check --ip 192.168.1.1", rootCmd.Name()))
	}

	reading, err := probe.NewICMP(icmpIPFlag, timeout).Check(ctx)
	if err != nil {
		return nil, err
	}
	s.debugReading(reading)
	return display.Reachability(reading, icmpTexts.Available, icmpTexts.Unavailable), nil
}
