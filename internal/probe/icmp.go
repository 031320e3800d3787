package probe

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/exec"
	"github.com/deimosfr/i3-status-info/internal/logger"
	"github.com/deimosfr/i3-status-info/internal/metrics"
)

// DefaultICMPTimeout is how long to wait for the echo reply.
const DefaultICMPTimeout = 100 * time.Millisecond

// ping needs a little time to start and resolve before its own timer starts.
const pingStartupGrace = time.Second

// ICMP sends one echo request through the system ping binary, which carries
// the raw-socket capability an unprivileged process lacks.
type ICMP struct {
	IP      string
	Timeout time.Duration
	Runner  exec.Runner
	Log     logger.Logger
}

// NewICMP returns an ICMP probe running the local ping.
func NewICMP(ip string, timeout time.Duration) *ICMP {
	if timeout <= 0 {
		timeout = DefaultICMPTimeout
	}
	return &ICMP{
		IP:      ip,
		Timeout: timeout,
		Runner:  exec.LocalRunner{},
		Log:     logger.NewEnvLogger("[icmp-check]"),
	}
}

// Check pings IP once. Exit status 0 means a reply came back, 1 means none
// did. Anything else is a failure of ping itself and is reported.
func (p *ICMP) Check(ctx context.Context) (*metrics.ReachabilityReading, error) {
	ip := net.ParseIP(p.IP)
	if ip == nil {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid IP address %q", p.IP), "Pass an IPv4 or IPv6 address, e.g. --ip 192.168.1.1")
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultICMPTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout+pingStartupGrace)
	defer cancel()

	reading := &metrics.ReachabilityReading{Target: ip.String()}

	res, err := p.Runner.Capture(ctx, "ping", pingArgs(ip, timeout)...)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			p.debug("%s: %s", reading.Target, FailTimeout)
			return reading, nil
		}
		return nil, err
	}

	switch res.ExitCode {
	case 0:
		reading.Available = true
		p.debug("%s: reply received", reading.Target)
	case 1:
		p.debug("%s: no reply within %s", reading.Target, timeout)
	default:
		msg := strings.TrimSpace(string(res.Stderr))
		if msg == "" {
			msg = fmt.Sprintf("ping exited with status %d", res.ExitCode)
		}
		return nil, errors.New(errors.ErrExec, msg, "")
	}
	return reading, nil
}

func pingArgs(ip net.IP, timeout time.Duration) []string {
	args := []string{"-n", "-c", "1", "-W", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64)}
	if ip.To4() == nil {
		args = append([]string{"-6"}, args...)
	}
	return append(args, ip.String())
}

func (p *ICMP) debug(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Debug(format, args...)
	}
}
