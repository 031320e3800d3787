package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
	"github.com/deimosfr/i3-status-info/internal/metrics"
)

// DefaultTCPTimeout bounds a TCP connection attempt.
const DefaultTCPTimeout = time.Second

// TCP checks that a TCP port accepts connections.
type TCP struct {
	Host    string
	Port    int
	Timeout time.Duration
	Log     logger.Logger

	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewTCP returns a TCP probe using the system dialer.
func NewTCP(host string, port int, timeout time.Duration) *TCP {
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}
	d := &net.Dialer{}
	return &TCP{
		Host:    host,
		Port:    port,
		Timeout: timeout,
		Log:     logger.NewEnvLogger("[tcp-check]"),
		dial:    d.DialContext,
	}
}

// Address returns host:port.
func (p *TCP) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Check connects once and closes the connection straight away.
func (p *TCP) Check(ctx context.Context) (*metrics.ReachabilityReading, error) {
	if p.Host == "" {
		return nil, errors.New(errors.ErrConfig, "No host given", "Pass --host or --ssh-alias.")
	}
	if p.Port < 1 || p.Port > 65535 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid port %d", p.Port), "Ports range from 1 to 65535.")
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reading := &metrics.ReachabilityReading{Target: p.Address()}

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", reading.Target)
	if err != nil {
		p.debug("%s: %s (%v)", reading.Target, categorize(err), err)
		return reading, nil
	}
	_ = conn.Close()

	reading.Available = true
	p.debug("%s: connected in %s", reading.Target, time.Since(start).Round(time.Microsecond))
	return reading, nil
}

func (p *TCP) debug(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Debug(format, args...)
	}
}
