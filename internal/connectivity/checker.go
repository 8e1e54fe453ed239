// Package connectivity answers whether the network is reachable.
package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/filippoints/filippoints-cli/internal/logger"
)

const (
	// DefaultProbeAddress is a public DNS resolver used as the reachability probe
	DefaultProbeAddress = "8.8.8.8:53"

	// DefaultProbeTimeout bounds a single probe
	DefaultProbeTimeout = 1500 * time.Millisecond
)

//go:generate mockgen -destination=mocks/mock_checker.go -package=mocks github.com/filippoints/filippoints-cli/internal/connectivity Checker

// Checker reports network reachability
type Checker interface {
	// IsOnline reports whether the network is reachable. It never returns an
	// error; any probe failure counts as offline.
	IsOnline(ctx context.Context) bool
}

// Dialer opens network connections; *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

type tcpChecker struct {
	dialer  Dialer
	address string
	timeout time.Duration
}

// Option configures the TCP checker
type Option func(*tcpChecker)

// WithDialer overrides the dialer used for probes
func WithDialer(d Dialer) Option {
	return func(c *tcpChecker) {
		c.dialer = d
	}
}

// NewTCPChecker probes reachability by opening a TCP connection to address.
func NewTCPChecker(address string, timeout time.Duration, opts ...Option) Checker {
	if address == "" {
		address = DefaultProbeAddress
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	c := &tcpChecker{
		dialer:  &net.Dialer{},
		address: address,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *tcpChecker) IsOnline(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(probeCtx, "tcp", c.address)
	if err != nil {
		logger.Debugw("Connectivity probe failed", "address", c.address, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}

// Static always reports the same reachability. Used for --offline runs.
type Static bool

// IsOnline returns the fixed value
func (s Static) IsOnline(context.Context) bool {
	return bool(s)
}
