// Package netprobe answers the reachability question the re-record
// override asks: is the network up enough to record fresh
// interactions?
package netprobe

import (
	"log/slog"
	"net"
	"time"
)

// DefaultTimeout bounds how long a probe waits before declaring the
// network unreachable.
const DefaultTimeout = 2 * time.Second

// Dialer probes reachability by opening and immediately closing a TCP
// connection to a fixed address.
type Dialer struct {
	// Address is the host:port the probe dials.
	Address string

	// Timeout bounds the dial. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives probe outcomes. Nil discards.
	Logger *slog.Logger
}

// NewDialer returns a Dialer probing the given host:port address.
func NewDialer(address string) *Dialer {
	return &Dialer{Address: address}
}

// Available reports whether the probe address accepted a TCP
// connection within the timeout. An empty address always reports
// unreachable.
func (d *Dialer) Available() bool {
	if d.Address == "" {
		return false
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	conn, err := net.DialTimeout("tcp", d.Address, timeout)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Debug("network probe failed", "address", d.Address, "error", err)
		}
		return false
	}
	conn.Close()
	return true
}
