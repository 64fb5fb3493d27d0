package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const defaultBridgeAddr = "127.0.0.1:47864"

// Endpoint describes where the shell listens for frontend connections.
type Endpoint struct {
	Network string
	Address string
}

// DefaultEndpoint resolves the listening endpoint. An explicit address wins
// over BUILDPCBS_BRIDGE_ADDR, which wins over the loopback default.
func DefaultEndpoint(addr string) Endpoint {
	if addr = strings.TrimSpace(addr); addr != "" {
		return Endpoint{Network: "tcp", Address: addr}
	}
	if env := strings.TrimSpace(os.Getenv("BUILDPCBS_BRIDGE_ADDR")); env != "" {
		return Endpoint{Network: "tcp", Address: env}
	}
	return Endpoint{Network: "tcp", Address: defaultBridgeAddr}
}

// Listen binds to the configured endpoint.
func (e Endpoint) Listen() (net.Listener, error) {
	return net.Listen(e.Network, e.Address)
}

// DialContext establishes a client connection with sensible timeouts.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext(ctx, e.Network, e.Address)
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}
