// Package mgmt speaks the line-oriented management protocol of the
// monitored service.
package mgmt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// Options configures a management Client.
type Options struct {
	Host             string
	Port             int
	StatusCommand    string
	LoadStatsCommand string
	Timeout          time.Duration
}

// Client queries a local management endpoint. The protocol is one
// literal command word per connection: dial, send the word, read until
// the server closes the connection or the deadline passes. Responses
// are opaque byte blobs; the client never interprets them.
type Client struct {
	opts Options
}

// NewClient creates a Client for the given endpoint.
func NewClient(opts Options) *Client {
	return &Client{opts: opts}
}

// Addr returns the endpoint address in host:port form.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))
}

// QueryStatus requests the service's status output.
func (c *Client) QueryStatus(ctx context.Context) probe.Result {
	return c.Query(ctx, c.opts.StatusCommand)
}

// QueryLoadStats requests the service's load statistics.
func (c *Client) QueryLoadStats(ctx context.Context) probe.Result {
	return c.Query(ctx, c.opts.LoadStatsCommand)
}

// Query sends a single command word and returns everything the server
// wrote back. Bytes received before a deadline expiry are the response;
// the deadline is a terminator for servers that hold the connection
// open. An error with zero bytes received is a failed probe.
func (c *Client) Query(ctx context.Context, command string) probe.Result {
	descriptor := fmt.Sprintf("management %q %s", command, c.Addr())

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	slog.Debug("querying management endpoint", "command", command, "addr", c.Addr())

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr())
	if err != nil {
		slog.Debug("management endpoint unreachable", "addr", c.Addr(), "error", err)
		return probe.Failure(descriptor, fmt.Errorf("failed to connect; %w", err))
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return probe.Failure(descriptor, fmt.Errorf("failed to send command; %w", err))
	}

	output, err := io.ReadAll(conn)
	if err != nil && len(output) == 0 {
		return probe.Failure(descriptor, fmt.Errorf("failed to read response; %w", err))
	}

	return probe.Result{
		Command: descriptor,
		Code:    0,
		Stdout:  string(output),
	}
}
