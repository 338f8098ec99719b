package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdbus "github.com/coreos/go-systemd/v22/dbus"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// DBus drives systemd directly over the bus, with no systemctl
// subprocess in between.
type DBus struct {
	unit    string
	timeout time.Duration
	conn    *sdbus.Conn
}

// NewDBus connects to the systemd bus and binds to the unit.
func NewDBus(ctx context.Context, unit string, timeout time.Duration) (*DBus, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := sdbus.NewWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd bus; %w", err)
	}

	return &DBus{
		unit:    unit,
		timeout: timeout,
		conn:    conn,
	}, nil
}

// Unit returns the unit name.
func (d *DBus) Unit() string {
	return d.unit
}

// statusProperties are the unit properties rendered into Status output,
// in render order.
var statusProperties = []string{
	"Id",
	"LoadState",
	"ActiveState",
	"SubState",
	"UnitFileState",
	"MainPID",
	"NRestarts",
	"ExecMainStatus",
}

// Status renders selected unit properties in systemctl-show form. Exit
// codes follow systemctl status conventions: 0 active, 3 inactive, 4
// when the unit is not loaded.
func (d *DBus) Status(ctx context.Context) probe.Result {
	descriptor := fmt.Sprintf("systemd status %s (dbus)", d.unit)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	props, err := d.conn.GetUnitPropertiesContext(ctx, d.unit)
	if err != nil {
		return probe.Failure(descriptor, err)
	}

	var b strings.Builder
	for _, name := range statusProperties {
		if v, ok := props[name]; ok {
			fmt.Fprintf(&b, "%s=%v\n", name, v)
		}
	}

	return probe.Result{
		Command: descriptor,
		Code:    statusExitCode(props),
		Stdout:  b.String(),
	}
}

func statusExitCode(props map[string]any) int {
	if load, _ := props["LoadState"].(string); load == "not-found" {
		return 4
	}

	switch active, _ := props["ActiveState"].(string); active {
	case "active", "activating", "reloading":
		return 0
	default:
		return 3
	}
}

// Restart restarts the unit and waits for the queued job to finish.
// Any job result other than "done" is a failed restart.
func (d *DBus) Restart(ctx context.Context) probe.Result {
	descriptor := fmt.Sprintf("systemd restart %s (dbus)", d.unit)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	slog.Debug("restarting unit over dbus", "unit", d.unit)

	done := make(chan string, 1)
	if _, err := d.conn.RestartUnitContext(ctx, d.unit, "replace", done); err != nil {
		return probe.Failure(descriptor, fmt.Errorf("failed to queue restart job; %w", err))
	}

	select {
	case result := <-done:
		if result == "done" {
			return probe.Result{Command: descriptor, Code: 0, Stdout: result}
		}
		return probe.Result{
			Command: descriptor,
			Code:    1,
			Stderr:  fmt.Sprintf("restart job finished with result %q", result),
		}
	case <-ctx.Done():
		return probe.Failure(descriptor, ctx.Err())
	}
}

// Show returns the parsed unit state.
func (d *DBus) Show(ctx context.Context) (UnitState, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	props, err := d.conn.GetUnitPropertiesContext(ctx, d.unit)
	if err != nil {
		return UnitState{}, fmt.Errorf("failed to get unit properties; %w", err)
	}

	var st UnitState
	if v, ok := props["ActiveState"].(string); ok {
		st.ActiveState = v
	}
	if v, ok := props["SubState"].(string); ok {
		st.SubState = v
	}
	if v, ok := props["LoadState"].(string); ok {
		st.LoadState = v
	}
	if v, ok := props["UnitFileState"].(string); ok {
		st.UnitFileState = v
	}
	if v, ok := props["MainPID"].(uint32); ok {
		st.MainPID = int(v)
	}

	return st, nil
}

// Close closes the bus connection.
func (d *DBus) Close() error {
	d.conn.Close()
	return nil
}
