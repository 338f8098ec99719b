// Package supervisor drives the process supervisor that owns the
// monitored unit.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// Driver names accepted by New.
const (
	DriverAuto      = "auto"
	DriverSystemctl = "systemctl"
	DriverDBus      = "dbus"
)

// Supervisor is the capability the decision engine uses to inspect and
// restart the monitored unit.
type Supervisor interface {
	// Unit returns the unit name the supervisor is bound to.
	Unit() string

	// Status captures the supervisor's view of the unit as an opaque
	// command result for diagnostics.
	Status(ctx context.Context) probe.Result

	// Restart restarts the unit. The result's Code becomes the process
	// exit code after remediation.
	Restart(ctx context.Context) probe.Result

	// Show returns the parsed unit state for operator summaries.
	Show(ctx context.Context) (UnitState, error)

	// Close releases any resources held by the driver.
	Close() error
}

// UnitState is the parsed supervisor view of a unit.
type UnitState struct {
	ActiveState   string
	SubState      string
	LoadState     string
	UnitFileState string
	MainPID       int
}

// Running reports whether the unit is active or on its way up.
func (s UnitState) Running() bool {
	return s.ActiveState == "active" || s.ActiveState == "activating"
}

// New selects a driver for the configured service manager. DriverAuto
// prefers the system bus and falls back to the systemctl binary when
// the bus is unavailable.
func New(ctx context.Context, unit, driver string, timeout time.Duration) (Supervisor, error) {
	switch driver {
	case DriverSystemctl:
		return NewSystemctl(unit, timeout), nil
	case DriverDBus:
		return NewDBus(ctx, unit, timeout)
	case DriverAuto:
		s, err := NewDBus(ctx, unit, timeout)
		if err != nil {
			slog.Debug("systemd bus unavailable, falling back to systemctl", "error", err)
			return NewSystemctl(unit, timeout), nil
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown service manager %q", driver)
	}
}
