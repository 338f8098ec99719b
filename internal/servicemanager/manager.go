package servicemanager

import (
	"context"
	"fmt"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/supervisor"
)

// DefaultInterval is the probe cadence installed when none is given.
// It must stay comfortably above the monitored service's own status
// refresh period or every cycle would see unchanged output.
const DefaultInterval = 5 * time.Minute

// InstallOptions configures the installed schedule.
type InstallOptions struct {
	// Interval is the cadence between probe cycles. Zero means
	// DefaultInterval.
	Interval time.Duration

	// BinaryPath overrides autodetection of the vpnwatch binary.
	BinaryPath string
}

// ScheduleStatus describes the installed timer.
type ScheduleStatus struct {
	// Installed reports whether both unit files exist.
	Installed bool

	// Active reports whether the timer is currently waiting to fire.
	Active bool

	// Enabled reports whether the timer starts at boot.
	Enabled bool

	// NextElapse is systemd's next trigger time, empty when unknown.
	NextElapse string
}

// Manager installs and controls the probe schedule on the system
// service manager.
type Manager interface {
	// Install writes the service and timer units, reloads systemd, and
	// enables the timer immediately.
	Install(ctx context.Context, opts InstallOptions) error

	// Uninstall stops and disables the timer and removes both units.
	Uninstall(ctx context.Context) error

	// Status returns the installed timer's state.
	Status(ctx context.Context) (ScheduleStatus, error)

	// IsInstalled checks whether both unit files exist.
	IsInstalled() (bool, error)
}

// NewManager returns the schedule manager for this platform.
func NewManager() (Manager, error) {
	return NewManagerWithExecutor(supervisor.NewExecutor())
}

// NewManagerWithExecutor returns a Manager with a custom command
// executor. This is primarily used for testing.
func NewManagerWithExecutor(executor supervisor.CommandExecutor) (Manager, error) {
	platform := DetectPlatform()
	if !IsPlatformSupported(platform) {
		return nil, fmt.Errorf("platform %s is not supported; the schedule requires systemd", platform)
	}

	return newSystemdManager(executor), nil
}
