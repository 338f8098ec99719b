package servicemanager

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/supervisor"
)

const (
	serviceUnitName = "vpnwatch.service"
	timerUnitName   = "vpnwatch.timer"
)

// serviceUnitTemplate renders the oneshot unit the timer fires. The
// probe owns its own timeouts, so no watchdog settings are needed.
const serviceUnitTemplate = `[Unit]
Description=vpnwatch probe cycle
After=network-online.target
Wants=network-online.target

[Service]
Type=oneshot
ExecStart={{.BinaryPath}} probe
`

// timerUnitTemplate renders the schedule. OnUnitActiveSec counts from
// the previous completion, so a slow cycle never overlaps the next.
const timerUnitTemplate = `[Unit]
Description=Periodic vpnwatch probe

[Timer]
OnBootSec={{.Interval}}
OnUnitActiveSec={{.Interval}}
AccuracySec=1m

[Install]
WantedBy=timers.target
`

// systemdManager implements Manager with system-level systemd units.
type systemdManager struct {
	executor supervisor.CommandExecutor
	unitDir  string
}

// newSystemdManager creates a manager targeting /etc/systemd/system.
func newSystemdManager(executor supervisor.CommandExecutor) *systemdManager {
	return &systemdManager{
		executor: executor,
		unitDir:  "/etc/systemd/system",
	}
}

// renderUnits produces the service and timer unit file contents.
func renderUnits(opts InstallOptions) (service, timer string, err error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BinaryPath == "" {
		opts.BinaryPath = BinaryPath()
	}

	service, err = renderTemplate("service", serviceUnitTemplate, struct{ BinaryPath string }{opts.BinaryPath})
	if err != nil {
		return "", "", err
	}

	timer, err = renderTemplate("timer", timerUnitTemplate, struct{ Interval string }{formatInterval(opts.Interval)})
	if err != nil {
		return "", "", err
	}

	return service, timer, nil
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s unit template; %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s unit template; %w", name, err)
	}

	return buf.String(), nil
}

// formatInterval renders a duration the way systemd time spans are
// written, without zero-valued components.
func formatInterval(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%ds", s)
	}

	return b.String()
}

// Install writes both unit files, reloads systemd, and enables the
// timer immediately. Writing under /etc requires root; the permission
// error surfaces as-is.
func (m *systemdManager) Install(ctx context.Context, opts InstallOptions) error {
	service, timer, err := renderUnits(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.unitDir, 0o755); err != nil {
		return fmt.Errorf("failed to create unit directory; %w", err)
	}

	servicePath := filepath.Join(m.unitDir, serviceUnitName)
	if err := os.WriteFile(servicePath, []byte(service), 0o644); err != nil {
		return fmt.Errorf("failed to write service unit; %w", err)
	}

	timerPath := filepath.Join(m.unitDir, timerUnitName)
	if err := os.WriteFile(timerPath, []byte(timer), 0o644); err != nil {
		return fmt.Errorf("failed to write timer unit; %w", err)
	}

	slog.Info("installed schedule units", "service", servicePath, "timer", timerPath)

	if err := m.systemctl(ctx, "daemon-reload"); err != nil {
		return err
	}

	return m.systemctl(ctx, "enable", "--now", timerUnitName)
}

// Uninstall stops and disables the timer and removes both unit files.
// Stop and disable failures are ignored so a half-installed schedule
// can still be removed.
func (m *systemdManager) Uninstall(ctx context.Context) error {
	_, _, _, _ = m.executor.Run(ctx, "systemctl", "disable", "--now", timerUnitName)
	_, _, _, _ = m.executor.Run(ctx, "systemctl", "stop", serviceUnitName)

	for _, name := range []string{timerUnitName, serviceUnitName} {
		path := filepath.Join(m.unitDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove unit file; %w", err)
		}
	}

	slog.Info("removed schedule units", "dir", m.unitDir)

	return m.systemctl(ctx, "daemon-reload")
}

// Status returns the installed timer's state.
func (m *systemdManager) Status(ctx context.Context) (ScheduleStatus, error) {
	var status ScheduleStatus

	installed, err := m.IsInstalled()
	if err != nil {
		return status, err
	}
	status.Installed = installed
	if !installed {
		return status, nil
	}

	stdout, stderr, code, err := m.executor.Run(ctx, "systemctl", "show", timerUnitName,
		"--property=ActiveState,UnitFileState,NextElapseUSecRealtime")
	if err != nil {
		return status, fmt.Errorf("failed to query timer state; %w", err)
	}
	if code != 0 {
		return status, fmt.Errorf("systemctl show exited %d; %s", code, strings.TrimSpace(stderr))
	}

	parseTimerShow(stdout, &status)
	return status, nil
}

// IsInstalled checks whether both unit files exist.
func (m *systemdManager) IsInstalled() (bool, error) {
	for _, name := range []string{serviceUnitName, timerUnitName} {
		_, err := os.Stat(filepath.Join(m.unitDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// systemctl runs one systemctl verb and folds a nonzero exit into the
// returned error.
func (m *systemdManager) systemctl(ctx context.Context, args ...string) error {
	_, stderr, code, err := m.executor.Run(ctx, "systemctl", args...)
	if err != nil {
		return fmt.Errorf("failed to run systemctl %s; %w", strings.Join(args, " "), err)
	}
	if code != 0 {
		return fmt.Errorf("systemctl %s exited %d; %s", strings.Join(args, " "), code, strings.TrimSpace(stderr))
	}
	return nil
}

// parseTimerShow fills status from systemctl show key=value output.
func parseTimerShow(output string, status *ScheduleStatus) {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(parts) != 2 {
			continue
		}

		switch parts[0] {
		case "ActiveState":
			status.Active = parts[1] == "active"
		case "UnitFileState":
			status.Enabled = parts[1] == "enabled" || parts[1] == "enabled-runtime"
		case "NextElapseUSecRealtime":
			if v := parts[1]; v != "" && v != "n/a" && v != "0" {
				status.NextElapse = v
			}
		}
	}
}
