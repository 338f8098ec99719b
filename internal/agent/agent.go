// Package agent assembles the probe cycle's working parts from
// configuration and runs one decision cycle.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/alert"
	"github.com/leefowlercu/vpnwatch/internal/config"
	"github.com/leefowlercu/vpnwatch/internal/engine"
	"github.com/leefowlercu/vpnwatch/internal/logbook"
	"github.com/leefowlercu/vpnwatch/internal/metrics"
	"github.com/leefowlercu/vpnwatch/internal/mgmt"
	"github.com/leefowlercu/vpnwatch/internal/state"
	"github.com/leefowlercu/vpnwatch/internal/supervisor"
	"github.com/leefowlercu/vpnwatch/internal/version"
)

// Agent runs configured probe cycles. Each Run builds its capabilities
// fresh; nothing is held open between cycles because the process only
// lives for one.
type Agent struct {
	cfg *config.Config

	// newSupervisor is swappable in tests so cycles run without a
	// systemd instance.
	newSupervisor func(ctx context.Context, unit, driver string, timeout time.Duration) (supervisor.Supervisor, error)
}

// New creates an Agent for a validated configuration.
func New(cfg *config.Config) *Agent {
	return &Agent{
		cfg:           cfg,
		newSupervisor: supervisor.New,
	}
}

// Run executes one decision cycle and exports metrics when configured.
// The returned Outcome carries the process exit code for the cycle;
// the error covers wiring and durable-state failures only.
func (a *Agent) Run(ctx context.Context) (*engine.Outcome, error) {
	cfg := a.cfg
	timeout := cfg.Monitor.Timeout()

	prober := mgmt.NewClient(mgmt.Options{
		Host:             cfg.Monitor.Host,
		Port:             cfg.Monitor.Port,
		StatusCommand:    cfg.Monitor.StatusCommand,
		LoadStatsCommand: cfg.Monitor.LoadStatsCommand,
		Timeout:          timeout,
	})

	sup, err := a.newSupervisor(ctx, cfg.Service.Unit, cfg.Service.Manager, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service supervisor; %w", err)
	}
	defer func() {
		if err := sup.Close(); err != nil {
			slog.Debug("failed to close supervisor", "error", err)
		}
	}()

	store := state.NewStore(config.ExpandPath(cfg.State.Path))
	recorder := logbook.New(config.ExpandPath(cfg.Logbook.Path))

	var alerter engine.Alerter
	if cfg.Alerts.Enabled {
		alerter = alert.New(alert.Options{
			Enabled:  true,
			From:     cfg.Alerts.From,
			To:       cfg.Alerts.To,
			Host:     cfg.Alerts.SMTP.Host,
			Port:     cfg.Alerts.SMTP.Port,
			Security: cfg.Alerts.SMTP.Security,
			Username: cfg.Alerts.SMTP.Username,
			Password: cfg.Alerts.SMTP.ResolvePassword(),
			Timeout:  timeout,
		})
	}

	outcome, err := engine.New(prober, sup, store, recorder, alerter).Run(ctx)
	if err != nil {
		return nil, err
	}

	a.exportMetrics(outcome)

	return outcome, nil
}

// exportMetrics writes the cycle's series for the node_exporter
// textfile collector. Export failures are logged, never fatal; the
// cycle's outcome is already durable by the time this runs.
func (a *Agent) exportMetrics(out *engine.Outcome) {
	dir := config.ExpandPath(a.cfg.Metrics.TextfileDir)
	if dir == "" {
		return
	}

	metrics.RecordCycle(out.State, out.Started, out.Duration, out.ExitCode, out.AlertSent)
	metrics.SetBuildInfo(version.Get().Version)

	if err := metrics.WriteTextfile(dir); err != nil {
		slog.Warn("failed to write metrics textfile", "dir", dir, "error", err)
	}
}
