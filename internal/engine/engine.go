// Package engine implements the decision procedure at the core of the
// agent: one probe cycle that ends in baseline establishment, a
// healthy-change confirmation, or a restart of the monitored service.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/leefowlercu/vpnwatch/internal/alert"
	"github.com/leefowlercu/vpnwatch/internal/diag"
	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// Terminal and intermediate cycle states.
const (
	StateProbing     = "probing"
	StateBaselined   = "baselined"
	StateHealthy     = "healthy"
	StateRemediating = "remediating"
	StateRemediated  = "remediated"
)

// Cycle state-machine events.
const (
	eventNoBaseline = "no_baseline"
	eventChanged    = "changed"
	eventUnchanged  = "unchanged"
	eventRemediated = "remediated"
)

// StatusProber issues the opaque management queries against the
// monitored service.
type StatusProber interface {
	QueryStatus(ctx context.Context) probe.Result
	QueryLoadStats(ctx context.Context) probe.Result
}

// Supervisor inspects and restarts the monitored unit.
type Supervisor interface {
	Unit() string
	Status(ctx context.Context) probe.Result
	Restart(ctx context.Context) probe.Result
}

// BaselineStore persists the last observed fingerprint.
type BaselineStore interface {
	Read() (probe.Fingerprint, bool)
	Write(fp probe.Fingerprint) error
}

// Recorder appends cycle outcomes to the durable monitor log.
type Recorder interface {
	Success(ts time.Time, fp probe.Fingerprint) error
	Append(text string) error
}

// Alerter dispatches the best-effort operator notification.
type Alerter interface {
	Notify(ctx context.Context, n alert.Notification) bool
}

// Outcome is the terminal result of one decision cycle.
type Outcome struct {
	CycleID     string
	State       string
	Fingerprint probe.Fingerprint
	ExitCode    int
	AlertSent   bool
	Started     time.Time
	Duration    time.Duration
}

// Engine runs one decision cycle against the injected capabilities.
type Engine struct {
	prober     StatusProber
	supervisor Supervisor
	store      BaselineStore
	recorder   Recorder
	alerter    Alerter

	hostname string
	now      func() time.Time
	snapshot func(ctx context.Context) string
}

// New creates an Engine wired to the given capabilities. alerter may
// be nil when alerting is not configured.
func New(prober StatusProber, supervisor Supervisor, store BaselineStore, recorder Recorder, alerter Alerter) *Engine {
	hostname, _ := os.Hostname()
	return &Engine{
		prober:     prober,
		supervisor: supervisor,
		store:      store,
		recorder:   recorder,
		alerter:    alerter,
		hostname:   hostname,
		now:        time.Now,
		snapshot:   diag.Snapshot,
	}
}

// Run executes one decision cycle and returns its terminal outcome.
// External probe and supervisor failures fold into the cycle as
// captured results; the returned error covers only durable-state
// failures (baseline write, monitor log append) and nothing else.
func (e *Engine) Run(ctx context.Context) (*Outcome, error) {
	started := e.now()
	cycleID := uuid.NewString()
	machine := e.newMachine(cycleID)

	slog.Info("probe cycle started", "cycle", cycleID, "unit", e.supervisor.Unit())

	status := e.prober.QueryStatus(ctx)
	current := probe.Digest(status.Stdout)

	out := &Outcome{CycleID: cycleID, Started: started, Fingerprint: current}

	last, ok := e.store.Read()
	switch {
	case !ok:
		if err := machine.Event(ctx, eventNoBaseline); err != nil {
			return nil, fmt.Errorf("failed to advance cycle state; %w", err)
		}
		if err := e.store.Write(current); err != nil {
			return nil, fmt.Errorf("failed to persist baseline; %w", err)
		}
		slog.Info("baseline established", "cycle", cycleID, "md5", current)

	case current != last:
		if err := machine.Event(ctx, eventChanged); err != nil {
			return nil, fmt.Errorf("failed to advance cycle state; %w", err)
		}
		if err := e.store.Write(current); err != nil {
			return nil, fmt.Errorf("failed to persist fingerprint; %w", err)
		}
		if err := e.recorder.Success(e.now(), current); err != nil {
			return nil, fmt.Errorf("failed to record healthy change; %w", err)
		}
		slog.Info("status output changed", "cycle", cycleID, "md5", current)

	default:
		if err := machine.Event(ctx, eventUnchanged); err != nil {
			return nil, fmt.Errorf("failed to advance cycle state; %w", err)
		}
		code, alerted, err := e.remediate(ctx, machine, cycleID, current, status)
		if err != nil {
			return nil, err
		}
		out.ExitCode = code
		out.AlertSent = alerted
	}

	out.State = machine.Current()
	out.Duration = e.now().Sub(started)

	return out, nil
}

// remediate handles the unchanged-fingerprint branch: capture
// diagnostics, restart the unit, append one diagnostic block, send the
// alert, and re-baseline to the fingerprint that triggered it. A
// service still stuck after the restart re-triggers only after one
// more unchanged cycle.
func (e *Engine) remediate(ctx context.Context, machine *fsm.FSM, cycleID string, fp probe.Fingerprint, status probe.Result) (int, bool, error) {
	slog.Warn("status output unchanged; restarting service",
		"cycle", cycleID,
		"unit", e.supervisor.Unit(),
		"md5", fp,
	)

	ts := e.now()
	svcStatus := e.supervisor.Status(ctx)
	loadStats := e.prober.QueryLoadStats(ctx)

	restart := e.supervisor.Restart(ctx)

	report := diag.Report{
		Timestamp:   ts,
		Fingerprint: fp,
		Sections:    []probe.Result{svcStatus, loadStats, status},
		Host:        e.snapshot(ctx),
		Restart:     restart,
	}
	record := report.Render()

	if err := e.recorder.Append(record); err != nil {
		return 0, false, fmt.Errorf("failed to record diagnostics; %w", err)
	}

	alerted := false
	if e.alerter != nil {
		alerted = e.alerter.Notify(ctx, alert.Notification{
			Unit:        e.supervisor.Unit(),
			Hostname:    e.hostname,
			Timestamp:   ts,
			Fingerprint: fp,
			Record:      record,
			RestartCode: restart.Code,
			CycleID:     cycleID,
		})
	}

	if err := e.store.Write(fp); err != nil {
		return 0, false, fmt.Errorf("failed to persist baseline; %w", err)
	}

	if err := machine.Event(ctx, eventRemediated); err != nil {
		return 0, false, fmt.Errorf("failed to advance cycle state; %w", err)
	}

	slog.Warn("service restarted",
		"cycle", cycleID,
		"unit", e.supervisor.Unit(),
		"code", restart.Code,
		"alerted", alerted,
	)

	return restart.Code, alerted, nil
}

func (e *Engine) newMachine(cycleID string) *fsm.FSM {
	return fsm.NewFSM(
		StateProbing,
		fsm.Events{
			{Name: eventNoBaseline, Src: []string{StateProbing}, Dst: StateBaselined},
			{Name: eventChanged, Src: []string{StateProbing}, Dst: StateHealthy},
			{Name: eventUnchanged, Src: []string{StateProbing}, Dst: StateRemediating},
			{Name: eventRemediated, Src: []string{StateRemediating}, Dst: StateRemediated},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				slog.Debug("cycle state transition", "cycle", cycleID, "from", ev.Src, "to", ev.Dst)
			},
		},
	)
}
