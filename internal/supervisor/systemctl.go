package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// CommandExecutor abstracts subprocess execution so tests can stub
// systemctl.
type CommandExecutor interface {
	// Run executes the command and returns its stdout, stderr, and exit
	// code. The error is reserved for commands that could not run at
	// all; a nonzero exit is a result, not an error.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, code int, err error)
}

// NewExecutor returns the default os/exec-backed CommandExecutor.
func NewExecutor() CommandExecutor {
	return &defaultExecutor{}
}

// defaultExecutor executes commands using os/exec.
type defaultExecutor struct{}

func (e *defaultExecutor) Run(ctx context.Context, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), stderr.String(), -1, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}

	return stdout.String(), stderr.String(), 0, nil
}

// Systemctl drives systemd through the systemctl binary.
type Systemctl struct {
	unit     string
	timeout  time.Duration
	executor CommandExecutor
}

// NewSystemctl creates a systemctl-backed Supervisor for the unit.
func NewSystemctl(unit string, timeout time.Duration) *Systemctl {
	return &Systemctl{
		unit:     unit,
		timeout:  timeout,
		executor: &defaultExecutor{},
	}
}

// Unit returns the unit name.
func (s *Systemctl) Unit() string {
	return s.unit
}

// Status captures `systemctl status` output for the unit. The exit code
// passes through systemctl's conventions (0 active, 3 inactive, 4 no
// such unit).
func (s *Systemctl) Status(ctx context.Context) probe.Result {
	return s.run(ctx, "status", s.unit, "--no-pager", "-l")
}

// Restart restarts the unit.
func (s *Systemctl) Restart(ctx context.Context) probe.Result {
	return s.run(ctx, "restart", s.unit)
}

func (s *Systemctl) run(ctx context.Context, args ...string) probe.Result {
	descriptor := "systemctl " + strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	slog.Debug("running systemctl", "args", args)

	stdout, stderr, code, err := s.executor.Run(ctx, "systemctl", args...)
	if err != nil {
		return probe.Result{
			Command: descriptor,
			Code:    -1,
			Stdout:  stdout,
			Stderr:  joinStderr(stderr, err),
		}
	}

	return probe.Result{
		Command: descriptor,
		Code:    code,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Show parses `systemctl show` properties into a UnitState.
func (s *Systemctl) Show(ctx context.Context) (UnitState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stdout, stderr, code, err := s.executor.Run(ctx, "systemctl", "show", s.unit,
		"--property=ActiveState,SubState,LoadState,UnitFileState,MainPID")
	if err != nil {
		return UnitState{}, fmt.Errorf("failed to run systemctl show; %w", err)
	}
	if code != 0 {
		return UnitState{}, fmt.Errorf("systemctl show exited %d; %s", code, strings.TrimSpace(stderr))
	}

	return parseShowOutput(stdout), nil
}

// Close is a no-op; the systemctl driver holds no resources.
func (s *Systemctl) Close() error {
	return nil
}

// parseShowOutput parses the key=value lines emitted by systemctl show.
func parseShowOutput(output string) UnitState {
	var st UnitState

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := parts[1]

		switch key {
		case "ActiveState":
			st.ActiveState = value
		case "SubState":
			st.SubState = value
		case "LoadState":
			st.LoadState = value
		case "UnitFileState":
			st.UnitFileState = value
		case "MainPID":
			if pid, err := strconv.Atoi(value); err == nil && pid > 0 {
				st.MainPID = pid
			}
		}
	}

	return st
}

// joinStderr appends an executor error to whatever stderr the command
// managed to produce before failing.
func joinStderr(stderr string, err error) string {
	if strings.TrimSpace(stderr) == "" {
		return err.Error()
	}
	return strings.TrimRight(stderr, "\n") + "\n" + err.Error()
}
