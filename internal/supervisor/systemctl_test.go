package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const testUnit = "openvpn-server@server.service"

// stubResult is what the mock executor returns for one command.
type stubResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

// mockExecutor stubs systemctl invocations. Stubs are keyed by the full
// joined command line; unmatched commands succeed with empty output.
type mockExecutor struct {
	stubs    map[string]stubResult
	commands []string
}

func (m *mockExecutor) Run(ctx context.Context, name string, args ...string) (string, string, int, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	m.commands = append(m.commands, cmd)

	if stub, ok := m.stubs[cmd]; ok {
		return stub.stdout, stub.stderr, stub.code, stub.err
	}
	return "", "", 0, nil
}

func newTestSystemctl(mock *mockExecutor) *Systemctl {
	s := NewSystemctl(testUnit, 5*time.Second)
	s.executor = mock
	return s
}

func TestSystemctl_Status(t *testing.T) {
	statusCmd := "systemctl status " + testUnit + " --no-pager -l"

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			statusCmd: {
				stdout: "● " + testUnit + " - OpenVPN service\n   Active: active (running)\n",
				code:   0,
			},
		},
	}

	s := newTestSystemctl(mock)
	res := s.Status(context.Background())

	if !res.Succeeded() {
		t.Errorf("Status() Code = %d, want 0", res.Code)
	}
	if !strings.Contains(res.Stdout, "Active: active") {
		t.Errorf("Status() Stdout = %q, want systemctl output", res.Stdout)
	}
	if res.Command != statusCmd {
		t.Errorf("Status() Command = %q, want %q", res.Command, statusCmd)
	}
	if len(mock.commands) != 1 || mock.commands[0] != statusCmd {
		t.Errorf("Status() invoked %v, want [%s]", mock.commands, statusCmd)
	}
}

func TestSystemctl_Status_InactiveUnit(t *testing.T) {
	statusCmd := "systemctl status " + testUnit + " --no-pager -l"

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			statusCmd: {
				stdout: "○ " + testUnit + "\n   Active: inactive (dead)\n",
				code:   3,
			},
		},
	}

	s := newTestSystemctl(mock)
	res := s.Status(context.Background())

	if res.Code != 3 {
		t.Errorf("Status() Code = %d, want systemctl's exit code 3", res.Code)
	}
	if res.Stdout == "" {
		t.Error("Status() Stdout empty, want captured output for diagnostics")
	}
}

func TestSystemctl_Restart(t *testing.T) {
	restartCmd := "systemctl restart " + testUnit

	mock := &mockExecutor{stubs: map[string]stubResult{}}

	s := newTestSystemctl(mock)
	res := s.Restart(context.Background())

	if !res.Succeeded() {
		t.Errorf("Restart() Code = %d, want 0", res.Code)
	}
	if res.Command != restartCmd {
		t.Errorf("Restart() Command = %q, want %q", res.Command, restartCmd)
	}
	if len(mock.commands) != 1 || mock.commands[0] != restartCmd {
		t.Errorf("Restart() invoked %v, want [%s]", mock.commands, restartCmd)
	}
}

func TestSystemctl_Restart_Failure(t *testing.T) {
	restartCmd := "systemctl restart " + testUnit

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			restartCmd: {
				stderr: "Job for " + testUnit + " failed.\n",
				code:   1,
			},
		},
	}

	s := newTestSystemctl(mock)
	res := s.Restart(context.Background())

	if res.Code != 1 {
		t.Errorf("Restart() Code = %d, want 1", res.Code)
	}
	if !strings.Contains(res.Stderr, "failed") {
		t.Errorf("Restart() Stderr = %q, want failure text", res.Stderr)
	}
}

func TestSystemctl_ExecutorError(t *testing.T) {
	statusCmd := "systemctl status " + testUnit + " --no-pager -l"

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			statusCmd: {err: errors.New("executable file not found in $PATH")},
		},
	}

	s := newTestSystemctl(mock)
	res := s.Status(context.Background())

	if res.Code != -1 {
		t.Errorf("Status() Code = %d, want -1 for executor failure", res.Code)
	}
	if !strings.Contains(res.Stderr, "not found") {
		t.Errorf("Status() Stderr = %q, want executor error text", res.Stderr)
	}
}

func TestSystemctl_ExecutorError_PreservesPartialStderr(t *testing.T) {
	restartCmd := "systemctl restart " + testUnit

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			restartCmd: {
				stderr: "partial output\n",
				err:    errors.New("killed"),
			},
		},
	}

	s := newTestSystemctl(mock)
	res := s.Restart(context.Background())

	if !strings.Contains(res.Stderr, "partial output") || !strings.Contains(res.Stderr, "killed") {
		t.Errorf("Restart() Stderr = %q, want both partial stderr and error text", res.Stderr)
	}
}

func TestSystemctl_Show(t *testing.T) {
	showCmd := "systemctl show " + testUnit +
		" --property=ActiveState,SubState,LoadState,UnitFileState,MainPID"

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			showCmd: {
				stdout: "ActiveState=active\nSubState=running\nLoadState=loaded\nUnitFileState=enabled\nMainPID=4242\n",
			},
		},
	}

	s := newTestSystemctl(mock)
	st, err := s.Show(context.Background())
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	if st.ActiveState != "active" {
		t.Errorf("Show() ActiveState = %q, want active", st.ActiveState)
	}
	if st.SubState != "running" {
		t.Errorf("Show() SubState = %q, want running", st.SubState)
	}
	if st.MainPID != 4242 {
		t.Errorf("Show() MainPID = %d, want 4242", st.MainPID)
	}
	if !st.Running() {
		t.Error("Show() Running() = false, want true")
	}
}

func TestSystemctl_Show_CommandFailed(t *testing.T) {
	showCmd := "systemctl show " + testUnit +
		" --property=ActiveState,SubState,LoadState,UnitFileState,MainPID"

	mock := &mockExecutor{
		stubs: map[string]stubResult{
			showCmd: {stderr: "Failed to connect to bus\n", code: 1},
		},
	}

	s := newTestSystemctl(mock)
	if _, err := s.Show(context.Background()); err == nil {
		t.Error("Show() expected error when systemctl show fails")
	}
}

func TestParseShowOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   UnitState
	}{
		{
			name:   "running unit",
			output: "ActiveState=active\nSubState=running\nLoadState=loaded\nUnitFileState=enabled\nMainPID=12345",
			want: UnitState{
				ActiveState:   "active",
				SubState:      "running",
				LoadState:     "loaded",
				UnitFileState: "enabled",
				MainPID:       12345,
			},
		},
		{
			name:   "stopped unit",
			output: "ActiveState=inactive\nSubState=dead\nLoadState=loaded\nUnitFileState=disabled\nMainPID=0",
			want: UnitState{
				ActiveState:   "inactive",
				SubState:      "dead",
				LoadState:     "loaded",
				UnitFileState: "disabled",
			},
		},
		{
			name:   "empty output",
			output: "",
			want:   UnitState{},
		},
		{
			name:   "garbage lines ignored",
			output: "not a property line\nActiveState=failed\n=\n",
			want:   UnitState{ActiveState: "failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseShowOutput(tt.output); got != tt.want {
				t.Errorf("parseShowOutput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnitState_Running(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"active", true},
		{"activating", true},
		{"inactive", false},
		{"failed", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			st := UnitState{ActiveState: tt.state}
			if got := st.Running(); got != tt.want {
				t.Errorf("Running() with ActiveState=%q = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}
