package status

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/probe"
	"github.com/leefowlercu/vpnwatch/internal/supervisor"
)

func TestStatusCmd_Metadata(t *testing.T) {
	if StatusCmd.Use != "status" {
		t.Errorf("expected Use 'status', got '%s'", StatusCmd.Use)
	}
	if StatusCmd.Short == "" {
		t.Error("expected non-empty Short description")
	}
	if StatusCmd.Flags().Lookup("quiet") == nil {
		t.Error("expected --quiet flag to be registered")
	}
}

func TestActiveState(t *testing.T) {
	tests := []struct {
		name    string
		st      supervisor.UnitState
		showErr error
		want    string
	}{
		{
			name: "reported state passes through",
			st:   supervisor.UnitState{ActiveState: "active"},
			want: "active",
		},
		{
			name:    "show failure reads unknown",
			st:      supervisor.UnitState{ActiveState: "active"},
			showErr: errors.New("no systemd"),
			want:    "unknown",
		},
		{
			name: "empty state reads unknown",
			st:   supervisor.UnitState{},
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := activeState(tt.st, tt.showErr); got != tt.want {
				t.Errorf("activeState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnitLine(t *testing.T) {
	st := supervisor.UnitState{
		ActiveState:   "active",
		SubState:      "running",
		UnitFileState: "enabled",
		MainPID:       1234,
	}

	got := unitLine("openvpn-server@server.service", st, nil)

	for _, want := range []string{
		"openvpn-server@server.service",
		"active (running)",
		"PID 1234",
		"enabled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("unitLine() = %q, missing %q", got, want)
		}
	}
}

func TestUnitLine_ShowFailure(t *testing.T) {
	got := unitLine("openvpn-server@server.service", supervisor.UnitState{}, errors.New("bus down"))

	if !strings.Contains(got, "unknown") {
		t.Errorf("unitLine() = %q, want unknown state", got)
	}
	if strings.Contains(got, "PID") {
		t.Errorf("unitLine() = %q, should not report a PID", got)
	}
}

func TestBaselineLine(t *testing.T) {
	fp := probe.Digest("some output")

	got := baselineLine(fp, true, 4*time.Minute+32*time.Second)
	if !strings.Contains(got, "md5 "+string(fp)) || !strings.Contains(got, "4m32s old") {
		t.Errorf("baselineLine() = %q, want fingerprint with age", got)
	}

	got = baselineLine("", false, 0)
	if !strings.Contains(got, "none") {
		t.Errorf("baselineLine() = %q, want none for missing baseline", got)
	}
}

func TestLogbookLine_Empty(t *testing.T) {
	got := logbookLine("/var/log/vpnwatch/probe.log", nil, nil)
	if !strings.Contains(got, "(empty)") {
		t.Errorf("logbookLine() = %q, want empty marker", got)
	}
}

func TestLastRecordSummary(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{
			name:   "success line passes through",
			record: "2026-08-22T10:30:00Z SUCCESS probe md5_changed md5=abc123\n",
			want:   "2026-08-22T10:30:00Z SUCCESS probe md5_changed md5=abc123",
		},
		{
			name: "diagnostic block reduces to timestamp and restart code",
			record: strings.Repeat("=", 80) + "\n" +
				"Timestamp: 2026-08-22T10:30:00Z\n" +
				"Condition: status MD5 unchanged (md5=abc123)\n" +
				"\n" +
				"Action: systemctl restart openvpn-server@server.service\n" +
				"Restart return code: 1\n" +
				strings.Repeat("=", 80) + "\n",
			want: "remediation at 2026-08-22T10:30:00Z (restart exit 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastRecordSummary(tt.record); got != tt.want {
				t.Errorf("lastRecordSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
