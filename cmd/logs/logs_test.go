package logs

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/logbook"
	"github.com/leefowlercu/vpnwatch/internal/probe"
	"github.com/leefowlercu/vpnwatch/internal/testutil"
)

func setLogsFlags(t *testing.T, lines int, follow bool) {
	t.Helper()

	prevLines, prevFollow := logsLines, logsFollow
	logsLines, logsFollow = lines, follow
	t.Cleanup(func() {
		logsLines, logsFollow = prevLines, prevFollow
	})
}

func newLogsCommand(ctx context.Context) (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	if ctx != nil {
		cmd.SetContext(ctx)
	}
	return cmd, out
}

func TestLogsCmd_Metadata(t *testing.T) {
	if LogsCmd.Use != "logs" {
		t.Errorf("LogsCmd.Use = %q, want %q", LogsCmd.Use, "logs")
	}
	if LogsCmd.Short == "" {
		t.Error("LogsCmd.Short is empty")
	}

	lines := LogsCmd.Flags().Lookup("lines")
	if lines == nil {
		t.Fatal("LogsCmd has no --lines flag")
	}
	if lines.Shorthand != "n" {
		t.Errorf("--lines shorthand = %q, want %q", lines.Shorthand, "n")
	}
	if lines.DefValue != "10" {
		t.Errorf("--lines default = %q, want %q", lines.DefValue, "10")
	}

	follow := LogsCmd.Flags().Lookup("follow")
	if follow == nil {
		t.Fatal("LogsCmd has no --follow flag")
	}
	if follow.Shorthand != "f" {
		t.Errorf("--follow shorthand = %q, want %q", follow.Shorthand, "f")
	}
}

func TestValidateLogs(t *testing.T) {
	tests := []struct {
		name    string
		lines   int
		wantErr bool
	}{
		{name: "default", lines: 10, wantErr: false},
		{name: "zero means all", lines: 0, wantErr: false},
		{name: "negative", lines: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLogsFlags(t, tt.lines, false)

			err := validateLogs(&cobra.Command{}, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLogs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunLogs_MissingFile(t *testing.T) {
	testutil.NewEnv(t)
	setLogsFlags(t, 10, false)

	cmd, out := newLogsCommand(nil)
	if err := runLogs(cmd, nil); err != nil {
		t.Fatalf("runLogs() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("runLogs() output = %q, want empty", out.String())
	}
}

func TestRunLogs_PrintsLastRecords(t *testing.T) {
	env := testutil.NewEnv(t)

	book := logbook.New(env.LogbookPath())
	base := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		fp := probe.Digest("status " + string(rune('a'+i)))
		if err := book.Success(base.Add(time.Duration(i)*time.Minute), fp); err != nil {
			t.Fatalf("Success() error = %v", err)
		}
	}

	setLogsFlags(t, 2, false)
	cmd, out := newLogsCommand(nil)
	if err := runLogs(cmd, nil); err != nil {
		t.Fatalf("runLogs() error = %v", err)
	}

	got := out.String()
	if strings.Contains(got, "2026-08-22T10:00:00Z") {
		t.Errorf("runLogs() output includes oldest record:\n%s", got)
	}
	if !strings.Contains(got, "2026-08-22T10:01:00Z") || !strings.Contains(got, "2026-08-22T10:02:00Z") {
		t.Errorf("runLogs() output missing newest records:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("runLogs() output does not end with a newline: %q", got)
	}
}

func TestRunLogs_ZeroPrintsAll(t *testing.T) {
	env := testutil.NewEnv(t)

	book := logbook.New(env.LogbookPath())
	base := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		fp := probe.Digest("status " + string(rune('a'+i)))
		if err := book.Success(base.Add(time.Duration(i)*time.Minute), fp); err != nil {
			t.Fatalf("Success() error = %v", err)
		}
	}

	setLogsFlags(t, 0, false)
	cmd, out := newLogsCommand(nil)
	if err := runLogs(cmd, nil); err != nil {
		t.Fatalf("runLogs() error = %v", err)
	}

	if got := strings.Count(out.String(), "SUCCESS"); got != 3 {
		t.Errorf("runLogs() printed %d records, want 3:\n%s", got, out.String())
	}
}

func TestRunLogs_FollowMissingFile(t *testing.T) {
	testutil.NewEnv(t)
	setLogsFlags(t, 10, true)

	cmd, _ := newLogsCommand(context.Background())
	err := runLogs(cmd, nil)
	if err == nil {
		t.Fatal("runLogs() error = nil, want error for missing log file")
	}
	if !strings.Contains(err.Error(), "monitor log") {
		t.Errorf("runLogs() error = %v, want mention of monitor log", err)
	}
}

func TestRunLogs_FollowStopsOnCancel(t *testing.T) {
	env := testutil.NewEnv(t)

	book := logbook.New(env.LogbookPath())
	ts := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)
	if err := book.Success(ts, probe.Digest("status")); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	setLogsFlags(t, 10, true)
	cmd, out := newLogsCommand(ctx)

	done := make(chan error, 1)
	go func() {
		done <- runLogs(cmd, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runLogs() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runLogs() did not return after context cancel")
	}

	if !strings.Contains(out.String(), "2026-08-22T10:00:00Z") {
		t.Errorf("runLogs() output missing existing record:\n%s", out.String())
	}
}
