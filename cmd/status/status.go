// Package status implements the status command, the operator's
// one-glance summary of the monitored unit and the probe state.
package status

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/config"
	"github.com/leefowlercu/vpnwatch/internal/logbook"
	"github.com/leefowlercu/vpnwatch/internal/probe"
	"github.com/leefowlercu/vpnwatch/internal/state"
	"github.com/leefowlercu/vpnwatch/internal/supervisor"
	"github.com/leefowlercu/vpnwatch/internal/tui/styles"
)

var statusQuiet bool

// StatusCmd shows the monitored unit and probe state.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the monitored unit, baseline, and last probe outcome",
	Long: "Show the monitored unit, baseline, and last probe outcome.\n\n" +
		"Displays the unit's systemd state, the fingerprint persisted by the last probe cycle " +
		"with its age, and a one-line summary of the most recent monitor-log record.",
	Example: `  # Full summary
  vpnwatch status

  # Just the unit's active state, for scripts
  vpnwatch status --quiet`,
	PreRunE: validateStatus,
	RunE:    runStatus,
}

func init() {
	StatusCmd.Flags().BoolVarP(&statusQuiet, "quiet", "q", false,
		"Print only the unit's active state")
}

func validateStatus(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	ctx := cmd.Context()
	sup, err := supervisor.New(ctx, cfg.Service.Unit, cfg.Service.Manager, cfg.Monitor.Timeout())
	if err != nil {
		return fmt.Errorf("failed to initialize service supervisor; %w", err)
	}
	defer sup.Close()

	st, showErr := sup.Show(ctx)

	if statusQuiet {
		fmt.Fprintln(out, activeState(st, showErr))
		return nil
	}

	fmt.Fprintln(out, unitLine(cfg.Service.Unit, st, showErr))

	statePath := config.ExpandPath(cfg.State.Path)
	fp, ok := state.NewStore(statePath).Read()
	fmt.Fprintln(out, baselineLine(fp, ok, baselineAge(statePath)))

	book := logbook.New(config.ExpandPath(cfg.Logbook.Path))
	records, tailErr := book.Tail(1)
	fmt.Fprintln(out, logbookLine(book.Path(), records, tailErr))

	fmt.Fprintf(out, "%s %s\n", label("Config:"), styles.MutedText.Render(config.GetConfigPath()))

	return nil
}

// activeState normalizes the supervisor's view; anything it could not
// report reads as unknown.
func activeState(st supervisor.UnitState, err error) string {
	if err != nil || st.ActiveState == "" {
		return "unknown"
	}
	return st.ActiveState
}

func unitLine(unit string, st supervisor.UnitState, showErr error) string {
	active := activeState(st, showErr)

	var b strings.Builder
	b.WriteString(styles.StateDot(active))
	b.WriteString(" ")
	b.WriteString(styles.UnitName.Render(unit))
	b.WriteString("  ")
	b.WriteString(active)
	if st.SubState != "" {
		fmt.Fprintf(&b, " (%s)", st.SubState)
	}
	if st.MainPID > 0 {
		fmt.Fprintf(&b, ", PID %d", st.MainPID)
	}
	if st.UnitFileState != "" {
		fmt.Fprintf(&b, ", %s", st.UnitFileState)
	}

	return b.String()
}

func baselineLine(fp probe.Fingerprint, ok bool, age time.Duration) string {
	if !ok {
		return fmt.Sprintf("%s none (next probe establishes one)", label("Baseline:"))
	}
	if age > 0 {
		return fmt.Sprintf("%s md5 %s (%s old)", label("Baseline:"), fp, age.Round(time.Second))
	}
	return fmt.Sprintf("%s md5 %s", label("Baseline:"), fp)
}

// baselineAge reads the state file's modification time; zero when the
// file is missing.
func baselineAge(path string) time.Duration {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return time.Since(info.ModTime())
}

func logbookLine(path string, records []string, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("%s %s (unreadable: %v)", label("Logbook:"), path, err)
	case len(records) == 0:
		return fmt.Sprintf("%s %s (empty)", label("Logbook:"), styles.MutedText.Render(path))
	default:
		return fmt.Sprintf("%s %s", label("Logbook:"), lastRecordSummary(records[len(records)-1]))
	}
}

// lastRecordSummary compresses the last monitor-log record to one
// line. Healthy records already are one line; diagnostic blocks reduce
// to their timestamp and restart outcome.
func lastRecordSummary(record string) string {
	lines := strings.Split(strings.TrimRight(record, "\n"), "\n")
	if len(lines) == 1 {
		return lines[0]
	}

	var ts, code string
	for _, line := range lines {
		if v, ok := strings.CutPrefix(line, "Timestamp: "); ok {
			ts = v
		}
		if v, ok := strings.CutPrefix(line, "Restart return code: "); ok {
			code = v
		}
	}

	if ts == "" {
		return lines[0]
	}
	if code != "" {
		return fmt.Sprintf("remediation at %s (restart exit %s)", ts, code)
	}
	return "remediation at " + ts
}

func label(text string) string {
	return styles.Label.Render(fmt.Sprintf("%-9s", text))
}
