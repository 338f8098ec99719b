// Package probe implements the probe command, the agent's entry point
// for one decision cycle.
package probe

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/agent"
	"github.com/leefowlercu/vpnwatch/internal/cmdutil"
	"github.com/leefowlercu/vpnwatch/internal/config"
)

// ProbeCmd runs one decision cycle.
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run one probe cycle against the monitored service",
	Long: "Run one probe cycle against the monitored service.\n\n" +
		"Queries the management endpoint's status output, fingerprints it, and compares the " +
		"fingerprint against the one persisted by the previous run. Changed output is recorded " +
		"as healthy; unchanged output restarts the monitored unit and appends a diagnostic " +
		"record to the monitor log.\n\n" +
		"The process exits 0 when the cycle established a baseline or confirmed a healthy " +
		"change, and with the restart's return code after a remediation, so the schedule's " +
		"unit state reflects the restart outcome.",
	Example: `  # Run one cycle against the configured endpoint
  vpnwatch probe

  # Probe a different endpoint without touching the config file
  VPNWATCH_MONITOR_PORT=7506 vpnwatch probe`,
	PreRunE: validateProbe,
	RunE:    runProbe,
}

func validateProbe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	outcome, err := agent.New(cfg).Run(cmd.Context())
	if err != nil {
		slog.Error("probe cycle failed", "error", err)
		return err
	}

	slog.Info("probe cycle finished",
		"cycle", outcome.CycleID,
		"state", outcome.State,
		"md5", outcome.Fingerprint,
		"exit_code", outcome.ExitCode,
		"duration", outcome.Duration,
	)

	return cmdutil.Exit(outcome.ExitCode)
}
