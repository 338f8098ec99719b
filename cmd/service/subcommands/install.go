package subcommands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/servicemanager"
)

var (
	installInterval time.Duration
	installBinary   string
)

// InstallCmd installs the systemd schedule.
var InstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the systemd timer that runs probe cycles",
	Long: "Install the systemd timer that runs probe cycles.\n\n" +
		"Writes vpnwatch.service (oneshot) and vpnwatch.timer under /etc/systemd/system, " +
		"reloads the systemd daemon, and enables the timer. The timer interval counts " +
		"from the end of the previous cycle, so cycles never overlap. Requires root.",
	Example: `  # Install with the default interval
  vpnwatch service install

  # Probe every fifteen minutes
  vpnwatch service install --interval 15m`,
	PreRunE: validateInstall,
	RunE:    runInstall,
}

func init() {
	InstallCmd.Flags().DurationVar(&installInterval, "interval", servicemanager.DefaultInterval,
		"Time between probe cycles")
	InstallCmd.Flags().StringVar(&installBinary, "binary", "",
		"Path to the vpnwatch binary (default: the running executable)")
}

func validateInstall(cmd *cobra.Command, args []string) error {
	if installInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", installInterval)
	}

	cmd.SilenceUsage = true
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	if installInterval < time.Minute {
		// The management endpoint refreshes its status output roughly once a
		// minute; probing faster than that invites spurious restarts.
		slog.Warn("probe interval is shorter than the typical status refresh period",
			"interval", installInterval)
	}

	mgr, err := servicemanager.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize schedule manager; %w", err)
	}

	opts := servicemanager.InstallOptions{
		Interval:   installInterval,
		BinaryPath: installBinary,
	}
	if err := mgr.Install(cmd.Context(), opts); err != nil {
		return fmt.Errorf("failed to install schedule; %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installed vpnwatch.timer (probe every %s)\n", installInterval)
	fmt.Fprintln(out, "Run 'vpnwatch service status' to inspect the schedule.")
	return nil
}
