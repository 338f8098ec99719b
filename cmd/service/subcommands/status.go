package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/servicemanager"
	"github.com/leefowlercu/vpnwatch/internal/tui/styles"
)

// StatusCmd reports the state of the installed schedule.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the probe schedule",
	Long: "Show the state of the probe schedule.\n\n" +
		"Reports whether the vpnwatch timer units are installed, whether the timer " +
		"is active and enabled, and when it next fires.",
	Example: `  # Inspect the schedule
  vpnwatch service status`,
	PreRunE: validateStatus,
	RunE:    runStatus,
}

func validateStatus(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, err := servicemanager.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize schedule manager; %w", err)
	}

	status, err := mgr.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to query schedule state; %w", err)
	}

	out := cmd.OutOrStdout()
	if !status.Installed {
		fmt.Fprintln(out, "No vpnwatch schedule is installed.")
		fmt.Fprintln(out, "Run 'vpnwatch service install' to create one.")
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", scheduleDot(status), styles.UnitName.Render("vpnwatch.timer"))
	fmt.Fprintf(out, "  Active:  %s\n", yesNo(status.Active))
	fmt.Fprintf(out, "  Enabled: %s\n", yesNo(status.Enabled))
	if status.NextElapse != "" {
		fmt.Fprintf(out, "  Next:    %s\n", status.NextElapse)
	}
	return nil
}

func scheduleDot(status servicemanager.ScheduleStatus) string {
	if status.Active {
		return styles.SuccessText.Render(styles.Dot)
	}
	return styles.WarningText.Render(styles.Dot)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
