package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/servicemanager"
)

// UninstallCmd removes the systemd schedule.
var UninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the systemd timer that runs probe cycles",
	Long: "Remove the systemd timer that runs probe cycles.\n\n" +
		"Stops and disables vpnwatch.timer, removes both unit files, and reloads " +
		"the systemd daemon. The agent configuration, baseline file, and monitor " +
		"log are left in place. Requires root.",
	Example: `  # Remove the schedule
  vpnwatch service uninstall`,
	PreRunE: validateUninstall,
	RunE:    runUninstall,
}

func validateUninstall(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := servicemanager.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize schedule manager; %w", err)
	}

	installed, err := mgr.IsInstalled()
	if err != nil {
		return fmt.Errorf("failed to check schedule state; %w", err)
	}
	if !installed {
		fmt.Fprintln(cmd.OutOrStdout(), "No vpnwatch schedule is installed.")
		return nil
	}

	if err := mgr.Uninstall(cmd.Context()); err != nil {
		return fmt.Errorf("failed to remove schedule; %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Removed vpnwatch.timer and vpnwatch.service.")
	return nil
}
