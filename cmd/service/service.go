// Package service provides the service parent command and subcommands.
package service

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/cmd/service/subcommands"
)

// ServiceCmd is the parent command for schedule management subcommands.
var ServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the systemd schedule that runs probe cycles",
	Long: "Manage the systemd schedule that runs probe cycles.\n\n" +
		"The agent runs one decision cycle per invocation and relies on an external " +
		"scheduler for cadence. These subcommands install, remove, and inspect a " +
		"systemd timer that invokes 'vpnwatch probe' at a fixed interval.",
}

func init() {
	// Register subcommands
	ServiceCmd.AddCommand(subcommands.InstallCmd)
	ServiceCmd.AddCommand(subcommands.UninstallCmd)
	ServiceCmd.AddCommand(subcommands.StatusCmd)
}
