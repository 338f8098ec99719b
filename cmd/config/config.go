// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the vpnwatch configuration",
	Long: "Manage the vpnwatch configuration.\n\n" +
		"The config command allows you to view, edit, and validate the agent " +
		"configuration. Configuration is stored in a YAML file under /etc/vpnwatch " +
		"when running as root, or ~/.config/vpnwatch otherwise; every key can also " +
		"be set through a VPNWATCH_* environment variable.",
}

func init() {
	// Register subcommands
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.EditCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
}
