// Package initialize implements the init command for first-time setup.
package initialize

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/cmdutil"
	"github.com/leefowlercu/vpnwatch/internal/config"
)

var (
	initForce bool
	initPath  string
)

// InitCmd writes the default configuration file.
var InitCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"initialize"},
	Short:   "Write the default configuration file",
	Long: "Write the default configuration file.\n\n" +
		"Creates a commented config.yaml with every setting at its default value. " +
		"Edit at least monitor.port and service.unit afterwards to match the " +
		"monitored server, then run 'vpnwatch probe' to establish a baseline.",
	Example: `  # Write the default config to the standard location
  vpnwatch init

  # Overwrite an existing config
  vpnwatch init --force

  # Write to a custom location
  vpnwatch init --path ./vpnwatch.yaml`,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite an existing configuration file")
	InitCmd.Flags().StringVar(&initPath, "path", "",
		"Write the configuration to this path instead of the standard location")
}

func validateInit(cmd *cobra.Command, args []string) error {
	target := targetPath()
	slog.Debug("validating init command", "config_path", target, "force", initForce)

	if !initForce && config.ConfigExistsAt(target) {
		return fmt.Errorf("configuration already exists at %s; use --force to overwrite", target)
	}

	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.NewDefaultConfig()
	target := targetPath()

	if err := config.Write(&cfg, target); err != nil {
		return fmt.Errorf("failed to write configuration; %w", err)
	}

	slog.Info("wrote default configuration", "path", target)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote default configuration to %s\n", target)
	fmt.Fprintln(out, "Edit monitor.port and service.unit to match the monitored server,")
	fmt.Fprintln(out, "then run 'vpnwatch probe' to establish a baseline.")
	return nil
}

// targetPath resolves the destination config file, honoring --path.
func targetPath() string {
	if initPath != "" {
		resolved, _ := cmdutil.ResolvePath(initPath)
		return resolved
	}
	return config.GetConfigPath()
}
