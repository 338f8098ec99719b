package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/leefowlercu/vpnwatch/cmd/config"
	"github.com/leefowlercu/vpnwatch/cmd/forget"
	"github.com/leefowlercu/vpnwatch/cmd/initialize"
	"github.com/leefowlercu/vpnwatch/cmd/logs"
	"github.com/leefowlercu/vpnwatch/cmd/probe"
	"github.com/leefowlercu/vpnwatch/cmd/service"
	"github.com/leefowlercu/vpnwatch/cmd/status"
	"github.com/leefowlercu/vpnwatch/cmd/version"
	"github.com/leefowlercu/vpnwatch/internal/cmdutil"
	"github.com/leefowlercu/vpnwatch/internal/config"
	"github.com/leefowlercu/vpnwatch/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

var vpnwatchCmd = &cobra.Command{
	Use:   "vpnwatch",
	Short: "Health probe and recovery agent for an OpenVPN server",
	Long: "vpnwatch probes a local OpenVPN management endpoint on a fixed schedule and restarts " +
		"the service when its status output freezes.\n\n" +
		"Each invocation runs one decision cycle: query the status output, fingerprint it, and " +
		"compare against the fingerprint persisted by the previous run. Changed output is healthy; " +
		"unchanged output means the server is presumed stuck, so the agent captures diagnostics, " +
		"restarts the unit, records what it did, and optionally mails the operators.\n\n" +
		"Scheduling lives outside the agent; install the bundled systemd timer with " +
		"`vpnwatch service install`.",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()
	slog.SetDefault(logManager.Logger())

	vpnwatchCmd.AddCommand(probe.ProbeCmd)
	vpnwatchCmd.AddCommand(status.StatusCmd)
	vpnwatchCmd.AddCommand(logs.LogsCmd)
	vpnwatchCmd.AddCommand(forget.ForgetCmd)
	vpnwatchCmd.AddCommand(service.ServiceCmd)
	vpnwatchCmd.AddCommand(configcmd.ConfigCmd)
	vpnwatchCmd.AddCommand(initialize.InitCmd)
	vpnwatchCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	// Initialize config subsystem
	if err := config.Init(); err != nil {
		return err
	}

	// Upgrade logging after config is available
	logFile := config.GetPath("log_file")
	levelStr := config.GetString("log_level")
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		level = logging.DefaultLevel
		if levelStr != "" {
			logger.Warn("invalid log level configured, using default", "configured", levelStr, "default", "info")
		}
	}

	if err := logManager.Upgrade(logFile, level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		// Don't return error - continue with bootstrap mode
	}

	return nil
}

func Execute() error {
	vpnwatchCmd.SilenceErrors = true
	vpnwatchCmd.SilenceUsage = true

	// Ensure logging is properly closed on exit
	defer func() { _ = logManager.Close() }()

	err := vpnwatchCmd.Execute()

	if err != nil {
		// Exit codes carry the cycle outcome, not a usage problem.
		var exitErr cmdutil.ExitError
		if errors.As(err, &exitErr) {
			return err
		}

		cmd, _, _ := vpnwatchCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = vpnwatchCmd
		}

		fmt.Printf("Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Printf("\n")
			cmd.SetOut(os.Stdout)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
