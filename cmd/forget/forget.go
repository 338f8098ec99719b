// Package forget implements the forget command for discarding recorded
// state.
package forget

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/config"
	"github.com/leefowlercu/vpnwatch/internal/logbook"
	"github.com/leefowlercu/vpnwatch/internal/state"
)

// Flag variables for the forget command.
var (
	forgetAll bool
)

// ForgetCmd discards the recorded baseline fingerprint.
var ForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Discard the recorded baseline fingerprint",
	Long: "Discard the recorded baseline fingerprint.\n\n" +
		"Removes the baseline file so the next probe cycle records a fresh " +
		"fingerprint instead of comparing against the old one. Useful after " +
		"re-pointing the agent at a different server or management port. " +
		"Use --all to also remove the monitor log.",
	Example: `  # Discard the baseline; the next probe re-establishes it
  vpnwatch forget

  # Discard the baseline and the monitor log
  vpnwatch forget --all`,
	PreRunE: validateForget,
	RunE:    runForget,
}

func init() {
	ForgetCmd.Flags().BoolVar(&forgetAll, "all", false,
		"Also remove the monitor log")
}

func validateForget(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runForget(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	out := cmd.OutOrStdout()

	statePath := state.NewStore(config.ExpandPath(cfg.State.Path)).Path()
	removed, err := removeFile(statePath)
	if err != nil {
		return fmt.Errorf("failed to remove baseline; %w", err)
	}
	if removed {
		slog.Info("discarded baseline", "path", statePath)
		fmt.Fprintf(out, "Discarded baseline %s\n", statePath)
		fmt.Fprintln(out, "The next probe cycle will record a fresh fingerprint.")
	} else {
		fmt.Fprintln(out, "No baseline recorded; nothing to discard.")
	}

	if !forgetAll {
		return nil
	}

	logPath := logbook.New(config.ExpandPath(cfg.Logbook.Path)).Path()
	removed, err = removeFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to remove monitor log; %w", err)
	}
	if removed {
		slog.Info("removed monitor log", "path", logPath)
		fmt.Fprintf(out, "Removed monitor log %s\n", logPath)
	}

	return nil
}

// removeFile removes path, reporting whether a file was actually there.
func removeFile(path string) (bool, error) {
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
