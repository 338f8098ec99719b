// Package logs implements the logs command for reading the monitor
// log.
package logs

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/config"
	"github.com/leefowlercu/vpnwatch/internal/logbook"
)

var (
	logsLines  int
	logsFollow bool
)

// LogsCmd prints monitor-log records.
var LogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print monitor-log records",
	Long: "Print monitor-log records.\n\n" +
		"The monitor log holds one record per consequential probe cycle: a single SUCCESS " +
		"line for a healthy change, or a delimited diagnostic block for a remediation. " +
		"Records print whole; a diagnostic block is never split.\n\n" +
		"With --follow the command streams appended records until interrupted. The log file " +
		"must already exist to follow it.",
	Example: `  # Print the last ten records
  vpnwatch logs

  # Print every record
  vpnwatch logs --lines 0

  # Stream records as the agent appends them
  vpnwatch logs --follow`,
	PreRunE: validateLogs,
	RunE:    runLogs,
}

func init() {
	LogsCmd.Flags().IntVarP(&logsLines, "lines", "n", 10,
		"Number of records to print (0 prints all)")
	LogsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false,
		"Stream new records as they are appended")
}

func validateLogs(cmd *cobra.Command, args []string) error {
	if logsLines < 0 {
		return fmt.Errorf("--lines must be zero or positive, got %d", logsLines)
	}

	cmd.SilenceUsage = true
	return nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	book := logbook.New(config.ExpandPath(cfg.Logbook.Path))
	out := cmd.OutOrStdout()

	records, err := book.Tail(logsLines)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Fprint(out, record)
	}

	if !logsFollow {
		return nil
	}

	if err := book.Follow(cmd.Context(), out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
