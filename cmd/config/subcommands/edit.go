package subcommands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/config"
)

// EditCmd opens the configuration file in an editor.
var EditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file in your default editor",
	Long: "Edit the configuration file in your default editor.\n\n" +
		"Opens the vpnwatch configuration file in the editor specified by " +
		"the EDITOR environment variable. If EDITOR is not set, attempts to " +
		"use common editors (vim, vi, nano) in order. Creates the file with " +
		"default values if it does not exist yet.",
	Example: `  # Edit configuration with default editor
  vpnwatch config edit

  # Edit with a specific editor
  EDITOR=code vpnwatch config edit`,
	PreRunE: validateEdit,
	RunE:    runEdit,
}

func validateEdit(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()

	// Seed the file with defaults so the operator edits real keys
	// instead of a blank buffer.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.NewDefaultConfig()
		if err := config.Write(&cfg, configPath); err != nil {
			return fmt.Errorf("failed to create config file; %w", err)
		}
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}

	editCmd := exec.Command(editor, configPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error; %w", err)
	}

	// Surface syntax or value errors immediately rather than on the
	// next probe cycle.
	if _, err := config.LoadFromPath(configPath); err != nil {
		return fmt.Errorf("edited configuration is invalid; %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved: %s\n", configPath)
	return nil
}

func findEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}

	for _, candidate := range []string{"vim", "vi", "nano"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no editor found; set the EDITOR environment variable")
}
