// Package version implements the version command.
package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/vpnwatch/internal/version"
)

var versionOutput string

// VersionCmd displays version and build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Long: "Display version and build information.\n\n" +
		"Shows the semantic version, git commit hash, and build date " +
		"of the current vpnwatch binary. This information is useful " +
		"for troubleshooting and verifying the installed version.",
	Example: `  # Display version information
  vpnwatch version

  # Machine-readable output
  vpnwatch version --output json`,
	PreRunE: validateVersion,
	RunE:    runVersion,
}

func init() {
	VersionCmd.Flags().StringVarP(&versionOutput, "output", "o", "text",
		"Output format: text, json")
}

func validateVersion(cmd *cobra.Command, args []string) error {
	if versionOutput != "text" && versionOutput != "json" {
		return fmt.Errorf("invalid output format %q; must be text or json", versionOutput)
	}

	cmd.SilenceUsage = true
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	if versionOutput == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	fmt.Fprintln(out, info.String())
	return nil
}
