// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI colors for broad terminal compatibility.
var (
	Success = lipgloss.Color("2")   // Green
	Warning = lipgloss.Color("3")   // Yellow
	Error   = lipgloss.Color("1")   // Red
	Muted   = lipgloss.Color("245") // Light gray (visible on dark backgrounds)
)

// Text styles.
var (
	SuccessText = lipgloss.NewStyle().Foreground(Success)

	WarningText = lipgloss.NewStyle().Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)

	Label = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	UnitName = lipgloss.NewStyle().Bold(true)
)

// Dot is the state indicator glyph used by status output.
const Dot = "●"

// StateDot returns the state indicator colored for a systemd
// ActiveState value: green while up, red when failed, gray when down,
// yellow for anything the supervisor could not classify.
func StateDot(activeState string) string {
	switch activeState {
	case "active", "activating", "reloading":
		return SuccessText.Render(Dot)
	case "failed":
		return ErrorText.Render(Dot)
	case "inactive", "deactivating":
		return MutedText.Render(Dot)
	default:
		return WarningText.Render(Dot)
	}
}
