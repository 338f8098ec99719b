// Package diag builds the diagnostic records appended to the monitor
// log when the service is judged stuck.
package diag

import (
	"fmt"
	"strings"
	"time"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

const separatorWidth = 80

// Report is one diagnostic record: the condition that triggered
// remediation, the evidence gathered around the restart, and the
// restart outcome. Its rendered form is part of the operator contract;
// changing it breaks downstream log tooling.
type Report struct {
	Timestamp   time.Time
	Fingerprint probe.Fingerprint

	// Sections hold the evidence commands in capture order: supervisor
	// status, load statistics, then the status output that triggered
	// the remediation.
	Sections []probe.Result

	// Host is an optional one-line host snapshot; empty when gathering
	// failed.
	Host string

	// Restart is the remediation outcome.
	Restart probe.Result
}

// Render produces the record text exactly as appended to the monitor
// log. Stderr sections appear only when non-blank; stdout sections are
// always present, even when empty. Restart output lines appear only
// when non-blank.
func (r *Report) Render() string {
	sep := strings.Repeat("=", separatorWidth)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("%s", sep)
	line("Timestamp: %s", r.Timestamp.Format(time.RFC3339))
	line("Condition: status MD5 unchanged (md5=%s)", r.Fingerprint)
	line("")

	for _, section := range r.Sections {
		line("Command: %s", section.Command)
		line("Return code: %d", section.Code)
		if strings.TrimSpace(section.Stderr) != "" {
			line("STDERR:")
			line("%s", strings.TrimRight(section.Stderr, "\n"))
		}
		line("STDOUT:")
		line("%s", strings.TrimRight(section.Stdout, "\n"))
		line("")
	}

	if r.Host != "" {
		line("Host: %s", r.Host)
		line("")
	}

	line("Action: %s", r.Restart.Command)
	line("Restart return code: %d", r.Restart.Code)
	if strings.TrimSpace(r.Restart.Stderr) != "" {
		line("Restart STDERR:")
		line("%s", strings.TrimRight(r.Restart.Stderr, "\n"))
	}
	if strings.TrimSpace(r.Restart.Stdout) != "" {
		line("Restart STDOUT:")
		line("%s", strings.TrimRight(r.Restart.Stdout, "\n"))
	}
	line("%s", sep)

	return b.String()
}
