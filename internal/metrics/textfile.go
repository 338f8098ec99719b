package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// textfileName is the file the node_exporter textfile collector picks
// up from the configured directory.
const textfileName = "vpnwatch.prom"

// outcomeStates lists every terminal state exported on the one-hot
// outcome gauge.
var outcomeStates = []string{"baselined", "healthy", "remediated"}

// RecordCycle updates the cycle gauges for one completed decision
// cycle.
func RecordCycle(state string, started time.Time, duration time.Duration, restartCode int, alertSent bool) {
	LastRunTimestamp.Set(float64(started.Unix()))
	CycleDuration.Set(duration.Seconds())

	for _, s := range outcomeStates {
		value := 0.0
		if s == state {
			value = 1
		}
		CycleOutcome.WithLabelValues(s).Set(value)
	}

	RestartExitCode.Set(float64(restartCode))

	if alertSent {
		AlertSent.Set(1)
	} else {
		AlertSent.Set(0)
	}
}

// SetBuildInfo sets the version labels on the build info gauge.
func SetBuildInfo(version string) {
	BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// WriteTextfile exports the registry to <dir>/vpnwatch.prom. The
// underlying write goes through a temp file and rename, so a scraping
// node_exporter never reads a partial file.
func WriteTextfile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create textfile directory; %w", err)
	}

	path := filepath.Join(dir, textfileName)
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile; %w", err)
	}

	return nil
}
