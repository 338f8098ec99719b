// Package metrics exposes probe cycle metrics for the node_exporter
// textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "vpnwatch"
)

// registry holds only vpnwatch series so the exported textfile stays
// free of process-level noise.
var registry = prometheus.NewRegistry()

var factory = promauto.With(registry)

// Cycle metrics describe the most recently completed probe cycle. The
// agent is one-shot, so everything is a gauge: each run overwrites the
// previous run's textfile.
var (
	// LastRunTimestamp is the unix timestamp of the last completed cycle.
	LastRunTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed probe cycle",
	})

	// CycleDuration is the wall-clock duration of the last cycle.
	CycleDuration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cycle_duration_seconds",
		Help:      "Wall-clock duration of the last probe cycle in seconds",
	})

	// CycleOutcome is a one-hot gauge over the terminal cycle states.
	CycleOutcome = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cycle_outcome",
		Help:      "Terminal state of the last probe cycle (1 for the state reached, 0 otherwise)",
	}, []string{"state"})

	// RestartExitCode is the supervisor's return code from the last restart.
	RestartExitCode = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "restart_exit_code",
		Help:      "Return code of the most recent service restart",
	})

	// AlertSent reports whether the last remediation alert was handed off.
	AlertSent = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alert_sent",
		Help:      "Whether the last remediation alert was delivered (1) or not (0)",
	})
)

// BuildInfo carries the agent version labels.
var BuildInfo = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "build_info",
	Help:      "vpnwatch version information",
}, []string{"version", "go_version"})
