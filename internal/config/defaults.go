package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "/var/log/vpnwatch/agent.log"

	// Management endpoint defaults.
	DefaultMonitorHost             = "127.0.0.1"
	DefaultMonitorPort             = 7505
	DefaultMonitorStatusCommand    = "status"
	DefaultMonitorLoadStatsCommand = "load-stats"
	DefaultMonitorTimeoutSeconds   = 15

	// Supervised service defaults.
	DefaultServiceUnit    = "openvpn-server@server.service"
	DefaultServiceManager = "auto"

	// Durable state defaults.
	DefaultStatePath   = "/var/lib/vpnwatch/last_status_md5.txt"
	DefaultLogbookPath = "/var/log/vpnwatch/probe.log"

	// Alert transport defaults.
	DefaultAlertsEnabled = false
	DefaultSMTPHost      = "127.0.0.1"
	DefaultSMTPPort      = 25
	DefaultSMTPSecurity  = "starttls"
	DefaultSMTPPassword  = "VPNWATCH_SMTP_PASSWORD"

	// Metrics defaults; empty disables the textfile export.
	DefaultMetricsTextfileDir = ""
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Monitor: MonitorConfig{
			Host:             DefaultMonitorHost,
			Port:             DefaultMonitorPort,
			StatusCommand:    DefaultMonitorStatusCommand,
			LoadStatsCommand: DefaultMonitorLoadStatsCommand,
			TimeoutSeconds:   DefaultMonitorTimeoutSeconds,
		},
		Service: ServiceConfig{
			Unit:    DefaultServiceUnit,
			Manager: DefaultServiceManager,
		},
		State:   StateConfig{Path: DefaultStatePath},
		Logbook: LogbookConfig{Path: DefaultLogbookPath},
		Alerts: AlertsConfig{
			Enabled: DefaultAlertsEnabled,
			SMTP: SMTPConfig{
				Host:        DefaultSMTPHost,
				Port:        DefaultSMTPPort,
				Security:    DefaultSMTPSecurity,
				PasswordEnv: DefaultSMTPPassword,
			},
		},
		Metrics: MetricsConfig{TextfileDir: DefaultMetricsTextfileDir},
	}
}

// setViperDefaults registers all default configuration values with a
// viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	// Monitor defaults
	v.SetDefault("monitor.host", DefaultMonitorHost)
	v.SetDefault("monitor.port", DefaultMonitorPort)
	v.SetDefault("monitor.status_command", DefaultMonitorStatusCommand)
	v.SetDefault("monitor.load_stats_command", DefaultMonitorLoadStatsCommand)
	v.SetDefault("monitor.timeout_seconds", DefaultMonitorTimeoutSeconds)

	// Service defaults
	v.SetDefault("service.unit", DefaultServiceUnit)
	v.SetDefault("service.manager", DefaultServiceManager)

	// State defaults
	v.SetDefault("state.path", DefaultStatePath)
	v.SetDefault("logbook.path", DefaultLogbookPath)

	// Alert defaults
	v.SetDefault("alerts.enabled", DefaultAlertsEnabled)
	v.SetDefault("alerts.from", "")
	v.SetDefault("alerts.to", []string{})
	v.SetDefault("alerts.smtp.host", DefaultSMTPHost)
	v.SetDefault("alerts.smtp.port", DefaultSMTPPort)
	v.SetDefault("alerts.smtp.security", DefaultSMTPSecurity)
	v.SetDefault("alerts.smtp.username", "")
	v.SetDefault("alerts.smtp.password_env", DefaultSMTPPassword)

	// Metrics defaults
	v.SetDefault("metrics.textfile_dir", DefaultMetricsTextfileDir)
}

// setDefaults registers default values with the global viper instance.
// Called during Init() before reading config files.
func setDefaults() {
	setViperDefaults(viper.GetViper())
}
