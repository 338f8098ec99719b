package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for the agent.
type Config struct {
	LogLevel string        `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string        `yaml:"log_file" mapstructure:"log_file"`
	Monitor  MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	Service  ServiceConfig `yaml:"service" mapstructure:"service"`
	State    StateConfig   `yaml:"state" mapstructure:"state"`
	Logbook  LogbookConfig `yaml:"logbook" mapstructure:"logbook"`
	Alerts   AlertsConfig  `yaml:"alerts" mapstructure:"alerts"`
	Metrics  MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// MonitorConfig holds management endpoint configuration.
type MonitorConfig struct {
	Host             string `yaml:"host" mapstructure:"host"`
	Port             int    `yaml:"port" mapstructure:"port"`
	StatusCommand    string `yaml:"status_command" mapstructure:"status_command"`
	LoadStatsCommand string `yaml:"load_stats_command" mapstructure:"load_stats_command"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Timeout returns the per-call timeout shared by every external call
// the agent makes during one cycle.
func (c *MonitorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServiceConfig identifies the supervised unit and how to reach the
// supervisor.
type ServiceConfig struct {
	Unit    string `yaml:"unit" mapstructure:"unit"`
	Manager string `yaml:"manager" mapstructure:"manager"`
}

// StateConfig holds fingerprint store configuration.
type StateConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogbookConfig holds monitor log configuration.
type LogbookConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AlertsConfig holds operator notification configuration.
type AlertsConfig struct {
	Enabled bool       `yaml:"enabled" mapstructure:"enabled"`
	From    string     `yaml:"from" mapstructure:"from"`
	To      []string   `yaml:"to,flow" mapstructure:"to"`
	SMTP    SMTPConfig `yaml:"smtp" mapstructure:"smtp"`
}

// SMTPConfig holds alert transport configuration.
type SMTPConfig struct {
	Host        string  `yaml:"host" mapstructure:"host"`
	Port        int     `yaml:"port" mapstructure:"port"`
	Security    string  `yaml:"security" mapstructure:"security"`
	Username    string  `yaml:"username" mapstructure:"username"`
	Password    *string `yaml:"password,omitempty" mapstructure:"password"`
	PasswordEnv string  `yaml:"password_env" mapstructure:"password_env"`
}

// ResolvePassword returns the SMTP password from config or falls back
// to the environment variable.
func (c *SMTPConfig) ResolvePassword() string {
	if c.Password != nil && *c.Password != "" {
		return *c.Password
	}
	return os.Getenv(c.PasswordEnv)
}

// MetricsConfig holds textfile exporter configuration. An empty
// directory disables the export.
type MetricsConfig struct {
	TextfileDir string `yaml:"textfile_dir" mapstructure:"textfile_dir"`
}
