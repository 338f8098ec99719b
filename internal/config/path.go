package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir returns the default config directory path: the system
// directory when running as root, the per-user directory otherwise.
func ConfigDir() string {
	if os.Geteuid() == 0 {
		return systemConfigDir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return systemConfigDir
	}
	return filepath.Join(home, ".config", "vpnwatch")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0700)
}

// ConfigExists returns true if the config file exists at the default path.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}

// ConfigExistsAt returns true if a config file exists at the specified path.
func ConfigExistsAt(path string) bool {
	path = ExpandPath(path)
	_, err := os.Stat(path)
	return err == nil
}
