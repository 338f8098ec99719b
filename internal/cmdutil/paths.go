// Package cmdutil provides small helpers shared by the CLI commands.
package cmdutil

import (
	"path/filepath"

	"github.com/leefowlercu/vpnwatch/internal/config"
)

// ResolvePath expands a leading ~ and returns an absolute, cleaned
// path. An empty input stays empty so callers can treat it as unset.
func ResolvePath(path string) (string, error) {
	expanded := config.ExpandPath(path)
	if expanded == "" {
		return "", nil
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}
