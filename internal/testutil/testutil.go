// Package testutil provides isolated test environments for command and
// agent tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/vpnwatch/internal/config"
)

// Env is an isolated test environment. All paths the agent touches are
// redirected into per-test temp directories through VPNWATCH_*
// environment variables, so tests never read /etc/vpnwatch or write
// under /var.
type Env struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// NewEnv creates an isolated test environment and reinitializes the
// config subsystem inside it. Cleanup is automatic via t.Cleanup.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	configDir := filepath.Join(t.TempDir(), "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create test config dir: %v", err)
	}

	dataDir := filepath.Join(t.TempDir(), "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("failed to create test data dir: %v", err)
	}

	// t.Setenv is test-scoped; viper picks these up via AutomaticEnv.
	t.Setenv("VPNWATCH_CONFIG_DIR", configDir)
	t.Setenv("VPNWATCH_STATE_PATH", filepath.Join(dataDir, "last_status_md5.txt"))
	t.Setenv("VPNWATCH_LOGBOOK_PATH", filepath.Join(dataDir, "probe.log"))
	t.Setenv("VPNWATCH_LOG_FILE", filepath.Join(dataDir, "agent.log"))

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}

	env := &Env{
		t:         t,
		ConfigDir: configDir,
		DataDir:   dataDir,
	}

	t.Cleanup(func() {
		config.Reset()
	})

	return env
}

// StatePath returns the redirected fingerprint state file path.
func (e *Env) StatePath() string {
	return filepath.Join(e.DataDir, "last_status_md5.txt")
}

// LogbookPath returns the redirected monitor log path.
func (e *Env) LogbookPath() string {
	return filepath.Join(e.DataDir, "probe.log")
}

// WriteConfig writes content as the environment's config.yaml and
// reinitializes the config subsystem so it takes effect.
func (e *Env) WriteConfig(content string) string {
	e.t.Helper()

	path := filepath.Join(e.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write test config: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to reinitialize test config: %v", err)
	}

	return path
}
