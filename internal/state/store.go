// Package state persists the status fingerprint between invocations.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

const (
	dirMode  = 0o750
	fileMode = 0o640
)

// Store reads and writes the fingerprint recorded by the previous run.
// The on-disk format is a single line of lowercase hex plus a trailing
// newline. Each read and each write holds an exclusive flock on a
// sibling lock file for its own duration only, so two fully overlapping
// invocations may observe the same baseline; writes go through a
// sibling temp file and a rename, so a reader never sees a partial
// fingerprint.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given state file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the fingerprint persisted by the previous run. A
// missing, unreadable, or malformed state file reads as "no baseline"
// (ok false); Read never fails the cycle.
func (s *Store) Read() (probe.Fingerprint, bool) {
	lock, err := acquireLock(s.lockPath())
	if err != nil {
		return "", false
	}
	defer lock.release()

	content, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	fp := probe.Fingerprint(strings.TrimSpace(string(content)))
	if !fp.Valid() {
		return "", false
	}

	return fp, true
}

// Write persists fp atomically: the new content lands in a sibling temp
// file which is then renamed over the canonical path. The state
// directory is created 0750 and the file chmodded 0640; chmod
// permission errors are swallowed (ownership hardening is best-effort,
// persistence is not).
func (s *Store) Write(fp probe.Fingerprint) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("failed to create state directory; %w", err)
	}

	lock, err := acquireLock(s.lockPath())
	if err != nil {
		return fmt.Errorf("failed to lock state file; %w", err)
	}
	defer lock.release()

	tmpPath := s.tempPath()
	if err := os.WriteFile(tmpPath, []byte(fp.String()+"\n"), fileMode); err != nil {
		return fmt.Errorf("failed to write temporary state file; %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on error
		return fmt.Errorf("failed to rename state file; %w", err)
	}

	if err := os.Chmod(s.path, fileMode); err != nil && !os.IsPermission(err) {
		return fmt.Errorf("failed to set state file mode; %w", err)
	}

	return nil
}

// lockPath returns the sibling lock file path (".<name>.lock").
func (s *Store) lockPath() string {
	dir, name := filepath.Split(s.path)
	return filepath.Join(dir, "."+name+".lock")
}

// tempPath returns the sibling temp file path with the extension
// swapped to ".tmp".
func (s *Store) tempPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".tmp"
}
