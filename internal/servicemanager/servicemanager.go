// Package servicemanager installs and controls the systemd schedule
// that drives probe cycles: a oneshot service unit plus the timer that
// fires it.
package servicemanager

import (
	"os"
	"os/exec"
	"runtime"
)

// Platform represents an operating system platform.
type Platform string

const (
	// PlatformLinux represents Linux.
	PlatformLinux Platform = "linux"
	// PlatformUnknown represents any platform without a systemd schedule.
	PlatformUnknown Platform = "unknown"
)

// String returns the platform as a string.
func (p Platform) String() string {
	return string(p)
}

// DetectPlatform returns the current platform.
func DetectPlatform() Platform {
	if runtime.GOOS == "linux" {
		return PlatformLinux
	}
	return PlatformUnknown
}

// IsPlatformSupported returns true if the platform can host the
// schedule. The monitored unit lives in systemd, so only Linux
// qualifies.
func IsPlatformSupported(p Platform) bool {
	return p == PlatformLinux
}

// BinaryPath returns the path to the vpnwatch binary for unit file
// ExecStart lines. It prefers the running executable and falls back to
// a PATH lookup so the installed unit works after `go install`.
func BinaryPath() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}

	if path, err := exec.LookPath("vpnwatch"); err == nil {
		return path
	}

	return "vpnwatch"
}
