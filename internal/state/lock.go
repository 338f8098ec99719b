package state

import (
	"fmt"
	"os"
	"syscall"
)

// fileLock is an exclusive advisory flock on a dedicated lock file. It
// coordinates cooperating vpnwatch invocations only; it does not fence
// other programs.
type fileLock struct {
	f *os.File
}

// acquireLock opens (creating if needed) the lock file and blocks until
// an exclusive flock is held on it.
func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file; %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to acquire lock; %w", err)
	}

	return &fileLock{f: f}, nil
}

// release drops the flock and closes the lock file.
func (l *fileLock) release() {
	syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	l.f.Close()
}
