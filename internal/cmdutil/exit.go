package cmdutil

import "fmt"

// ExitError signals a specific process exit code without calling
// os.Exit inside command code. main unwraps it after Execute returns.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Exit returns nil for code 0 and an ExitError otherwise, so commands
// can return it directly from RunE.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return ExitError{Code: code}
}
