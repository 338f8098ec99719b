// Package probe defines the vocabulary shared by the capabilities the
// decision engine drives: the result of one external command and the
// fingerprint derived from status output.
package probe

// Result captures the outcome of one external command: a management
// query, a supervisor status check, or a restart. Failures and timeouts
// are represented as a nonzero Code with the error text in Stderr; they
// are data, not panics.
type Result struct {
	Command string // human-readable descriptor of what ran
	Code    int    // 0 on success
	Stdout  string
	Stderr  string
}

// Succeeded reports whether the command exited cleanly.
func (r Result) Succeeded() bool {
	return r.Code == 0
}

// Failure builds a Result for a command that could not run at all. The
// error text lands in Stderr so it travels through diagnostics the same
// way a real stderr would.
func Failure(command string, err error) Result {
	return Result{
		Command: command,
		Code:    -1,
		Stderr:  err.Error(),
	}
}
