package cli

import "fmt"

// SilentError wraps an error whose message the command already printed.
// main exits non-zero without printing it again.
type SilentError struct {
	Err error
}

// NewSilentError wraps err so main does not print it.
func NewSilentError(err error) *SilentError {
	return &SilentError{Err: err}
}

func (e *SilentError) Error() string {
	if e.Err == nil {
		return "silent error"
	}
	return e.Err.Error()
}

func (e *SilentError) Unwrap() error { return e.Err }

// ExitError asks main to exit with Code without printing anything.
// Hooks use it because Claude Code reads meaning into specific exit codes.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
