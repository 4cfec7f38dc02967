package pipeline

import "fmt"

// ResubError is a custom error type that carries a process exit code. The
// CLI uses this to communicate specific exit codes back to main.go without
// every command needing to know about os.Exit directly.
type ResubError struct {
	Code    int
	Message string
	Err     error
}

func (e *ResubError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResubError) Unwrap() error {
	return e.Err
}

// NewError creates a ResubError with ExitError (1), for fatal JobError and
// ConfigurationError conditions (spec.md §7).
func NewError(msg string, err error) *ResubError {
	return &ResubError{Code: int(ExitError), Message: msg, Err: err}
}

// NewCancelledError creates a ResubError with ExitCancelled (130) for a Job
// terminated by cancel(). Per spec.md §5, cancellation is a *successful*
// return from the Scheduler's perspective; callers that want a distinct
// process exit code for cancellation use this wrapper.
func NewCancelledError(msg string) *ResubError {
	return &ResubError{Code: int(ExitCancelled), Message: msg}
}
