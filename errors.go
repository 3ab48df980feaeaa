package renderq

import (
	"fmt"
	"strings"
)

// ValidationError reports user input that cannot make a job.
// It is raised before any command is built, so nothing has run.
type ValidationError struct {
	// Fields are the offending field names, in form order.
	Fields []string

	// Reasons are human readable reasons, one per field.
	Reasons []string
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, field)
	e.Reasons = append(e.Reasons, reason)
}

// Error formats all problems as a single message for the user.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Reasons) == 0 {
		return "invalid job"
	}
	return "invalid job: " + strings.Join(e.Reasons, "; ")
}

// ProcessError reports a renderer command that couldn't be launched
// or exited with non-zero status.
type ProcessError struct {
	Command Command

	// ExitCode is the exit status of the process.
	// It is -1 when the process never ran or was killed by a signal.
	ExitCode int

	// Output is the tail of the command's combined output.
	Output string

	Err error
}

// Error formats process failures for logs.
func (e *ProcessError) Error() string {
	if e == nil {
		return ""
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf("render command failed to run (cmd=%s): %v", e.Command, e.Err)
	}
	return fmt.Sprintf("render command exited with %d (cmd=%s)", e.ExitCode, e.Command)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *ProcessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
