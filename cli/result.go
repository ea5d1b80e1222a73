package cli

// Exit codes carried by CommandError.
const (
	// ExitFailure means the input could not be loaded, converted or processed.
	ExitFailure = 1
	// ExitUnmatched means gains were computed but --strict was set and at
	// least one withdrawal exceeded the available lots.
	ExitUnmatched = 2
)

// CommandError reports a failed command after it has printed its own
// diagnostics. main exits with ExitCode instead of printing the error again.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the process exit code.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
