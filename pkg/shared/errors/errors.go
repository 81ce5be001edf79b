package errors

// Exit codes returned by the CLI.
const (
	ExitInvalidArguments = 1
	ExitTrackingFailure  = 2
	ExitOutputFailure    = 3
)

// CommandError represents an error that occurred while running a command, together with the process exit code.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance wrapping err.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}
