package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	CodeFailure = 1
	CodeUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the error the exit was caused by, if any.
func (e *ExitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &ExitError{Code: CodeUsage, Message: err.Error(), err: err}
}

func failure(format string, err error) error {
	return &ExitError{Code: CodeFailure, Message: fmt.Sprintf(format, err), err: err}
}

// asExitError returns err as an ExitError. Errors that did not come from a
// command body are argument or flag errors reported by cobra.
func asExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: CodeUsage, Message: err.Error(), err: err}
}
