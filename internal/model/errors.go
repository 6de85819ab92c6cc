package model

import (
	"errors"
	"fmt"
)

// Sentinel errors of the raspy error taxonomy. Library packages wrap these
// with fmt.Errorf("...: %w", ...) so the CLI can classify failures with
// errors.Is and pick an exit code.
var (
	// ErrNotFound indicates an input path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIO indicates GDAL (or the filesystem) could not read or write a path.
	ErrIO = errors.New("i/o error")

	// ErrShapeMismatch indicates inputs combined in one operation do not
	// have the same dimensions or band count.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidArgument indicates malformed user input (bad band index,
	// unknown data type, unsupported extension, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedUnits indicates the CRS units are not usable for the
	// requested computation (e.g. cell area in a degree-based CRS).
	ErrUnsupportedUnits = errors.New("unsupported CRS units")

	// ErrNoValidData indicates every cell is nodata, so no statistic exists.
	ErrNoValidData = errors.New("no valid data")
)

// ExitCode defines the process exit codes of the raspy tools.
// These codes allow scripts to programmatically determine the outcome of a
// command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidArgument indicates malformed command-line input. The value
	// matches the status argparse used for the same condition.
	ExitInvalidArgument ExitCode = 2

	// ExitIOError indicates an input could not be found/read or an output
	// could not be written.
	ExitIOError ExitCode = 3

	// ExitShapeMismatch indicates the inputs of a combined operation do not
	// conform to each other.
	ExitShapeMismatch ExitCode = 4

	// ExitUnsupportedUnits indicates the CRS units do not support the
	// requested computation.
	ExitUnsupportedUnits ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor classifies err into an exit code. A CLIError anywhere in the
// chain wins; otherwise the first matching sentinel decides.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return ExitInvalidArgument
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrIO):
		return ExitIOError
	case errors.Is(err, ErrShapeMismatch):
		return ExitShapeMismatch
	case errors.Is(err, ErrUnsupportedUnits):
		return ExitUnsupportedUnits
	default:
		return ExitGeneralError
	}
}
