package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (word not found, store failure, scenarios failed)
	ExitCommandError = 2 // Command error (bad arguments, invalid config, missing paths)
)

// Error codes used in JSON error responses.
const (
	CodeNotFound   = "E_NOT_FOUND"
	CodeStore      = "E_STORE"
	CodeTestFailed = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// TextWriter is implemented by results that render themselves as text.
type TextWriter interface {
	WriteText(w io.Writer)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // E_NOT_FOUND, E_STORE, ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if tw, ok := data.(TextWriter); ok {
		tw.WriteText(f.Writer)
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

// Fail reports a failed operation and returns the ExitError for it.
// JSON output gets an error envelope on stdout. Text output leaves reporting
// to the caller of Execute, which prints the returned error to stderr.
func (f *OutputFormatter) Fail(exitCode int, code, message string) error {
	return f.FailWith(exitCode, code, message, nil)
}

// FailWith is Fail with an underlying cause. JSON output carries the cause
// as error details and the returned ExitError wraps it.
func (f *OutputFormatter) FailWith(exitCode int, code, message string, cause error) error {
	if f.Format == "json" {
		var details any
		if cause != nil {
			details = cause.Error()
		}
		if err := f.Error(code, message, details); err != nil {
			return err
		}
	}
	if cause != nil {
		return WrapExitError(exitCode, message, cause)
	}
	return NewExitError(exitCode, message)
}
