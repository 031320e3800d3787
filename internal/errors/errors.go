package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig      = "CONFIG"
	ErrUnavailable = "UNAVAILABLE"
	ErrParse       = "PARSE"
	ErrPermission  = "PERMISSION"
	ErrNetwork     = "NETWORK"
	ErrAuth        = "AUTH"
	ErrProtocol    = "PROTOCOL"
	ErrExec        = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with the multi-line layout above.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single-line form of the error, suitable for a status bar.
func (e *Error) Short() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Coder is implemented by domain errors that carry their own code without
// being wrapped in an Error.
type Coder interface {
	ErrorCode() string
}

// IsCode checks if an error is a structured Error, or a Coder, with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var siErr *Error
	if errors.As(err, &siErr) {
		return siErr.Code == code
	}
	var coder Coder
	if errors.As(err, &coder) {
		return coder.ErrorCode() == code
	}
	return false
}

// IsSuppressed reports whether err means "the service is not there" rather
// than "the service is broken". Such errors produce no output and exit 0.
func IsSuppressed(err error) bool {
	return IsCode(err, ErrNetwork)
}

// ShortMessage returns a one-line message for any error.
func ShortMessage(err error) string {
	if err == nil {
		return ""
	}
	var siErr *Error
	if errors.As(err, &siErr) {
		return siErr.Short()
	}
	return strings.TrimSpace(err.Error())
}

// ExitError carries a process exit code without an additional message.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError for the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the exit code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
