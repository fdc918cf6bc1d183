// Package errors defines the stable error code system for tramy.
package errors

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract; scripts may match on them.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Precondition and configuration integrity
	ENotInitialized Code = "E_NOT_INITIALIZED"
	EInvalidConfig  Code = "E_INVALID_CONFIG"

	// User input
	EUnknownRole     Code = "E_UNKNOWN_ROLE"
	ERoleNotEnabled  Code = "E_ROLE_NOT_ENABLED"
	EUnknownWorkflow Code = "E_UNKNOWN_WORKFLOW"

	// I/O
	EScanFailed  Code = "E_SCAN_FAILED"
	EWriteFailed Code = "E_WRITE_FAILED"

	// Concurrency
	EProjectLocked Code = "E_PROJECT_LOCKED"

	// Health checks
	EDoctorFailed Code = "E_DOCTOR_FAILED"
)

// HintKey is the Details key printed as a guidance line under the message.
const HintKey = "hint"

// TramyError is the standard error type for tramy errors.
type TramyError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *TramyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *TramyError) Unwrap() error {
	return e.Cause
}

// Hint returns the guidance line attached to the error, if any.
func (e *TramyError) Hint() string {
	if e.Details == nil {
		return ""
	}
	return e.Details[HintKey]
}

// New creates a new TramyError with the given code and message.
func New(code Code, msg string) error {
	return &TramyError{Code: code, Msg: msg}
}

// NewWithDetails creates a new TramyError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &TramyError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// NewWithHint creates a new TramyError carrying a guidance line.
func NewWithHint(code Code, msg, hint string) error {
	return &TramyError{Code: code, Msg: msg, Details: map[string]string{HintKey: hint}}
}

// Wrap creates a new TramyError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &TramyError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new TramyError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &TramyError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a TramyError.
func GetCode(err error) Code {
	var te *TramyError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// AsTramyError returns (*TramyError, true) if err is or wraps a TramyError.
func AsTramyError(err error) (*TramyError, bool) {
	var te *TramyError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>[: <cause>]
//	hint: <guidance>
//
// The hint line is omitted when the error carries none.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	te, ok := AsTramyError(err)
	if !ok {
		fmt.Fprintln(w, err.Error())
		return
	}

	fmt.Fprintf(w, "error_code: %s\n", color.New(color.FgRed, color.Bold).Sprint(te.Code))
	msg := te.Msg
	if te.Cause != nil {
		msg += ": " + te.Cause.Error()
	}
	fmt.Fprintln(w, msg)
	if hint := te.Hint(); hint != "" {
		fmt.Fprintf(w, "hint: %s\n", color.New(color.FgYellow).Sprint(hint))
	}
}
