// Package errs defines coded errors shared across the harness.
// Scenario code inspects codes rather than error strings, so every
// failure path in fixture generation, sequencing, and the identity
// client wraps its cause in a coded error.
package errs

import (
	"errors"
)

// Code is a harness error code.
type Code string

const (
	InvalidArgument      Code = "invalid_argument"
	PreconditionTimeout  Code = "precondition_timeout"
	ActionTimeout        Code = "action_timeout"
	PostconditionTimeout Code = "postcondition_timeout"
	Exhausted            Code = "exhausted"
	APIFailure           Code = "api_failure"
	Internal             Code = "internal"
)

// Error is a coded harness error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// IsTimeout reports whether the code names one of the three bounded-wait
// failures a sequencer phase can produce.
func IsTimeout(code Code) bool {
	switch code {
	case PreconditionTimeout, ActionTimeout, PostconditionTimeout:
		return true
	default:
		return false
	}
}

// MessageOf returns a message suitable for scenario summaries.
// Errors without a typed wrapper collapse to "internal error" so raw
// driver output never ends up in a triage report.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return "internal error"
}
