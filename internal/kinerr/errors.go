// Package kinerr defines the error taxonomy shared by the kinematics engines.
package kinerr

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// ErrParameterValidation marks out-of-range or physically infeasible input.
	ErrParameterValidation = errors.New("parameter validation failed")

	// ErrCalculation marks an internal invariant violation detected during or after computation.
	ErrCalculation = errors.New("calculation failed")

	// ErrConfiguration marks a degenerate setup, such as a sampling grid that is too small.
	ErrConfiguration = errors.New("configuration error")
)

// Error carries the operation and field that produced a failure.
type Error struct {
	Kind  error
	Op    string
	Field string
	Msg   string
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = e.Field + " " + msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Kind != nil {
		msg += " (" + e.Kind.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation reports a rejected parameter value.
func Validation(op, field, format string, args ...any) error {
	return &Error{Kind: ErrParameterValidation, Op: op, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Calculation reports a broken internal invariant.
func Calculation(op, format string, args ...any) error {
	return &Error{Kind: ErrCalculation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Configuration reports a degenerate configuration.
func Configuration(op, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind sentinel of err, or nil when err is not a kinematics error.
func KindOf(err error) error {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	return nil
}
