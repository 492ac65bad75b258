// Package tilegemm structured error types for configuration-time failures.
package tilegemm

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes kernel-suite errors. All kinds except
// KindExecution are configuration-time: surfaced before any launch,
// never retried, never silently degraded to a different path.
type ErrorKind int

const (
	// KindShapeMismatch reports incompatible operand dimensions or a
	// tile/warp-size precondition unmet by the chosen configuration.
	KindShapeMismatch ErrorKind = iota
	// KindUnsupportedAlgorithm reports an unrecognized algorithm tag.
	KindUnsupportedAlgorithm
	// KindDeviceUnavailable reports a GPU-class launch with no
	// accelerator present.
	KindDeviceUnavailable
	// KindExecution wraps a failure reported by the device during a
	// launch, passed through unchanged.
	KindExecution
)

// String returns the error kind as a string.
func (k ErrorKind) String() string {
	switch k {
	case KindShapeMismatch:
		return "ShapeMismatch"
	case KindUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case KindDeviceUnavailable:
		return "DeviceUnavailable"
	case KindExecution:
		return "Execution"
	default:
		return "Unknown"
	}
}

// Error is a structured error with the operation that failed and the
// failure category attached.
type Error struct {
	Kind    ErrorKind
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tilegemm %s error in %s: %s (caused by: %v)",
			e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("tilegemm %s error in %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap allows error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error constructors

// NewShapeMismatchError creates a shape/precondition error.
func NewShapeMismatchError(op, message string) error {
	return &Error{Kind: KindShapeMismatch, Op: op, Message: message}
}

// NewUnsupportedAlgorithmError creates an unknown-tag error.
func NewUnsupportedAlgorithmError(op, message string) error {
	return &Error{Kind: KindUnsupportedAlgorithm, Op: op, Message: message}
}

// NewDeviceUnavailableError creates a missing-accelerator error.
func NewDeviceUnavailableError(op, message string) error {
	return &Error{Kind: KindDeviceUnavailable, Op: op, Message: message}
}

// NewExecutionError wraps a launch failure reported by the device.
func NewExecutionError(op, message string, err error) error {
	return &Error{Kind: KindExecution, Op: op, Message: message, Err: err}
}

// Kind predicates

// IsShapeMismatch reports whether err is a ShapeMismatch error.
func IsShapeMismatch(err error) bool {
	return errorKind(err) == KindShapeMismatch
}

// IsUnsupportedAlgorithm reports whether err is an UnsupportedAlgorithm error.
func IsUnsupportedAlgorithm(err error) bool {
	return errorKind(err) == KindUnsupportedAlgorithm
}

// IsDeviceUnavailable reports whether err is a DeviceUnavailable error.
func IsDeviceUnavailable(err error) bool {
	return errorKind(err) == KindDeviceUnavailable
}

// IsExecutionError reports whether err is a passed-through launch failure.
func IsExecutionError(err error) bool {
	return errorKind(err) == KindExecution
}

func errorKind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKind(-1)
}
