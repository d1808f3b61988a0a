// Package errors provides error types and utilities for dossier.
// It extends the standard errors package with sentinel errors, wrapping
// helpers and a translation of low-level network errors into the short
// human-readable reasons recorded in a report.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates the run was interrupted before the operation started
	ErrCanceled = errors.New("operation canceled")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// unreachableError agrupa los fallos de conexión de varios intentos
// (https y http, por ejemplo) bajo un único motivo legible.
type unreachableError struct {
	causes []error
}

func (e *unreachableError) Error() string {
	return "could not connect to the server"
}

func (e *unreachableError) Unwrap() []error {
	return append([]error{ErrConnectionFailed}, e.causes...)
}

// Unreachable returns an error meaning no attempt reached the server.
// It matches ErrConnectionFailed and every non-nil cause.
func Unreachable(causes ...error) error {
	kept := make([]error, 0, len(causes))
	for _, c := range causes {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &unreachableError{causes: kept}
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsTimeout reports whether err is a timeout of any kind: the ErrTimeout
// sentinel, an expired context deadline or a net.Error that timed out.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrTimeout) || Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return As(err, &netErr) && netErr.Timeout()
}

// IsCanceled reports whether err comes from a canceled context.
func IsCanceled(err error) bool {
	return Is(err, ErrCanceled) || Is(err, context.Canceled)
}

// IsNotFound reports whether the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsInvalidInput reports whether the error is an invalid input error
func IsInvalidInput(err error) bool {
	return Is(err, ErrInvalidInput)
}

// IsConnectionFailed reports whether err means the remote end could not be
// reached at all, as opposed to answering with something unexpected.
func IsConnectionFailed(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrConnectionFailed) || Is(err, syscall.ECONNREFUSED) || IsTimeout(err) {
		return true
	}
	var dnsErr *net.DNSError
	if As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return As(err, &opErr)
}

// IsInvalidResponse reports whether the error is an invalid response error
func IsInvalidResponse(err error) bool {
	return Is(err, ErrInvalidResponse)
}

// Describe reduces err to the short reason stored in a failed report entry.
// Well-known network conditions collapse to a fixed phrase, anything else
// keeps its full message.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		dnsErr      *net.DNSError
		unreachable *unreachableError
	)
	switch {
	case IsCanceled(err):
		return "canceled"
	case IsTimeout(err):
		return "timed out"
	case As(err, &unreachable):
		return unreachable.Error()
	case As(err, &dnsErr) && dnsErr.IsNotFound:
		return "host not found"
	case Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	}

	return err.Error()
}
