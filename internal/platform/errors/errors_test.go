package errors

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"dossier/internal/testutil"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		baseErr := New("base error")
		wrapped := Wrap(baseErr, "additional context")

		testutil.AssertNotNil(t, wrapped, "wrapped error should not be nil")
		testutil.AssertTrue(t, Is(wrapped, baseErr), "should be able to unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "additional context: base error", "error message should include context")
	})

	t.Run("returns nil when wrapping nil", func(t *testing.T) {
		testutil.AssertTrue(t, Wrap(nil, "context") == nil, "wrapping nil should return nil")
	})

	t.Run("multiple wraps preserve chain", func(t *testing.T) {
		baseErr := New("base")
		wrapped := Wrap(Wrap(baseErr, "layer 1"), "layer 2")

		testutil.AssertTrue(t, Is(wrapped, baseErr), "should unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "layer 2: layer 1: base", "should show full chain")
	})
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrNotFound, "path %s", "/admin")
	testutil.AssertTrue(t, IsNotFound(wrapped), "should unwrap to sentinel")
	testutil.AssertEqual(t, wrapped.Error(), "path /admin: resource not found", "formatted context")
	testutil.AssertTrue(t, Wrapf(nil, "x %d", 1) == nil, "wrapping nil should return nil")
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrTimeout, true},
		{"wrapped sentinel", Wrap(ErrTimeout, "whois"), true},
		{"context deadline", Wrap(context.DeadlineExceeded, "dial"), true},
		{"net timeout", &net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded}, true},
		{"other error", ErrNotFound, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsTimeout(tt.err), tt.want, "IsTimeout result should match")
		})
	}
}

func TestIsCanceled(t *testing.T) {
	testutil.AssertTrue(t, IsCanceled(ErrCanceled), "sentinel")
	testutil.AssertTrue(t, IsCanceled(Wrap(context.Canceled, "get")), "wrapped context error")
	testutil.AssertFalse(t, IsCanceled(ErrTimeout), "timeout is not cancellation")
}

func TestIsConnectionFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrConnectionFailed, true},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}}, true},
		{"dns error", &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}, true},
		{"timeout", context.DeadlineExceeded, true},
		{"invalid response", ErrInvalidResponse, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsConnectionFailed(tt.err), tt.want, "IsConnectionFailed result should match")
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", Wrap(context.DeadlineExceeded, "tls handshake"), "timed out"},
		{"canceled", context.Canceled, "canceled"},
		{"dns not found", Wrap(&net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}, "lookup"), "host not found"},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}}, "connection refused"},
		{"unreachable", Wrap(Unreachable(New("dial tcp: no route to host"), &net.DNSError{Err: "no such host", IsNotFound: true}), "headers"), "could not connect to the server"},
		{"unreachable after timeout", Unreachable(context.DeadlineExceeded), "timed out"},
		{"plain", Wrap(ErrInvalidResponse, "geolocation"), "geolocation: invalid response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, Describe(tt.err), tt.want, "Describe result should match")
		})
	}
}

func TestUnreachable(t *testing.T) {
	cause := New("connection reset")
	err := Unreachable(nil, cause)

	testutil.AssertEqual(t, err.Error(), "could not connect to the server", "fixed message")
	testutil.AssertTrue(t, Is(err, ErrConnectionFailed), "matches ErrConnectionFailed")
	testutil.AssertTrue(t, Is(err, cause), "keeps causes")
	testutil.AssertTrue(t, IsConnectionFailed(err), "is a connection failure")
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrTimeout, "operation timed out"},
		{ErrCanceled, "operation canceled"},
		{ErrNotFound, "resource not found"},
		{ErrInvalidInput, "invalid input"},
		{ErrConnectionFailed, "connection failed"},
		{ErrInvalidResponse, "invalid response"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			testutil.AssertEqual(t, tt.err.Error(), tt.want, "error message should match")
		})
	}
}

func TestJoin(t *testing.T) {
	err1 := New("error 1")
	err2 := New("error 2")

	joined := Join(err1, nil, err2)
	testutil.AssertTrue(t, Is(joined, err1), "should find first error")
	testutil.AssertTrue(t, Is(joined, err2), "should find second error")
	testutil.AssertTrue(t, Join(nil, nil) == nil, "should return nil when all errors are nil")
}

func ExampleDescribe() {
	err := Wrap(context.DeadlineExceeded, "whois query")
	fmt.Println(Describe(err))
	// Output: timed out
}

func ExampleWrapf() {
	wrapped := Wrapf(New("invalid format"), "failed to parse file %s", "dossier.yaml")
	fmt.Println(wrapped.Error())
	// Output: failed to parse file dossier.yaml: invalid format
}
