// internal/testutil/helpers.go
package testutil

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"dossier/internal/platform/logx"
)

// equal compara en profundidad: slices y mapas son válidos como argumento.
func equal(got, want interface{}) bool {
	return reflect.DeepEqual(got, want)
}

// AssertEqual verifica que dos valores sean iguales (reflect.DeepEqual).
func AssertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if !equal(got, want) {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// AssertNotEqual verifica que dos valores sean diferentes.
func AssertNotEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if equal(got, want) {
		t.Errorf("%s: got %v, should not equal %v", msg, got, want)
	}
}

// AssertNotNil verifica que un valor no sea nil.
func AssertNotNil(t *testing.T, got interface{}, msg string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: expected non-nil value", msg)
	}
}

// AssertError verifica que un error no sea nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}

// AssertNoError verifica que no haya error.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// RequireNoError es como AssertNoError pero aborta el test.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// AssertTrue verifica que una condición sea verdadera.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", msg)
	}
}

// AssertFalse verifica que una condición sea falsa.
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", msg)
	}
}

// AssertContains verifica que un slice contenga un elemento O que un string contenga un substring.
func AssertContains(t *testing.T, container interface{}, element string, msg string) {
	t.Helper()

	switch v := container.(type) {
	case []string:
		for _, item := range v {
			if item == element {
				return
			}
		}
		t.Errorf("%s: slice %v does not contain %s", msg, v, element)
	case string:
		if !strings.Contains(v, element) {
			t.Errorf("%s: string %q does not contain %q", msg, v, element)
		}
	default:
		t.Errorf("%s: unsupported type for AssertContains", msg)
	}
}

// AssertNotContains es el inverso de AssertContains.
func AssertNotContains(t *testing.T, container interface{}, element string, msg string) {
	t.Helper()

	switch v := container.(type) {
	case []string:
		for _, item := range v {
			if item == element {
				t.Errorf("%s: slice %v should not contain %s", msg, v, element)
				return
			}
		}
	case string:
		if strings.Contains(v, element) {
			t.Errorf("%s: string %q should not contain %q", msg, v, element)
		}
	default:
		t.Errorf("%s: unsupported type for AssertNotContains", msg)
	}
}

// AssertLen verifica la longitud de un slice de strings.
func AssertLen(t *testing.T, slice []string, want int, msg string) {
	t.Helper()
	if len(slice) != want {
		t.Errorf("%s: got length %d (%v), want %d", msg, len(slice), slice, want)
	}
}

// HasPrefixIn informa si algún elemento de items empieza por prefix.
func HasPrefixIn(items []string, prefix string) bool {
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			return true
		}
	}
	return false
}

// SilentLogger retorna un logger real que descarta todo, para tests.
func SilentLogger() logx.Logger {
	return logx.NewWithWriter(io.Discard, logx.LevelError)
}
