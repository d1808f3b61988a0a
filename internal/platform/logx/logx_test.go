// internal/platform/logx/logx_test.go
package logx

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newBufferLogger(lvl Level) (*simpleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, lvl).(*simpleLogger)
	l.core.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestNew(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	logger := New().(*simpleLogger)
	if logger.core.lvl != LevelWarn {
		t.Fatalf("expected level from %s, got %v", EnvLevel, logger.core.lvl)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DBG", LevelDebug},
		{"  debug  ", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"wrn", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKVPairs(t *testing.T) {
	tests := []struct {
		name     string
		input    []any
		expected []string
	}{
		{"empty input", []any{}, []string{}},
		{"single pair", []any{"key", "value"}, []string{"key=value"}},
		{"odd number of elements", []any{"key1", "value1", "key2"}, []string{"key1=value1", "key2=(missing)"}},
		{"numeric values", []any{"count", 42, "enabled", true}, []string{"count=42", "enabled=true"}},
		{"value with spaces", []any{"reason", "timed out"}, []string{`reason="timed out"`}},
		{"empty value", []any{"server", ""}, []string{`server=""`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := kvPairs(tt.input...)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d pairs, got %d (%v)", len(tt.expected), len(result), result)
			}
			for i, exp := range tt.expected {
				if result[i] != exp {
					t.Errorf("pair %d: expected %q, got %q", i, exp, result[i])
				}
			}
		})
	}
}

func TestLogger_Format(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.Info("lookup finished", "lookup", "dns", "ok", true)

	want := "03:04:05 INF lookup finished lookup=dns ok=true\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLogger_Err(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.Err(nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error should not log, got %q", buf.String())
	}

	logger.Err(errors.New("boom"), "phase", "render")
	want := "03:04:05 ERR error=boom phase=render\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be filtered, got %q", out)
	}
	if !strings.Contains(out, "WRN shown") {
		t.Errorf("warn message missing, got %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	scoped := logger.With("component", "dispatcher")
	scoped.Info("start")
	logger.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "component=dispatcher") {
		t.Errorf("scoped line should carry scope, got %q", lines[0])
	}
	if strings.Contains(lines[1], "component=") {
		t.Errorf("parent logger must not inherit scope, got %q", lines[1])
	}
}

func TestLogger_SetLevelSharedWithClones(t *testing.T) {
	logger, buf := newBufferLogger(LevelError)
	scoped := logger.With("lookup", "whois")

	logger.SetLevel(LevelDebug)
	scoped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("SetLevel on parent should apply to clones, got %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.With("worker", n).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}
