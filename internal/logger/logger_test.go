package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestLoggerOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelDebug)

	l.Debug("guarded-division", "debug message")
	l.Info("guarded-division", "info message")
	l.Warn("guarded-division", "warn message")
	l.Error("guarded-division", "error message")

	output := buf.String()

	if !strings.Contains(output, "[DEBUG]") {
		t.Error("expected DEBUG log")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("expected INFO log")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("expected WARN log")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("expected ERROR log")
	}
	if !strings.Contains(output, "[guarded-division]") {
		t.Error("expected scope in log")
	}
}

func TestLoggerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelWarn)

	l.Debug("", "debug message")
	l.Info("", "info message")
	l.Warn("", "warn message")
	l.Error("", "error message")

	output := buf.String()

	if strings.Contains(output, "[DEBUG]") {
		t.Error("DEBUG should be filtered")
	}
	if strings.Contains(output, "[INFO]") {
		t.Error("INFO should be filtered")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("expected WARN log")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("expected ERROR log")
	}
}

func TestLoggerSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelError)

	l.Info("", "should not appear")

	if strings.Contains(buf.String(), "should not appear") {
		t.Error("INFO should be filtered at ERROR level")
	}

	l.SetLevel(LevelInfo)
	l.Info("", "should appear")

	if !strings.Contains(buf.String(), "should appear") {
		t.Error("INFO should appear after SetLevel")
	}
}

func TestLoggerWithoutScope(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelInfo)

	l.Info("", "message without scope")

	output := buf.String()

	// Should not have empty brackets
	if strings.Contains(output, "[]") {
		t.Error("should not have empty brackets for scope")
	}
	if !strings.Contains(output, "message without scope") {
		t.Error("expected message in output")
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelInfo)

	l.Info("guarded-division", "count: %d, name: %s", 42, "test")

	output := buf.String()

	if !strings.Contains(output, "count: 42, name: test") {
		t.Errorf("expected formatted message, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerSetOutput(t *testing.T) {
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}
	l := New(first, LevelInfo)

	l.SetOutput(second)
	l.Info("", "redirected")

	if first.Len() != 0 {
		t.Error("expected nothing written to the first writer")
	}
	if !strings.Contains(second.String(), "redirected") {
		t.Error("expected message in the second writer")
	}
}

func TestLoggerEnabled(t *testing.T) {
	l := New(&bytes.Buffer{}, LevelWarn)

	if l.Enabled(LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !l.Enabled(LevelError) {
		t.Error("ERROR should be enabled at WARN level")
	}
}
