package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{" DEBUG ", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"verbose", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewLogger_DefaultOutput(t *testing.T) {
	logger := NewLogger(LoggerConfig{})
	if logger.output == nil {
		t.Error("expected default output to be set")
	}
	logger.Info("discarded")
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf, Prefix: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", "test: "} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if n := strings.Count(output, "\n"); n != 4 {
		t.Errorf("expected 4 lines, got %d", n)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")

	output := buf.String()
	if strings.Contains(output, "[DEBUG]") || strings.Contains(output, "[INFO]") {
		t.Errorf("expected debug and info filtered out:\n%s", output)
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("expected WARN in output")
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf})

	logger.Info("baud %d on %s", 9600, "/dev/ttyUSB0")
	if !strings.Contains(buf.String(), "baud 9600 on /dev/ttyUSB0") {
		t.Errorf("expected formatted message, got: %s", buf.String())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf}).
		WithComponent("serial").
		WithFields(map[string]any{"port": "/dev/ttyS0", "baud": 300})

	logger.Info("opened")
	if !strings.Contains(buf.String(), "{baud=300, component=serial, port=/dev/ttyS0}") {
		t.Errorf("unexpected fields: %s", buf.String())
	}
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LoggerConfig{Output: &buf})
	_ = parent.WithField("key", "value")

	parent.Info("plain")
	if strings.Contains(buf.String(), "key=value") {
		t.Errorf("parent logger gained a field: %s", buf.String())
	}
}

func TestLogger_ChildKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})
	child := parent.WithComponent("app")

	child.Info("hidden")
	child.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") || !strings.Contains(output, "shown") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing %d", 1)
	NullLogger.WithComponent("x").Warn("still nothing")

	var nilLogger *Logger
	nilLogger.Info("no panic")
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err := OpenLogFile(path, LogLevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("first")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	logger, closer, err = OpenLogFile(path, LogLevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("filtered")
	logger.Info("second")
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "first") || !strings.Contains(text, "second") || strings.Contains(text, "filtered") {
		t.Errorf("log file = %q", text)
	}
}

func TestOpenLogFile_BadPath(t *testing.T) {
	_, _, err := OpenLogFile(filepath.Join(t.TempDir(), "missing", "debug.log"), LogLevelInfo)
	if err == nil {
		t.Fatal("expected error")
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "open log" {
		t.Errorf("err = %v", err)
	}
}

func TestGetLogger(t *testing.T) {
	SetLogger(nil)
	if GetLogger() != NullLogger {
		t.Error("expected NullLogger before SetLogger")
	}

	logger := NewLogger(DefaultLoggerConfig())
	SetLogger(logger)
	defer SetLogger(nil)
	if GetLogger() != logger {
		t.Error("GetLogger did not return the set logger")
	}
}
