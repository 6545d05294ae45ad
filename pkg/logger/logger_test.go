package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var console bytes.Buffer
	l := newLogger(t.TempDir(), &console, "", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()

	if !strings.Contains(console.String(), "[TEST]: Test info message") {
		t.Errorf("console output missing info line: %q", console.String())
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestFileHooksSplitByLevel(t *testing.T) {
	dir := t.TempDir()
	l := newLogger(dir, &bytes.Buffer{}, "", "")

	l.Info("todo bien", "DB")
	l.Critical("se cayó todo", "DB")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatalf("reading combined.log: %v", err)
	}
	errorsLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("reading error.log: %v", err)
	}

	if !strings.Contains(string(combined), "[INFO] [DB]: todo bien") {
		t.Errorf("combined.log missing info line: %q", combined)
	}
	if !strings.Contains(string(combined), "[CRITICAL] [DB]: se cayó todo") {
		t.Errorf("combined.log missing critical line: %q", combined)
	}
	if strings.Contains(string(errorsLog), "todo bien") {
		t.Errorf("error.log should not contain info lines: %q", errorsLog)
	}
	if !strings.Contains(string(errorsLog), "[CRITICAL] [DB]: se cayó todo") {
		t.Errorf("error.log missing critical line: %q", errorsLog)
	}
	if strings.Contains(string(combined), "\033[") {
		t.Error("file output should not carry ANSI colors")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
