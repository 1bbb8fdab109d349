package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, config FileLoggerConfig) (*FileLogger, string) {
	t.Helper()

	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "test.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error: %v", err)
	}
	return logger, config.Path
}

func TestFileLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: path, Format: FormatText})
	if err != nil {
		t.Fatalf("NewFileLogger() error: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)

	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestFileLoggerJSONFormat(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: DebugLevel})
	ctx := context.Background()

	logger.Info(ctx, "organised new file", Fields{"name": "a.txt", "fingerprint": "abc"})
	logger.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v\nline: %s", err, content)
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["message"] != "organised new file" {
		t.Errorf("message = %v, want %q", entry["message"], "organised new file")
	}
	if entry["name"] != "a.txt" {
		t.Errorf("name field = %v, want a.txt", entry["name"])
	}
}

func TestFileLoggerWithFields(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: DebugLevel})
	ctx := context.Background()

	child := logger.WithFields(Fields{"operation_id": "op-1"})
	child.Info(ctx, "scoped message", Fields{"name": "b.txt"})
	logger.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)

	if !strings.Contains(out, "operation_id=op-1") {
		t.Errorf("log missing inherited field, got: %s", out)
	}
	if !strings.Contains(out, "name=b.txt") {
		t.Errorf("log missing call field, got: %s", out)
	}
}

func TestFileLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	logger, _ := newTestLogger(t, FileLoggerConfig{
		Path:       path,
		Format:     FormatText,
		Level:      DebugLevel,
		MaxSize:    256,
		MaxBackups: 2,
	})
	ctx := context.Background()

	// Enough volume to trip rotation at least once.
	for i := 0; i < 50; i++ {
		logger.Info(ctx, "a message long enough to consume space in the log file", nil)
	}
	logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("active log file missing after rotation: %v", err)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated backup missing: %v", err)
	}
	if _, err := os.Stat(path + ".3"); err == nil {
		t.Error("backup beyond MaxBackups should not exist")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
