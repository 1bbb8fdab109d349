package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
}

// FileLogger implements Logger with file output and size-based rotation
type FileLogger struct {
	config FileLoggerConfig
	fields Fields

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewFileLogger creates a new file logger, creating the log directory if
// needed and appending to an existing file.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		config: config,
		file:   file,
		size:   info.Size(),
	}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger carrying additional fields. The derived
// logger shares the underlying file with its parent.
func (l *FileLogger) WithFields(fields Fields) Logger {
	merged := mergeFields(l.fields, fields)
	return &derivedLogger{parent: l, fields: merged}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	if l.config.MaxSize > 0 && l.size >= l.config.MaxSize {
		l.rotate()
	}

	merged := mergeFields(l.fields, fields)

	var line []byte
	if l.config.Format == FormatJSON {
		line = formatJSON(level, msg, err, merged)
	} else {
		line = formatText(level, msg, err, merged)
	}
	if line == nil {
		return
	}

	n, _ := l.file.Write(line)
	l.size += int64(n)
}

// rotate shifts path -> path.1 -> path.2 ... dropping the oldest backup.
// Called with the mutex held.
func (l *FileLogger) rotate() {
	l.file.Close()

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(
			fmt.Sprintf("%s.%d", l.config.Path, i),
			fmt.Sprintf("%s.%d", l.config.Path, i+1),
		)
	}
	os.Rename(l.config.Path, l.config.Path+".1")
	if l.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", l.config.Path, l.config.MaxBackups+1))
	}

	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.file = nil
		return
	}
	l.file = file
	l.size = 0
}

// derivedLogger forwards to its parent with pre-merged fields
type derivedLogger struct {
	parent *FileLogger
	fields Fields
}

func (d *derivedLogger) Debug(ctx context.Context, msg string, fields Fields) {
	d.parent.log(DebugLevel, msg, nil, mergeFields(d.fields, fields))
}

func (d *derivedLogger) Info(ctx context.Context, msg string, fields Fields) {
	d.parent.log(InfoLevel, msg, nil, mergeFields(d.fields, fields))
}

func (d *derivedLogger) Warn(ctx context.Context, msg string, fields Fields) {
	d.parent.log(WarnLevel, msg, nil, mergeFields(d.fields, fields))
}

func (d *derivedLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	d.parent.log(ErrorLevel, msg, err, mergeFields(d.fields, fields))
}

func (d *derivedLogger) WithFields(fields Fields) Logger {
	return &derivedLogger{parent: d.parent, fields: mergeFields(d.fields, fields)}
}

// Close is a no-op on derived loggers; the parent owns the file
func (d *derivedLogger) Close() error {
	return nil
}

func mergeFields(base, extra Fields) Fields {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func formatJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level.String(),
		"message":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

func formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	// Deterministic field order keeps text logs diffable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}
