// Package logger provides structured JSON logging for fabsync runs.
//
// A Logger is constructed explicitly per run and passed down through the
// pipeline; there is no package-level singleton. Each run can mirror its
// output to a timestamped file under a log directory so that `fabsync logs`
// can replay the most recent run.
//
// Example usage:
//
//	log, _ := logger.New(logger.LevelInfo, os.Stdout, "logs")
//	defer log.Close()
//	log.Info("Fetched page", logger.Fields{"url": url, "events": n})
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes structured log entries to a console writer and, optionally,
// a per-run log file.
type Logger struct {
	minLevel Level
	console  io.Writer
	file     *os.File
}

// New creates a logger writing to console. When logDir is non-empty a
// timestamped file fabsync_YYYYMMDD_HHMMSS.log is created there and every
// entry is mirrored to it.
func New(level Level, console io.Writer, logDir string) (*Logger, error) {
	l := &Logger{minLevel: level, console: console}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		name := fmt.Sprintf("fabsync_%s.log", time.Now().Format("20060102_150405"))
		f, err := os.Create(filepath.Join(logDir, name))
		if err != nil {
			return nil, fmt.Errorf("creating log file: %w", err)
		}
		l.file = f
	}

	return l, nil
}

// Close flushes and closes the run's log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Path returns the run's log file path, or "" when file logging is off.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Fallback to plain text if JSON marshal fails
		fmt.Fprintf(l.console, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.console, string(data))
	if l.file != nil {
		fmt.Fprintln(l.file, string(data))
	}
}

// shouldLog determines if a message should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}
	return levels[level] >= levels[l.minLevel]
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// LatestLogFile returns the path of the most recently created run log in
// logDir, or "" when none exist.
func LatestLogFile(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading log directory: %w", err)
	}

	latest := ""
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".log" {
			continue
		}
		// fabsync_YYYYMMDD_HHMMSS.log sorts lexically by creation time.
		if e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", nil
	}
	return filepath.Join(logDir, latest), nil
}
