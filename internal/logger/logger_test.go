package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(LevelWarn, &buf, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer log.Close()

	log.Debug("debug message", nil)
	log.Info("info message", nil)
	log.Warn("warn message", nil)
	log.Error("error message", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below min level should be discarded")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above min level should be logged")
	}
}

func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(LevelInfo, &buf, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer log.Close()

	log.Info("Fetched page", Fields{"url": "https://example.com", "events": 3})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q, want INFO", entry.Level)
	}
	if entry.Message != "Fetched page" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["url"] != "https://example.com" {
		t.Errorf("url field = %v", entry.Fields["url"])
	}
	if entry.Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestLoggerFileMirroring(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	log, err := New(LevelInfo, &buf, dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("mirrored entry", nil)
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	path := log.Path()
	if path == "" {
		t.Fatal("expected a log file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "mirrored entry") {
		t.Error("log file should contain the entry")
	}
}

func TestLatestLogFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"fabsync_20250101_000000.log", "fabsync_20250301_120000.log", "fabsync_20250201_060000.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := LatestLogFile(dir)
	if err != nil {
		t.Fatalf("LatestLogFile failed: %v", err)
	}
	if filepath.Base(got) != "fabsync_20250301_120000.log" {
		t.Errorf("latest = %q", got)
	}
}

func TestLatestLogFileMissingDir(t *testing.T) {
	got, err := LatestLogFile(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty path, got %q", got)
	}
}
