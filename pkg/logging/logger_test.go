package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.WithPipelineID("p.abcd").Info("build started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got error: %v (%s)", err, buf.String())
	}
	if entry["pipeline_id"] != "p.abcd" {
		t.Fatalf("expected pipeline_id field, got %v", entry)
	}
	if entry["msg"] != "build started" {
		t.Fatalf("expected msg field, got %v", entry)
	}
}

func TestLoggerPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Output: &buf, Pretty: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.WithRunID("r1").Debug("run started")

	if !strings.Contains(buf.String(), "run_id=r1") {
		t.Fatalf("expected text output to contain run_id=r1, got %q", buf.String())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected info message to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected warn message to be logged")
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "bogus"})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
}
