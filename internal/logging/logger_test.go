package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"text", FormatText},
		{"unknown", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func newLoggerWithBuffer(format string) (*logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: format}).(*logger)
	l.output = &buf
	return l, &buf
}

func TestLoggerJSONOutput(t *testing.T) {
	l, buf := newLoggerWithBuffer("json")
	l.Info("node started", "node_id", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "node started" {
		t.Errorf("msg = %v, want %q", entry["msg"], "node started")
	}
	if entry["node_id"] != float64(3) {
		t.Errorf("node_id = %v, want 3", entry["node_id"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "text"}).(*logger)
	l.output = &buf

	l.Debug("should not appear")
	l.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	l.Warn("this one should appear")
	if !strings.Contains(buf.String(), "this one should appear") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestLoggerWithRunIDTagsEntries(t *testing.T) {
	l, buf := newLoggerWithBuffer("text")
	runID := uuid.New()
	tagged := l.WithRunID(runID)
	tagged.Info("run started")

	if !strings.Contains(buf.String(), runID.String()) {
		t.Fatalf("expected run_id %s in output, got %q", runID, buf.String())
	}
}

func TestLoggerWithFieldsIsImmutable(t *testing.T) {
	l, buf := newLoggerWithBuffer("text")
	withField := l.WithFields("node_id", 1)

	l.Info("base logger entry")
	if strings.Contains(buf.String(), "node_id") {
		t.Fatalf("base logger should not have picked up WithFields mutation: %q", buf.String())
	}

	buf.Reset()
	withField.Info("derived logger entry")
	if !strings.Contains(buf.String(), "node_id=1") {
		t.Fatalf("expected node_id=1 in derived logger output, got %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	n := NewNop()
	n.Debug("x")
	n.Info("x")
	n.Warn("x")
	n.Error("x")
	if n.WithRunID(uuid.New()) != n {
		t.Fatalf("nop logger WithRunID should return itself")
	}
	if n.WithFields("a", 1) != n {
		t.Fatalf("nop logger WithFields should return itself")
	}
}
