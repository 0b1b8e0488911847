package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"verbose", LevelWarn},
		{"", LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestInit_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelWarn, Output: &buf})
	t.Cleanup(Discard)

	Info("hidden")
	Warn("shown", "file", "a.go")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "file=a.go") {
		t.Errorf("expected warn message with attribute, got: %s", out)
	}
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelDebug, JSONFormat: true, Output: &buf})
	t.Cleanup(Discard)

	Debug("region decided", "index", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "region decided" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["index"] != float64(2) {
		t.Errorf("unexpected index attribute: %v", entry["index"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelError, Output: &buf})
	t.Cleanup(Discard)

	Info("before")
	SetLevel(LevelInfo)
	Info("after")

	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("level change not applied: %s", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelInfo, Output: &buf})
	t.Cleanup(Discard)

	With("component", "expand").Info("ready")
	if !strings.Contains(buf.String(), "component=expand") {
		t.Errorf("expected component attribute, got: %s", buf.String())
	}
}
