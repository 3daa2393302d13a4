package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ludo-technologies/schemascan/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Debug("hidden")
	logger.Info("audit finished", "entities", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug record to be filtered at info level")
	}
	if !strings.Contains(out, "audit finished") || !strings.Contains(out, "entities=3") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Warn("checkpoint degraded", "checkpoint", "relation-cycles")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["checkpoint"] != "relation-cycles" {
		t.Errorf("Unexpected record: %v", record)
	}
}

func TestDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("Expected a logger")
	}
	Discard().Error("dropped")
}
