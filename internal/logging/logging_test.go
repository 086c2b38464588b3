package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pterm/pterm"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		debug     bool
		want      pterm.LogLevel
	}{
		{0, false, pterm.LogLevelWarn},
		{1, false, pterm.LogLevelInfo},
		{2, false, pterm.LogLevelDebug},
		{3, false, pterm.LogLevelTrace},
		{7, false, pterm.LogLevelTrace},
		{0, true, pterm.LogLevelDebug},
		{1, true, pterm.LogLevelDebug},
		{3, true, pterm.LogLevelTrace},
	}

	for _, tt := range tests {
		if got := Level(tt.verbosity, tt.debug); got != tt.want {
			t.Errorf("Level(%d, %v) = %v, want %v", tt.verbosity, tt.debug, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbosity: 1, Writer: &buf})

	logger.Debug("hidden detail")
	logger.Info("shown message")

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Errorf("Debug message should be filtered at info level:\n%s", out)
	}
	if !strings.Contains(out, "shown message") {
		t.Errorf("Expected info message in output:\n%s", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Debug: true, JSON: true, Writer: &buf})

	logger.Debug("invocation", logger.Args("command", "add"))

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Expected a JSON log line, got %q: %v", line, err)
	}
	if entry["msg"] != "invocation" || entry["command"] != "add" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestVerbosityMessage(t *testing.T) {
	messages := []string{"", "Verbose mode enabled", "More verbose output", "Debug-level verbosity", "Debug-level verbosity"}
	for verbosity, want := range messages {
		if got := VerbosityMessage(verbosity); got != want {
			t.Errorf("VerbosityMessage(%d) = %q, want %q", verbosity, got, want)
		}
	}
}
