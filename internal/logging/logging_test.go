package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInitTextHandler(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "info", &buf)

	L("display").Info("orientation applied", "orientation", 90)

	out := buf.String()
	if !strings.Contains(out, "msg=\"orientation applied\"") {
		t.Fatalf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=display") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "orientation=90") {
		t.Fatalf("expected orientation field, got: %s", out)
	}
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "warn", &buf)

	logger := L("display")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn log should be emitted: %s", out)
	}
}

func TestInitJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "info", &buf)

	L("display").Info("hello")

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected JSON output, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
