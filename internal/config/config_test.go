package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("default log format = %q, want text", cfg.LogFormat)
	}
	if cfg.Display != "" {
		t.Errorf("default display = %q, want primary (empty)", cfg.Display)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.yaml")
	content := `display: '\\.\DISPLAY2'
log_level: debug
log_format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display != `\\.\DISPLAY2` {
		t.Errorf("display = %q", cfg.Display)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LogMaxSizeMB != 10 {
		t.Errorf("unset field lost its default: log_max_size_mb = %d", cfg.LogMaxSizeMB)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.yaml")
	if err := os.WriteFile(path, []byte("log_format: xml\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for log_format xml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pivot.yaml")

	cfg := Default()
	cfg.Display = "DP-1"
	cfg.LogLevel = "warn"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if loaded.Display != "DP-1" || loaded.LogLevel != "warn" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
