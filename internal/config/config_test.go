package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.Theme != "nord" {
		t.Errorf("theme = %q, want nord", cfg.Theme)
	}
	if !cfg.Notifications {
		t.Error("notifications should default on")
	}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("poll interval = %v, want 60s", cfg.PollInterval())
	}
	if cfg.DBPath == "" || cfg.DataDir == "" {
		t.Error("paths should be filled in")
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `theme = "dracula"
notifications = false
poll_interval_secs = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Theme != "dracula" {
		t.Errorf("theme = %q, want dracula", cfg.Theme)
	}
	if cfg.Notifications {
		t.Error("notifications should be off")
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Errorf("poll interval = %v, want 30s", cfg.PollInterval())
	}
	// Omitted paths fall back to defaults
	if cfg.DataDir == "" || cfg.DBPath == "" {
		t.Error("omitted paths should be defaulted")
	}
}

func TestPollIntervalGuardsNonPositive(t *testing.T) {
	cfg := Config{PollIntervalSecs: 0}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("zero interval should fall back to 60s, got %v", cfg.PollInterval())
	}
	cfg.PollIntervalSecs = -5
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("negative interval should fall back to 60s, got %v", cfg.PollInterval())
	}
}
