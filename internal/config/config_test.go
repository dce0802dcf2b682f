package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
base_url = "https://music.example.com"

[defaults]
repeat = "all"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.BaseURL != "https://music.example.com" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Defaults.Repeat != "all" {
		t.Errorf("Repeat = %q, want all", cfg.Defaults.Repeat)
	}
	if cfg.Defaults.Volume != 0.7 {
		t.Errorf("Volume = %v, want default 0.7", cfg.Defaults.Volume)
	}
	if cfg.Session.Timeout != 30 || cfg.Session.Warning != 5 {
		t.Errorf("Session = %+v, want 30/5", cfg.Session)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JUKEBAR_SERVER_URL", "http://localhost:9000")
	t.Setenv("JUKEBAR_LOG_LEVEL", "debug")
	t.Setenv("JUKEBAR_DEFAULT_VOLUME", "0.25")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Server.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.Defaults.Volume != 0.25 {
		t.Errorf("Volume = %v", cfg.Defaults.Volume)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"volume too high", func(c *Config) { c.Defaults.Volume = 1.5 }, true},
		{"bad repeat", func(c *Config) { c.Defaults.Repeat = "track" }, true},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, true},
		{"warning >= timeout", func(c *Config) { c.Session.Warning = 30 }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.TUI.Theme = "light"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.TUI.Theme != "light" {
		t.Errorf("Theme = %q, want light", loaded.TUI.Theme)
	}
}
