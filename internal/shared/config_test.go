package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8000/api" {
			t.Errorf("expected api base_url http://localhost:8000/api, got %s", config.API.BaseURL)
		}

		if config.API.RateLimit != 5.0 {
			t.Errorf("expected api rate_limit 5.0, got %f", config.API.RateLimit)
		}

		if config.Database.Path != "./campusctl.db" {
			t.Errorf("expected database path ./campusctl.db, got %s", config.Database.Path)
		}

		if config.Export.Dir != "./snapshots" {
			t.Errorf("expected export dir ./snapshots, got %s", config.Export.Dir)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.API.BaseURL != defaultConfig.API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://campus.example.com/api"
timeout_seconds = 30
rate_limit = 2.5

[database]
path = "/custom/state.db"
max_open_conns = 10
max_idle_conns = 4

[export]
dir = "/tmp/snapshots"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://campus.example.com/api" {
			t.Errorf("expected base URL https://campus.example.com/api, got %s", config.API.BaseURL)
		}

		if config.API.TimeoutSeconds != 30 {
			t.Errorf("expected timeout 30, got %d", config.API.TimeoutSeconds)
		}

		if config.Database.Path != "/custom/state.db" {
			t.Errorf("expected database path /custom/state.db, got %s", config.Database.Path)
		}

		if config.Export.Dir != "/tmp/snapshots" {
			t.Errorf("expected export dir /tmp/snapshots, got %s", config.Export.Dir)
		}
	})

	t.Run("LoadConfigMissing", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("loading a missing config should fail")
		}
	})
}
