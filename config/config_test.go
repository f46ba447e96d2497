package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":8090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.NewsCacheTTL != 15*time.Minute {
		t.Errorf("NewsCacheTTL = %v", cfg.NewsCacheTTL)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("addr: \":9000\"\nreport_dir: /tmp/reports\ndev_seed: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ReportDir != "/tmp/reports" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
	if !cfg.DevSeed {
		t.Error("DevSeed not set")
	}
	// untouched keys keep their defaults
	if cfg.UsersDBPath != "users.db" {
		t.Errorf("UsersDBPath = %q", cfg.UsersDBPath)
	}
}

func TestEnvironmentOverlay(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "env-key")
	t.Setenv("SESSION_SECRET", "env-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NewsAPIKey != "env-key" {
		t.Errorf("NewsAPIKey = %q", cfg.NewsAPIKey)
	}
	if cfg.SessionSecret != "env-secret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
