//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  jwt_secret: "secret"
database:
  url: "postgres://localhost:5432/app"
redis:
  url: "localhost:6379"
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("api port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Queue.Stream != "translation:jobs" || cfg.Queue.Group != "translators" {
		t.Errorf("queue defaults = %q/%q", cfg.Queue.Stream, cfg.Queue.Group)
	}
	if cfg.Queue.Consumer == "" {
		t.Error("consumer name must default to something non-empty")
	}
	if cfg.Queue.Block != 5*time.Second || cfg.Queue.ReclaimIdle != time.Minute {
		t.Errorf("queue timing defaults = %v/%v", cfg.Queue.Block, cfg.Queue.ReclaimIdle)
	}
	if cfg.Translator.DefaultLanguage != "en" {
		t.Errorf("default language = %q, want en", cfg.Translator.DefaultLanguage)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %q/%q", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	missingDB := writeConfig(t, `
api:
  jwt_secret: "secret"
redis:
  url: "localhost:6379"
`)
	if _, err := LoadConfig(missingDB, false); err == nil {
		t.Error("expected an error for a missing database url")
	}

	missingSecret := writeConfig(t, `
database:
  url: "postgres://localhost:5432/app"
redis:
  url: "localhost:6379"
`)
	if _, err := LoadConfig(missingSecret, false); err == nil {
		t.Error("expected an error for a missing jwt secret outside dev")
	}
	// Dev mode tolerates the missing secret.
	cfg, err := LoadConfig(missingSecret, true)
	if err != nil {
		t.Fatalf("dev load: %v", err)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag must be carried into runtime config")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
