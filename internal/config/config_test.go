package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Model != "llama-3.1-8b-instant" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.Pipeline.MinTextChars != 50 {
		t.Errorf("Pipeline.MinTextChars = %d, want 50", cfg.Pipeline.MinTextChars)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Errorf("Pipeline.Workers = %d, want 4", cfg.Pipeline.Workers)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Pipeline.StrictParse {
		t.Error("Pipeline.StrictParse = true, want false by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  debug: true
ai:
  model: custom-model
  timeout: 10s
pipeline:
  workers: 8
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.App.Debug {
		t.Error("App.Debug = false, want true")
	}
	if cfg.AI.Model != "custom-model" {
		t.Errorf("AI.Model = %q, want custom-model", cfg.AI.Model)
	}
	if cfg.Pipeline.Workers != 8 {
		t.Errorf("Pipeline.Workers = %d, want 8", cfg.Pipeline.Workers)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	// Keys absent from the file keep their defaults.
	if cfg.AI.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("AI.BaseURL = %q, want the default", cfg.AI.BaseURL)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() should fail when the named config file does not exist")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEWSPIPE_AI_MODEL", "env-model")
	t.Setenv("NEWSPIPE_SERVER_PORT", "9100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Model != "env-model" {
		t.Errorf("AI.Model = %q, want env-model", cfg.AI.Model)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "legacy-key")
	t.Setenv("MODEL", "legacy-model")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.APIKey != "legacy-key" {
		t.Errorf("AI.APIKey = %q, want legacy-key", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "legacy-model" {
		t.Errorf("AI.Model = %q, want legacy-model", cfg.AI.Model)
	}
}

func TestLegacyEnvYieldsToPrimaryName(t *testing.T) {
	t.Setenv("MODEL", "legacy-model")
	t.Setenv("NEWSPIPE_AI_MODEL", "primary-model")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Model != "primary-model" {
		t.Errorf("AI.Model = %q, want the NEWSPIPE_ name to outrank the legacy name", cfg.AI.Model)
	}
}

func TestDurationHelpers(t *testing.T) {
	ai := AI{Timeout: "90s", RetryBackoff: "250ms"}
	if got := ai.GetTimeout(); got != 90*time.Second {
		t.Errorf("GetTimeout() = %v, want 90s", got)
	}
	if got := ai.GetRetryBackoff(); got != 250*time.Millisecond {
		t.Errorf("GetRetryBackoff() = %v, want 250ms", got)
	}

	// Empty and unparseable values fall back to defaults.
	if got := (AI{}).GetTimeout(); got != 60*time.Second {
		t.Errorf("GetTimeout() default = %v, want 60s", got)
	}
	if got := (AI{RetryBackoff: "junk"}).GetRetryBackoff(); got != 800*time.Millisecond {
		t.Errorf("GetRetryBackoff() on junk = %v, want 800ms", got)
	}
	if got := (Server{}).GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() default = %v, want 30s", got)
	}
	if got := (Server{WriteTimeout: "3m"}).GetWriteTimeout(); got != 3*time.Minute {
		t.Errorf("GetWriteTimeout() = %v, want 3m", got)
	}
}
