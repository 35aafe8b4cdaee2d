package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadFromAppliesDefaultsAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
llm:
  providers:
    openrouter:
      api_key: ${MANA_TEST_KEY:fallback-key}
features:
  drafts:
    ttl: 10m
`)
	writeConfig(t, dir, "config.staging.yaml", `
features:
  universe_lock:
    enabled: true
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("MANA_TEST_KEY", "sk-test")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := cfg.LLM.Providers["openrouter"].APIKey; got != "sk-test" {
		t.Fatalf("api key = %q", got)
	}
	if cfg.LLM.DefaultModel != DefaultModelID {
		t.Fatalf("default model = %q", cfg.LLM.DefaultModel)
	}
	if len(cfg.LLM.Models) != 4 || cfg.LLM.ModelLabel("qwen/qwen3-coder") != "Qwen 3 Coder" {
		t.Fatalf("model allow-list = %+v", cfg.LLM.Models)
	}
	if cfg.LLM.Providers["openrouter"].MaxTokens != 9000 {
		t.Fatalf("max tokens = %d", cfg.LLM.Providers["openrouter"].MaxTokens)
	}
	if cfg.Features.Drafts.TTL != 10*time.Minute {
		t.Fatalf("drafts ttl = %v", cfg.Features.Drafts.TTL)
	}
	if !cfg.Features.UniverseLock.Enabled {
		t.Fatalf("staging overlay not applied")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("MANA_SET", "yes")
	got := expandEnv("a=${MANA_SET} b=${MANA_UNSET_X:dflt} c=${MANA_UNSET_Y}")
	if got != "a=yes b=dflt c=${MANA_UNSET_Y}" {
		t.Fatalf("expandEnv = %q", got)
	}
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing config.yaml")
	}
}
