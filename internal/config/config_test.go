package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AIProvider != "ollama" {
		t.Errorf("ai_provider = %q, want ollama", cfg.AIProvider)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("cache defaults wrong: %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
ai_provider = "openai"

[providers.openai]
api_key = "sk-test"
model = "gpt-4o"

[rate_limiting]
requests_per_minute = 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("ai_provider = %q", cfg.AIProvider)
	}
	if cfg.Providers["openai"].APIKey != "sk-test" {
		t.Errorf("provider key not decoded: %+v", cfg.Providers)
	}
	if cfg.RateLimiting.RequestsPerMinute != 5 {
		t.Errorf("requests_per_minute = %d, want 5", cfg.RateLimiting.RequestsPerMinute)
	}
	// Untouched sections keep defaults
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("cache ttl = %d, want default 3600", cfg.Cache.TTLSeconds)
	}
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("NEXUS_TEST_KEY", "secret-from-env")

	path := writeConfig(t, `
[providers.anthropic]
api_key = "${NEXUS_TEST_KEY}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Providers["anthropic"].APIKey; got != "secret-from-env" {
		t.Errorf("api_key = %q, want the env value", got)
	}
}

func TestLoad_UnknownEnvLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
[providers.openai]
api_key = "${DEFINITELY_NOT_SET_ANYWHERE}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Providers["openai"].APIKey; got != "${DEFINITELY_NOT_SET_ANYWHERE}" {
		t.Errorf("api_key = %q, unresolved references should pass through", got)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "ai_provider = [broken\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.RateLimiting.RequestsPerMinute = 0
	if cfg.Validate() == nil {
		t.Error("zero requests_per_minute with limiting enabled should fail")
	}

	cfg = Default()
	cfg.OutputMode = "loud"
	if cfg.Validate() == nil {
		t.Error("unknown output mode should fail")
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := Default()
	base := "/base"

	if got := cfg.DatabasePath(base); got != "/base/data/commands.db" {
		t.Errorf("DatabasePath = %q", got)
	}
	cfg.Paths.DataDir = "/absolute/data"
	if got := cfg.DataDir(base); got != "/absolute/data" {
		t.Errorf("absolute paths should not be rebased: %q", got)
	}
}

func TestCacheConfig_TTL(t *testing.T) {
	c := CacheConfig{TTLSeconds: 90}
	if c.TTL() != 90*time.Second {
		t.Errorf("TTL = %v", c.TTL())
	}
}
