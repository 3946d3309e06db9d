package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/jarwalk/pkg/integrations/mavenrepo"
)

// isolate points every XDG lookup at a fresh temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Repository.URL != mavenrepo.DefaultURL {
		t.Errorf("repository.url = %q", cfg.Repository.URL)
	}
	if want := filepath.Join(dir, "cache", "jarwalk", "repository"); cfg.Repository.LocalDir != want {
		t.Errorf("repository.local_dir = %q, want %q", cfg.Repository.LocalDir, want)
	}
	if cfg.HTTP.CacheTTL != 24*time.Hour || cfg.HTTP.Timeout != 30*time.Second || cfg.HTTP.Retries != 3 {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.Resolve.SkipOptional {
		t.Error("resolve.skip_optional should default to false")
	}
	if w := cfg.Validate(); len(w) != 0 {
		t.Errorf("default config should have no warnings, got %v", w)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "jarwalk.toml")
	content := `
[repository]
url = "https://nexus.example.com/repository/maven-public"
local_dir = "/srv/m2"

[http]
cache_ttl = "1h"
timeout = "5s"

[resolve]
skip_optional = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Repository.URL != "https://nexus.example.com/repository/maven-public" || cfg.Repository.LocalDir != "/srv/m2" {
		t.Errorf("repository = %+v", cfg.Repository)
	}
	if cfg.HTTP.CacheTTL != time.Hour || cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.HTTP.Retries != 3 {
		t.Errorf("unset http.retries = %d, want default 3", cfg.HTTP.Retries)
	}
	if !cfg.Resolve.SkipOptional {
		t.Error("resolve.skip_optional not read from file")
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "jarwalk", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug from default path", cfg.Log.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "jarwalk.toml")
	if err := os.WriteFile(path, []byte("[repository]\nurl = \"https://file.example.com\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JARWALK_REPOSITORY_URL", "https://env.example.com")
	t.Setenv("JARWALK_HTTP_TIMEOUT", "2m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repository.URL != "https://env.example.com" {
		t.Errorf("repository.url = %q, want env override", cfg.Repository.URL)
	}
	if cfg.HTTP.Timeout != 2*time.Minute {
		t.Errorf("http.timeout = %s, want 2m", cfg.HTTP.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Repository: RepositoryConfig{URL: mavenrepo.DefaultURL, LocalDir: "/tmp/m2"},
			HTTP:       HTTPConfig{CacheTTL: time.Hour, Timeout: time.Second, Retries: 3},
		}
	}
	tests := []struct {
		name   string
		modify func(*Config)
		want   string // substring of the expected warning, "" for none
	}{
		{"valid", func(*Config) {}, ""},
		{"plain http", func(c *Config) { c.Repository.URL = "http://repo.local" }, "not using https"},
		{"bad scheme", func(c *Config) { c.Repository.URL = "ftp://repo.local" }, "not an http(s) URL"},
		{"empty local dir", func(c *Config) { c.Repository.LocalDir = "" }, "local_dir"},
		{"negative timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }, "timeout"},
		{"negative ttl", func(c *Config) { c.HTTP.CacheTTL = -time.Second }, "cache_ttl"},
		{"no retries", func(c *Config) { c.HTTP.Retries = 0 }, "retries"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(&cfg)
			warnings := cfg.Validate()
			if tt.want == "" {
				if len(warnings) != 0 {
					t.Errorf("unexpected warnings %v", warnings)
				}
				return
			}
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("warnings %v, want one containing %q", warnings, tt.want)
			}
		})
	}
}
