// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	for env := range envMappings {
		t.Setenv(strings.ToUpper(env), "")
		_ = os.Unsetenv(strings.ToUpper(env))
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Recommend.MaxRetries != 10 {
		t.Errorf("Recommend.MaxRetries = %d, want 10", cfg.Recommend.MaxRetries)
	}
	if cfg.Recommend.HistorySize != 5 {
		t.Errorf("Recommend.HistorySize = %d, want 5", cfg.Recommend.HistorySize)
	}
	if cfg.Suggest.Model != "llama-3.1-8b-instant" {
		t.Errorf("Suggest.Model = %q", cfg.Suggest.Model)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server.CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"GROQ_API_KEY", "suggest.api_key"},
		{"GROQ_MODEL", "suggest.model"},
		{"SUGGEST_JSON_MODE", "suggest.json_mode"},
		{"OMDB_API_KEY", "omdb.api_key"},
		{"OMDB_POSTER_URL", "omdb.poster_base_url"},
		{"OMDB_POSTER_API_ENABLED", "omdb.poster_api"},
		{"RECOMMEND_MAX_RETRIES", "recommend.max_retries"},
		{"SESSION_IDLE_TIMEOUT", "session.idle_timeout"},
		{"HTTP_PORT", "server.port"},
		{"DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: {}\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		defer os.Remove(filepath.Join(dir, "config.yaml"))

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(dir, "custom.yaml")
		if err := os.WriteFile(custom, []byte("server: {}\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, custom)

		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Suggest.APIKey != "" || cfg.OMDb.APIKey != "" {
		t.Error("API keys must default to empty")
	}
	if cfg.OMDb.CacheTTL != time.Hour {
		t.Errorf("OMDb.CacheTTL = %s, want 1h", cfg.OMDb.CacheTTL)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("Session.IdleTimeout = %s, want 30m", cfg.Session.IdleTimeout)
	}
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("GROQ_API_KEY", "gsk_from_env")
	t.Setenv("OMDB_API_KEY", "omdb_from_env")
	t.Setenv("OMDB_POSTER_API_ENABLED", "true")
	t.Setenv("RECOMMEND_MAX_RETRIES", "3")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Suggest.APIKey != "gsk_from_env" {
		t.Errorf("Suggest.APIKey = %q", cfg.Suggest.APIKey)
	}
	if cfg.OMDb.APIKey != "omdb_from_env" {
		t.Errorf("OMDb.APIKey = %q", cfg.OMDb.APIKey)
	}
	if !cfg.OMDb.PosterAPI {
		t.Error("OMDb.PosterAPI should be true")
	}
	if cfg.Recommend.MaxRetries != 3 {
		t.Errorf("Recommend.MaxRetries = %d, want 3", cfg.Recommend.MaxRetries)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Session.IdleTimeout != 90*time.Second {
		t.Errorf("Session.IdleTimeout = %s, want 90s", cfg.Session.IdleTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if strings.Join(cfg.Server.CORSOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "reelpick.yaml")
	content := `
suggest:
  model: llama-3.3-70b-versatile
omdb:
  cache_ttl: 10m
recommend:
  history_size: 8
server:
  port: 7000
  cors_origins:
    - https://file.example
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Suggest.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Suggest.Model = %q", cfg.Suggest.Model)
	}
	if cfg.OMDb.CacheTTL != 10*time.Minute {
		t.Errorf("OMDb.CacheTTL = %s, want 10m", cfg.OMDb.CacheTTL)
	}
	if cfg.Recommend.HistorySize != 8 {
		t.Errorf("Recommend.HistorySize = %d, want 8", cfg.Recommend.HistorySize)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env override 7100", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://file.example" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	if ConfigFile() != path {
		t.Errorf("ConfigFile() = %q, want %q", ConfigFile(), path)
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("RECOMMEND_HISTORY_SIZE", "0")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "RECOMMEND_HISTORY_SIZE") {
		t.Fatalf("expected history size validation error, got %v", err)
	}
}
