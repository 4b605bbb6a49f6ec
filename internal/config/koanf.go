// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable holding an explicit
// config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelpick/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Suggest: SuggestConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.1-8b-instant",
			Temperature: 0.7,
			MaxTokens:   500,
			Timeout:     30 * time.Second,
			JSONMode:    true,
		},
		OMDb: OMDbConfig{
			BaseURL:       "https://www.omdbapi.com/",
			PosterBaseURL: "https://img.omdbapi.com/",
			PosterHeight:  600,
			Timeout:       10 * time.Second,
			CacheTTL:      time.Hour,
		},
		Recommend: RecommendConfig{
			MaxRetries:      10,
			HistorySize:     5,
			GenerateTimeout: 5 * time.Minute,
		},
		Session: SessionConfig{
			MaxSessions:   1000,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadWithKoanf loads configuration from three layers, each overriding the
// previous one:
//
//  1. Built-in defaults
//  2. An optional YAML config file
//  3. Environment variables
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GROQ_API_KEY -> suggest.api_key, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ConfigFile returns the config file LoadWithKoanf would read, or "".
func ConfigFile() string {
	return findConfigFile()
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	"groq_api_key":        "suggest.api_key",
	"groq_base_url":       "suggest.base_url",
	"groq_model":          "suggest.model",
	"suggest_temperature": "suggest.temperature",
	"suggest_max_tokens":  "suggest.max_tokens",
	"suggest_timeout":     "suggest.timeout",
	"suggest_json_mode":   "suggest.json_mode",

	"omdb_api_key":            "omdb.api_key",
	"omdb_base_url":           "omdb.base_url",
	"omdb_poster_url":         "omdb.poster_base_url",
	"omdb_poster_height":      "omdb.poster_height",
	"omdb_poster_api_enabled": "omdb.poster_api",
	"omdb_timeout":            "omdb.timeout",
	"omdb_cache_ttl":          "omdb.cache_ttl",

	"recommend_max_retries":      "recommend.max_retries",
	"recommend_history_size":     "recommend.history_size",
	"recommend_generate_timeout": "recommend.generate_timeout",

	"session_max_sessions":   "session.max_sessions",
	"session_idle_timeout":   "session.idle_timeout",
	"session_sweep_interval": "session.sweep_interval",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",

	"log_level":       "logging.level",
	"log_format":      "logging.format",
	"log_caller":      "logging.caller",
	"log_file":        "logging.file",
	"log_max_size_mb": "logging.max_size_mb",
	"log_max_backups": "logging.max_backups",
}

// envTransformFunc maps environment variable names to koanf paths. Unmapped
// variables return "" and are skipped, so unrelated environment never leaks
// into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The
// returned function stops the watcher.
//
// The caller owns any locking around configuration swapped in by callback.
func WatchConfigFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)
	err = provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
	if err != nil {
		return nil, fmt.Errorf("watch config file %s: %w", path, err)
	}
	return provider.Unwatch, nil
}
