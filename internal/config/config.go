// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Suggest   SuggestConfig   `koanf:"suggest"`
	OMDb      OMDbConfig      `koanf:"omdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Session   SessionConfig   `koanf:"session"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// SuggestConfig configures the chat completion client that proposes movies.
type SuggestConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
	JSONMode    bool          `koanf:"json_mode"`
}

// OMDbConfig configures the verification client.
type OMDbConfig struct {
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	PosterBaseURL string        `koanf:"poster_base_url"`
	PosterHeight  int           `koanf:"poster_height"`
	PosterAPI     bool          `koanf:"poster_api"`
	Timeout       time.Duration `koanf:"timeout"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

// RecommendConfig tunes the generate loop.
type RecommendConfig struct {
	MaxRetries  int `koanf:"max_retries"`
	HistorySize int `koanf:"history_size"`
	// GenerateTimeout bounds one generate run, which outlives the HTTP request.
	GenerateTimeout time.Duration `koanf:"generate_timeout"`
}

// SessionConfig bounds the in-memory session registry.
type SessionConfig struct {
	MaxSessions   int           `koanf:"max_sessions"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// ServerConfig holds HTTP server settings, including inbound rate limiting
// and CORS.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}
