// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that the configuration is usable. API keys are not
// required: a missing key surfaces as a per-request error instead.
func (c *Config) Validate() error {
	if err := c.validateSuggest(); err != nil {
		return err
	}
	if err := c.validateOMDb(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSuggest() error {
	if err := validateHTTPURL(c.Suggest.BaseURL, "GROQ_BASE_URL"); err != nil {
		return err
	}
	if strings.TrimSpace(c.Suggest.Model) == "" {
		return fmt.Errorf("GROQ_MODEL must not be empty")
	}
	if c.Suggest.Temperature < 0 || c.Suggest.Temperature > 2 {
		return fmt.Errorf("SUGGEST_TEMPERATURE must be between 0 and 2, got %g", c.Suggest.Temperature)
	}
	if c.Suggest.MaxTokens < 1 {
		return fmt.Errorf("SUGGEST_MAX_TOKENS must be at least 1, got %d", c.Suggest.MaxTokens)
	}
	return validatePositiveDuration(c.Suggest.Timeout, "SUGGEST_TIMEOUT")
}

func (c *Config) validateOMDb() error {
	if err := validateHTTPURL(c.OMDb.BaseURL, "OMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.OMDb.PosterBaseURL, "OMDB_POSTER_URL"); err != nil {
		return err
	}
	if c.OMDb.PosterHeight < 1 {
		return fmt.Errorf("OMDB_POSTER_HEIGHT must be at least 1, got %d", c.OMDb.PosterHeight)
	}
	if c.OMDb.CacheTTL < 0 {
		return fmt.Errorf("OMDB_CACHE_TTL must not be negative, got %s", c.OMDb.CacheTTL)
	}
	return validatePositiveDuration(c.OMDb.Timeout, "OMDB_TIMEOUT")
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxRetries < 0 || c.Recommend.MaxRetries > 100 {
		return fmt.Errorf("RECOMMEND_MAX_RETRIES must be between 0 and 100, got %d", c.Recommend.MaxRetries)
	}
	if c.Recommend.HistorySize < 1 {
		return fmt.Errorf("RECOMMEND_HISTORY_SIZE must be at least 1, got %d", c.Recommend.HistorySize)
	}
	return validatePositiveDuration(c.Recommend.GenerateTimeout, "RECOMMEND_GENERATE_TIMEOUT")
}

func (c *Config) validateSession() error {
	if c.Session.MaxSessions < 1 {
		return fmt.Errorf("SESSION_MAX_SESSIONS must be at least 1, got %d", c.Session.MaxSessions)
	}
	if err := validatePositiveDuration(c.Session.IdleTimeout, "SESSION_IDLE_TIMEOUT"); err != nil {
		return err
	}
	return validatePositiveDuration(c.Session.SweepInterval, "SESSION_SWEEP_INTERVAL")
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if err := validatePositiveDuration(c.Server.Timeout, "HTTP_TIMEOUT"); err != nil {
		return err
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitReqs)
		}
		if err := validatePositiveDuration(c.Server.RateLimitWindow, "RATE_LIMIT_WINDOW"); err != nil {
			return err
		}
	}
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow all)")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	if c.Logging.File != "" && c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be at least 1 when LOG_FILE is set, got %d", c.Logging.MaxSizeMB)
	}
	return nil
}

// validateHTTPURL requires an absolute http or https URL without a query.
// Paths are allowed since some APIs are versioned by path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}

func validatePositiveDuration(d time.Duration, fieldName string) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", fieldName, d)
	}
	return nil
}
