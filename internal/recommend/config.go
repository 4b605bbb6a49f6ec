// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import "fmt"

// Config tunes an Orchestrator.
type Config struct {
	// MaxRetries is how many duplicate suggestions are discarded before one
	// is published anyway. A run makes at most MaxRetries+1 suggestion calls.
	MaxRetries int `json:"max_retries"`

	// HistorySize is the number of published movies remembered for
	// duplicate detection.
	HistorySize int `json:"history_size"`

	// UsePosterAPI builds poster URLs from the IMDb ID when the verified
	// record has no usable poster, instead of a title placeholder.
	UsePosterAPI bool `json:"use_poster_api"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  10,
		HistorySize: 5,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.MaxRetries > 100 {
		return fmt.Errorf("max_retries must be <= 100, got %d", c.MaxRetries)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be >= 1, got %d", c.HistorySize)
	}
	return nil
}
