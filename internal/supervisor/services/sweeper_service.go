// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultSweepInterval = time.Minute

// SessionSweeper is satisfied by *session.Registry.
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// CacheCleaner is satisfied by *omdb.Client.
type CacheCleaner interface {
	CleanupCache() int
}

// SweeperService periodically evicts idle sessions and drops expired
// verification cache entries. Without it both would only shrink lazily on
// access.
type SweeperService struct {
	sessions SessionSweeper
	caches   []CacheCleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewSweeperService creates the sweeper. Nil cleaners are skipped.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSweeperService(sessions SessionSweeper, interval time.Duration, logger zerolog.Logger, caches ...CacheCleaner) *SweeperService {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	kept := make([]CacheCleaner, 0, len(caches))
	for _, c := range caches {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &SweeperService{
		sessions: sessions,
		caches:   kept,
		interval: interval,
		logger:   logger.With().Str("service", "session-sweeper").Logger(),
		name:     "session-sweeper",
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.interval).Msg("[sweeper] running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SweeperService) sweep() {
	expired := s.sessions.Sweep()
	cleaned := 0
	for _, c := range s.caches {
		cleaned += c.CleanupCache()
	}
	if expired == 0 && cleaned == 0 {
		return
	}
	s.logger.Info().
		Int("sessions_expired", expired).
		Int("sessions_active", s.sessions.Len()).
		Int("cache_entries_dropped", cleaned).
		Msg("[sweeper] swept")
}

func (s *SweeperService) String() string {
	return s.name
}
