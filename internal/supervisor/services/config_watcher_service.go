// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// WatchFunc starts watching path and calls onChange for every change. The
// returned function stops the watcher. config.WatchConfigFile satisfies it.
type WatchFunc func(path string, onChange func()) (stop func() error, err error)

// ReloadFunc re-reads configuration and applies whatever can change at
// runtime.
type ReloadFunc func() error

// ConfigWatcherService applies config file edits without a restart.
type ConfigWatcherService struct {
	path   string
	watch  WatchFunc
	reload ReloadFunc
	logger zerolog.Logger
	name   string
}

// NewConfigWatcherService creates the watcher for path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConfigWatcherService(path string, watch WatchFunc, reload ReloadFunc, logger zerolog.Logger) *ConfigWatcherService {
	return &ConfigWatcherService{
		path:   path,
		watch:  watch,
		reload: reload,
		logger: logger.With().Str("service", "config-watcher").Str("path", path).Logger(),
		name:   "config-watcher",
	}
}

// Serve implements suture.Service. Without a config file there is nothing to
// watch and the service asks not to be restarted.
func (s *ConfigWatcherService) Serve(ctx context.Context) error {
	if s.path == "" {
		s.logger.Debug().Msg("[config] no config file, watcher disabled")
		return suture.ErrDoNotRestart
	}

	stop, err := s.watch(s.path, s.onChange)
	if err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	s.logger.Info().Msg("[config] watching for changes")

	<-ctx.Done()
	if err := stop(); err != nil {
		return errors.Join(ctx.Err(), fmt.Errorf("stop config watcher: %w", err))
	}
	return ctx.Err()
}

// onChange keeps the previous configuration when the new file is invalid.
func (s *ConfigWatcherService) onChange() {
	if err := s.reload(); err != nil {
		s.logger.Warn().Err(err).Msg("[config] reload rejected, keeping previous settings")
		return
	}
	s.logger.Info().Msg("[config] reloaded")
}

func (s *ConfigWatcherService) String() string {
	return s.name
}
