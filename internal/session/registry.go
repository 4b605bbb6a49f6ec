// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package session keeps the live recommendation sessions. Each session owns
// an Orchestrator, so duplicate history never leaks between sessions.
// Sessions live in memory only and expire after a period without use.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/cache"
	"github.com/tomtom215/reelpick/internal/metrics"
	"github.com/tomtom215/reelpick/internal/recommend"
	"github.com/tomtom215/reelpick/internal/websocket"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Publisher delivers session state to subscribers. *websocket.Hub
// implements it.
type Publisher interface {
	Publish(topic, messageType string, data any)
	CloseTopic(topic, reason string)
}

var _ Publisher = (*websocket.Hub)(nil)

// Factory builds the orchestrator for a new session.
type Factory func() (*recommend.Orchestrator, error)

// Config bounds the registry.
type Config struct {
	MaxSessions int
	IdleTimeout time.Duration
}

// Session is one user's recommendation context.
type Session struct {
	ID           string
	CreatedAt    time.Time
	Orchestrator *recommend.Orchestrator
}

// Registry holds sessions in an LRU with idle expiry. It is safe for
// concurrent use.
type Registry struct {
	sessions *cache.LRU[*Session]
	factory  Factory
	pub      Publisher
	logger   zerolog.Logger
}

// NewRegistry creates a Registry. pub may be nil when nothing subscribes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRegistry(cfg Config, factory Factory, pub Publisher, logger zerolog.Logger) *Registry {
	r := &Registry{
		factory: factory,
		pub:     pub,
		logger:  logger.With().Str("component", "session").Logger(),
	}
	r.sessions = cache.NewLRU[*Session](cfg.MaxSessions, cfg.IdleTimeout, r.evicted)
	return r
}

// Create starts a new session.
func (r *Registry) Create() (*Session, error) {
	orch, err := r.factory()
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}
	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Orchestrator: orch,
	}
	if r.pub != nil {
		id := s.ID
		orch.OnChange(func(snap recommend.Snapshot) {
			r.pub.Publish(id, websocket.MessageTypeState, snap)
		})
	}

	r.sessions.Add(s.ID, s)
	metrics.ActiveSessions.Set(float64(r.sessions.Len()))
	r.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s, nil
}

// Get returns the session and refreshes its idle deadline.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete ends a session.
func (r *Registry) Delete(id string) error {
	if !r.sessions.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// Sweep removes idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	return r.sessions.RemoveExpired()
}

// Len returns the number of sessions, including idle ones not yet swept.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) evicted(id string, _ *Session, reason cache.EvictReason) {
	metrics.SessionsEvicted.WithLabelValues(string(reason)).Inc()
	metrics.ActiveSessions.Set(float64(r.sessions.Len()))
	if r.pub != nil {
		r.pub.CloseTopic(id, string(reason))
	}
	r.logger.Debug().Str("session_id", id).Str("reason", string(reason)).Msg("session ended")
}
