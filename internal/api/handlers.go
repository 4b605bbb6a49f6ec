// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/session"
	"github.com/tomtom215/reelpick/internal/validation"
	ws "github.com/tomtom215/reelpick/internal/websocket"
)

// Upstream is the view of an upstream client the readiness probe needs.
type Upstream interface {
	Configured() bool
	BreakerState() string
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// CORSOrigins also gate websocket upgrades.
	CORSOrigins []string
	// GenerateTimeout bounds a generate run. The run is detached from the
	// request, so a client that disconnects still gets the result over the
	// websocket.
	GenerateTimeout time.Duration
	Version         string
}

// Handler serves the HTTP API.
type Handler struct {
	sessions  *session.Registry
	hub       *ws.Hub
	suggest   Upstream
	omdb      Upstream
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler. suggest and omdb may be nil, in which case
// readiness reports them as unconfigured.
func NewHandler(sessions *session.Registry, hub *ws.Hub, suggest, omdb Upstream, cfg HandlerConfig) *Handler {
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 5 * time.Minute
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		sessions:  sessions,
		hub:       hub,
		suggest:   suggest,
		omdb:      omdb,
		config:    cfg,
		startTime: time.Now(),
	}
}

type sessionParams struct {
	ID string `json:"session_id" validate:"required,uuid4"`
}

// lookupSession resolves the {id} URL parameter. On failure it has already
// written the response.
func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	params := sessionParams{ID: chi.URLParam(r, "id")}
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidationError(w, r, verr)
		return nil, false
	}
	sess, err := h.sessions.Get(params.ID)
	if errors.Is(err, session.ErrNotFound) {
		NewResponseWriter(w, r).NotFound("Session not found or expired.")
		return nil, false
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup failed")
		NewResponseWriter(w, r).InternalError("Failed to load session.")
		return nil, false
	}
	return sess, true
}

func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, apiErr.Message, apiErr.Details)
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin allows browser origins listed in CORSOrigins. Browsers
// always send Origin on websocket handshakes, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.config.CORSOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().
		Str("origin", logging.Truncate(sanitizeLogValue(origin), 128)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// sanitizeLogValue strips control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
