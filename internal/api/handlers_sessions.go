// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/recommend"
	"github.com/tomtom215/reelpick/internal/session"
	"github.com/tomtom215/reelpick/internal/upstream"
	"github.com/tomtom215/reelpick/internal/validation"
)

type sessionResponse struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Snapshot  recommend.Snapshot `json:"snapshot"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt, Snapshot: s.Orchestrator.Snapshot()}
}

type historyResponse struct {
	Movies []models.Movie `json:"movies"`
	Count  int            `json:"count"`
}

// CreateSession handles POST /api/v1/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Create()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to create session")
		NewResponseWriter(w, r).InternalError("Failed to create session.")
		return
	}
	NewResponseWriter(w, r).Created(newSessionResponse(sess))
}

// GetSession handles GET /api/v1/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, newSessionResponse(sess))
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete session")
		NewResponseWriter(w, r).InternalError("Failed to delete session.")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// GenerateMovie handles POST /api/v1/sessions/{id}/generate. It blocks until
// the run finishes; progress is pushed over the session websocket meanwhile.
func (h *Handler) GenerateMovie(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(bodyErrorMessage(err))
		return
	}
	req.normalize()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx := logging.ContextWithSessionID(context.WithoutCancel(r.Context()), sess.ID)
	ctx, cancel := context.WithTimeout(ctx, h.config.GenerateTimeout)
	defer cancel()

	movie, err := sess.Orchestrator.Generate(ctx, req.Genre, req.Language)
	if err != nil {
		respondGenerateError(w, r, err)
		return
	}
	WriteSuccess(w, r, movie)
}

// respondGenerateError maps orchestrator errors to API responses. The message
// is always the user-facing text from recommend.ErrorMessage.
func respondGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	msg := recommend.ErrorMessage(err)
	switch {
	case errors.Is(err, recommend.ErrBusy):
		rw.Error(http.StatusConflict, ErrCodeBusy, msg)
	case errors.Is(err, recommend.ErrEmptyGenre):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, msg, map[string]any{"field": "genre", "tag": "required"})
	case upstream.KindOf(err) != "",
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		rw.Error(http.StatusBadGateway, ErrCodeUpstream, msg)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Generate failed")
		rw.InternalError(msg)
	}
}

// ResetSession handles POST /api/v1/sessions/{id}/reset. The body is optional.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		NewResponseWriter(w, r).BadRequest(bodyErrorMessage(err))
		return
	}

	sess.Orchestrator.Reset(req.ClearHistory)
	WriteSuccess(w, r, sess.Orchestrator.Snapshot())
}

// SessionHistory handles GET /api/v1/sessions/{id}/history, oldest first.
func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	movies := sess.Orchestrator.History()
	WriteSuccess(w, r, historyResponse{Movies: movies, Count: len(movies)})
}
