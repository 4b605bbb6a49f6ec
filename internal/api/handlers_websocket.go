// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"net/http"

	"github.com/tomtom215/reelpick/internal/logging"
	ws "github.com/tomtom215/reelpick/internal/websocket"
)

// SessionWebSocket handles GET /api/v1/sessions/{id}/ws. The connection
// receives the current snapshot immediately, then one "state" message per
// change until the session ends.
func (h *Handler) SessionWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable")
		return
	}

	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn, sess.ID)
	client.Queue(ws.Message{Type: ws.MessageTypeState, Data: sess.Orchestrator.Snapshot()})
	h.hub.Register <- client
	client.Start()
}
