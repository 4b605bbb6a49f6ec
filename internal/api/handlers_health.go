// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"net/http"
	"time"
)

// UpstreamStatus is one upstream client's readiness.
type UpstreamStatus struct {
	Configured bool   `json:"configured"`
	Breaker    string `json:"breaker"`
}

// ReadyStatus is the body of the readiness probe.
type ReadyStatus struct {
	Status         string         `json:"status"`
	Version        string         `json:"version"`
	Uptime         float64        `json:"uptime_seconds"`
	ActiveSessions int            `json:"active_sessions"`
	Suggest        UpstreamStatus `json:"suggest"`
	OMDb           UpstreamStatus `json:"omdb"`
}

// HealthLive handles GET /api/v1/health/live. The process is alive if it
// can answer.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready.
//
// Status is "ready" with the suggestion client configured and its breaker
// not open, "degraded" when only verification is unavailable (movies are
// still served, unverified) and "not_ready" otherwise, answered with 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{
		Version:        h.config.Version,
		Uptime:         time.Since(h.startTime).Seconds(),
		ActiveSessions: h.sessions.Len(),
		Suggest:        upstreamStatus(h.suggest),
		OMDb:           upstreamStatus(h.omdb),
	}

	switch {
	case !usable(status.Suggest):
		status.Status = "not_ready"
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Suggestion service is unavailable.", status)
		return
	case !usable(status.OMDb):
		status.Status = "degraded"
	default:
		status.Status = "ready"
	}
	WriteSuccess(w, r, status)
}

func upstreamStatus(u Upstream) UpstreamStatus {
	if u == nil {
		return UpstreamStatus{Breaker: "unknown"}
	}
	return UpstreamStatus{Configured: u.Configured(), Breaker: u.BreakerState()}
}

func usable(s UpstreamStatus) bool {
	return s.Configured && s.Breaker != "open"
}
