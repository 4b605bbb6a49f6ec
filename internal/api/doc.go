// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package api provides the HTTP surface of Reelpick on a chi router.

# Endpoints

Sessions:
  - POST   /api/v1/sessions                 create a session (201)
  - GET    /api/v1/sessions/{id}            current snapshot
  - DELETE /api/v1/sessions/{id}            end the session (204)
  - POST   /api/v1/sessions/{id}/generate   {"genre": "Horror", "language": "Korean"}
  - POST   /api/v1/sessions/{id}/reset      {"clear_history": true}, body optional
  - GET    /api/v1/sessions/{id}/history    remembered movies, oldest first
  - GET    /api/v1/sessions/{id}/ws         websocket push of every state change

Catalogs and operations:
  - GET /api/v1/genres, GET /api/v1/languages
  - GET /api/v1/health/live, GET /api/v1/health/ready
  - GET /metrics

# Response Format

Every JSON response uses one envelope:

	{
	  "success": false,
	  "error": {"code": "UPSTREAM_ERROR", "message": "Invalid API Key"},
	  "metadata": {"timestamp": "...", "request_id": "...", "duration_ms": 412}
	}

Error codes: BAD_REQUEST, VALIDATION_ERROR, NOT_FOUND, BUSY, UPSTREAM_ERROR,
TOO_MANY_REQUESTS, SERVICE_UNAVAILABLE and INTERNAL_ERROR. Error messages are
the user-facing texts produced by the recommend package.

# Middleware

In order: request ID with logging context, RealIP, Recoverer, CORS, Prometheus
metrics, then per route group an inbound rate limit (go-chi/httprate) and
security headers.
*/
package api
