// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"net/http"

	"github.com/tomtom215/reelpick/internal/models"
)

// Genres handles GET /api/v1/genres.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, models.Genres)
}

// Languages handles GET /api/v1/languages.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, models.Languages)
}
