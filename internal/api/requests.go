// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const maxRequestBody = 4 << 10

// generateRequest is the body of POST /sessions/{id}/generate.
type generateRequest struct {
	Genre    string `json:"genre" validate:"required,notblank,max=64,plaintext"`
	Language string `json:"language" validate:"omitempty,max=32,plaintext"`
}

func (g *generateRequest) normalize() {
	g.Genre = strings.TrimSpace(g.Genre)
	g.Language = strings.TrimSpace(g.Language)
}

// resetRequest is the optional body of POST /sessions/{id}/reset.
type resetRequest struct {
	ClearHistory bool `json:"clear_history"`
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a size-limited JSON body into dst. An empty body yields
// errEmptyBody so callers can decide whether the body is optional.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(raw, dst)
}

// bodyErrorMessage turns a decode failure into a client-facing message.
func bodyErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errEmptyBody):
		return "Request body is required."
	case errors.As(err, &maxErr):
		return "Request body is too large."
	default:
		return "Request body must be valid JSON."
	}
}
