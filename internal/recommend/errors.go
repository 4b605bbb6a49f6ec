// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/reelpick/internal/upstream"
)

var (
	// ErrEmptyGenre is returned when Generate is called without a genre.
	ErrEmptyGenre = errors.New("genre is required")

	// ErrBusy is returned when Generate is called while a run is in flight.
	ErrBusy = errors.New("a recommendation is already being generated")
)

// MsgGenerateFailed is shown for failures outside the upstream taxonomy.
const MsgGenerateFailed = "Failed to generate movie. Please try again."

// ErrorMessage returns the user-facing text for a Generate error.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyGenre):
		return "Please select a genre."
	case errors.Is(err, ErrBusy):
		return "A movie is already being generated. Please wait."
	}
	if msg := upstream.Message(err); msg != "" {
		return msg
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return upstream.MsgNoResponse
	}
	return MsgGenerateFailed
}
