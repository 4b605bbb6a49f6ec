// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package validation checks API request bodies with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata, so building one per request would waste work. Errors report JSON
// field names and convert to the VALIDATION_ERROR body the API returns:
//
//	type GenerateRequest struct {
//	    Genre    string `json:"genre" validate:"required,notblank,max=64,plaintext"`
//	    Language string `json:"language" validate:"omitempty,max=32,plaintext"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Custom tags:
//
//   - notblank: the string has a non-whitespace character
//   - plaintext: the string has no control characters
package validation
