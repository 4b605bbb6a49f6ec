// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package models defines the movie data shared by the suggestion client, the
verification client, the orchestrator and the API.

Key Components:

  - Suggestion: a movie proposed by the language model, unverified
  - VerifiedMovie: the authoritative record returned by OMDb
  - Movie: the published result, either merged from both or the suggestion
    alone with Verified set to false
  - Rating: one source/value pair
  - Genres and Languages: the catalogs offered to clients

OMDb reports missing values as "N/A". Available and SplitList normalize those
so that empty fields and lists never carry the sentinel.

All JSON tags use snake_case, matching the API envelope.
*/
package models
