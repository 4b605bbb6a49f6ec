// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package recommend orchestrates one movie recommendation at a time.
//
// # Flow
//
// A Generate run asks a Suggester for a movie in the requested genre, checks
// the suggestion against the session history, and verifies it with a
// Verifier. Verified fields are merged over the suggestion; when
// verification fails the suggestion is published on its own as an
// unverified movie.
//
//	Generate ─► Suggest ─► dedup ─► clean title ─► LookupByTitle ─► merge ─► publish
//	               │          │                          │
//	               │          └─ seen before: retry ◄────┘ (same IMDb ID)
//	               └─ error: fail (previous movie kept)
//
// # Duplicates
//
// The history keeps the last few published movies (5 by default). A
// suggestion whose normalized title, or whose verified IMDb ID, is already in
// the history is discarded and a new one requested, up to MaxRetries times.
// Once the budget is spent the duplicate is published anyway.
//
// # Concurrency
//
// An Orchestrator is safe for concurrent use but runs one Generate at a time;
// a second call while busy returns ErrBusy. Network calls happen outside the
// internal lock so Snapshot never blocks on I/O.
package recommend
