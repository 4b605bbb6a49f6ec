// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package models

import "strings"

// NotAvailable is the metadata source's marker for an absent field.
const NotAvailable = "N/A"

// AIEstimatedSource labels the single synthetic rating of an unverified movie.
const AIEstimatedSource = "AI Estimated"

// Record sources for Movie.Source.
const (
	SourceVerified  = "verified"
	SourceGenerated = "generated"
)

// Suggestion is a generative model's best guess at a movie for a genre.
// Nothing in it is trusted: the film may not exist or details may be wrong.
type Suggestion struct {
	Title    string   `json:"title"`
	Year     string   `json:"year"` // free-form, e.g. "1982" or "1982 (Director's Cut)"
	Director string   `json:"director"`
	Synopsis string   `json:"synopsis"`
	Rating   string   `json:"rating"` // e.g. "8.5/10"
	Cast     []string `json:"cast"`
	Language string   `json:"language,omitempty"`
}

// Rating is one review source's score as returned by the metadata service.
type Rating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// VerifiedMovie is an authoritative record from the metadata service.
// Fields the service has no data for hold NotAvailable.
type VerifiedMovie struct {
	IMDbID     string   `json:"imdb_id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Director   string   `json:"director"`
	Plot       string   `json:"plot"`
	IMDbRating string   `json:"imdb_rating"`
	Ratings    []Rating `json:"ratings"`
	Runtime    string   `json:"runtime"`
	Genre      string   `json:"genre"` // comma-joined
	Language   string   `json:"language"`
	Rated      string   `json:"rated"`
	Released   string   `json:"released"`
	Awards     string   `json:"awards"`
	BoxOffice  string   `json:"box_office"`
	Poster     string   `json:"poster"`
	Actors     string   `json:"actors"` // comma-joined
}

// Movie is the reconciled record handed to the presentation layer.
type Movie struct {
	IMDbID     string   `json:"imdb_id,omitempty"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Director   string   `json:"director"`
	Plot       string   `json:"plot"`
	Rating     string   `json:"rating"` // headline rating, always set when any rating is known
	IMDbRating string   `json:"imdb_rating,omitempty"`
	Ratings    []Rating `json:"ratings"`
	Runtime    string   `json:"runtime,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Language   string   `json:"language,omitempty"`
	Rated      string   `json:"rated,omitempty"`
	Released   string   `json:"released,omitempty"`
	Awards     string   `json:"awards,omitempty"`
	BoxOffice  string   `json:"box_office,omitempty"`
	Poster     string   `json:"poster"`
	Cast       []string `json:"cast"`
	Verified   bool     `json:"verified"`
	Source     string   `json:"source"`
}

// Available reports whether a metadata field carries a real value.
func Available(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NotAvailable
}

// SplitList splits a comma-joined metadata list, dropping blanks and NotAvailable.
func SplitList(s string) []string {
	if !Available(s) {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); Available(p) {
			out = append(out, p)
		}
	}
	return out
}
