// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package omdb

import (
	"strings"

	"github.com/tomtom215/reelpick/internal/models"
)

// envelope carries OMDb's success flag, present on every response.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e *envelope) status() envelope { return *e }

type responder interface {
	status() envelope
}

type rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// record is an OMDb title record (i= or t= lookups).
type record struct {
	envelope
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []rating `json:"Ratings"`
	IMDbRating string   `json:"imdbRating"`
	IMDbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	BoxOffice  string   `json:"BoxOffice"`
}

type searchResponse struct {
	envelope
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
}

// toModel converts the record. Blank fields become models.NotAvailable so
// downstream code has a single absence marker to check.
func (r *record) toModel() *models.VerifiedMovie {
	na := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return models.NotAvailable
		}
		return s
	}
	ratings := make([]models.Rating, 0, len(r.Ratings))
	for _, rt := range r.Ratings {
		if models.Available(rt.Source) && models.Available(rt.Value) {
			ratings = append(ratings, models.Rating{Source: rt.Source, Value: rt.Value})
		}
	}
	return &models.VerifiedMovie{
		IMDbID:     strings.TrimSpace(r.IMDbID),
		Title:      na(r.Title),
		Year:       na(r.Year),
		Director:   na(r.Director),
		Plot:       na(r.Plot),
		IMDbRating: na(r.IMDbRating),
		Ratings:    ratings,
		Runtime:    na(r.Runtime),
		Genre:      na(r.Genre),
		Language:   na(r.Language),
		Rated:      na(r.Rated),
		Released:   na(r.Released),
		Awards:     na(r.Awards),
		BoxOffice:  na(r.BoxOffice),
		Poster:     na(r.Poster),
		Actors:     na(r.Actors),
	}
}
