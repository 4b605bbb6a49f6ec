// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"strings"

	"github.com/tomtom215/reelpick/internal/models"
)

const imdbSource = "Internet Movie Database"

// prefer returns verified unless the metadata service had no value for it.
func prefer(verified, generated string) string {
	if models.Available(verified) {
		return strings.TrimSpace(verified)
	}
	return strings.TrimSpace(generated)
}

func usablePoster(url string) bool {
	if !models.Available(url) {
		return false
	}
	u := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}

// merge reconciles a suggestion with its verified record. Verified fields
// win; the suggestion fills whatever the metadata service marked absent.
func (o *Orchestrator) merge(s *models.Suggestion, v *models.VerifiedMovie, genre string) models.Movie {
	m := models.Movie{
		IMDbID:    strings.TrimSpace(v.IMDbID),
		Title:     prefer(v.Title, s.Title),
		Year:      prefer(v.Year, s.Year),
		Director:  prefer(v.Director, s.Director),
		Plot:      prefer(v.Plot, s.Synopsis),
		Runtime:   prefer(v.Runtime, ""),
		Genre:     prefer(v.Genre, genre),
		Language:  prefer(v.Language, s.Language),
		Rated:     prefer(v.Rated, ""),
		Released:  prefer(v.Released, ""),
		Awards:    prefer(v.Awards, ""),
		BoxOffice: prefer(v.BoxOffice, ""),
		Verified:  true,
		Source:    models.SourceVerified,
	}

	if cast := models.SplitList(v.Actors); len(cast) > 0 {
		m.Cast = cast
	} else {
		m.Cast = append([]string{}, s.Cast...)
	}

	if models.Available(v.IMDbRating) {
		m.IMDbRating = strings.TrimSpace(v.IMDbRating)
	}
	m.Rating = strings.TrimSpace(s.Rating)
	if m.Rating == "" && m.IMDbRating != "" {
		m.Rating = m.IMDbRating + "/10"
	}

	m.Ratings = make([]models.Rating, 0, len(v.Ratings)+1)
	for _, r := range v.Ratings {
		if models.Available(r.Source) && models.Available(r.Value) {
			m.Ratings = append(m.Ratings, r)
		}
	}
	if len(m.Ratings) == 0 {
		value := m.Rating
		if m.IMDbRating != "" {
			value = m.IMDbRating + "/10"
		}
		if value == "" {
			value = models.NotAvailable
		}
		m.Ratings = append(m.Ratings, models.Rating{Source: imdbSource, Value: value})
	}

	switch {
	case usablePoster(v.Poster):
		m.Poster = strings.TrimSpace(v.Poster)
	case o.cfg.UsePosterAPI && m.IMDbID != "":
		m.Poster = o.verifier.PosterURL(m.IMDbID)
	default:
		m.Poster = o.verifier.PlaceholderPosterURL(m.Title)
	}
	return m
}

// unverified builds the fallback movie from the suggestion alone.
func (o *Orchestrator) unverified(s *models.Suggestion, genre string) models.Movie {
	rating := strings.TrimSpace(s.Rating)
	value := rating
	if value == "" {
		value = models.NotAvailable
	}
	return models.Movie{
		Title:    strings.TrimSpace(s.Title),
		Year:     strings.TrimSpace(s.Year),
		Director: strings.TrimSpace(s.Director),
		Plot:     strings.TrimSpace(s.Synopsis),
		Rating:   rating,
		Ratings:  []models.Rating{{Source: models.AIEstimatedSource, Value: value}},
		Genre:    genre,
		Language: strings.TrimSpace(s.Language),
		Poster:   o.verifier.DefaultPosterURL(),
		Cast:     append([]string{}, s.Cast...),
		Verified: false,
		Source:   models.SourceGenerated,
	}
}

func cloneMovie(m *models.Movie) models.Movie {
	c := *m
	if m.Ratings != nil {
		c.Ratings = append(make([]models.Rating, 0, len(m.Ratings)), m.Ratings...)
	}
	if m.Cast != nil {
		c.Cast = append(make([]string, 0, len(m.Cast)), m.Cast...)
	}
	return c
}
