// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/upstream"
)

// scriptedSuggester replays a fixed list of results, repeating the last one
// once the script runs out.
type scriptedSuggester struct {
	mu     sync.Mutex
	script []suggestResult
	calls  int
	genres []string
	block  chan struct{} // when set, Suggest waits on it
}

type suggestResult struct {
	s   *models.Suggestion
	err error
}

func suggestions(titles ...string) *scriptedSuggester {
	f := &scriptedSuggester{}
	for _, t := range titles {
		f.script = append(f.script, suggestResult{s: &models.Suggestion{
			Title:    t,
			Year:     "1999",
			Director: "Generated Director",
			Synopsis: "Generated synopsis.",
			Rating:   "7.5/10",
			Cast:     []string{"Generated Actor"},
		}})
	}
	return f
}

func (f *scriptedSuggester) Suggest(ctx context.Context, genre, _ string) (*models.Suggestion, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, upstream.NewNetworkError("groq", ctx.Err())
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	f.calls++
	f.genres = append(f.genres, genre)
	r := f.script[i]
	if r.err != nil {
		return nil, r.err
	}
	cp := *r.s
	cp.Cast = append([]string(nil), r.s.Cast...)
	return &cp, nil
}

func (f *scriptedSuggester) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeVerifier answers lookups from a table keyed by cleaned title. Records
// added with withYear take precedence for that exact title and year.
type fakeVerifier struct {
	mu      sync.Mutex
	records map[string]*models.VerifiedMovie
	byYear  map[lookup]*models.VerifiedMovie
	err     error // returned for titles missing from records; nil means not found
	lookups []lookup
}

type lookup struct {
	title string
	year  int
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{
		records: map[string]*models.VerifiedMovie{},
		byYear:  map[lookup]*models.VerifiedMovie{},
	}
}

func (f *fakeVerifier) withYear(title string, year int, v *models.VerifiedMovie) *fakeVerifier {
	f.byYear[lookup{title: title, year: year}] = v
	return f
}

func (f *fakeVerifier) with(title string, v *models.VerifiedMovie) *fakeVerifier {
	f.records[title] = v
	return f
}

func (f *fakeVerifier) LookupByTitle(_ context.Context, title string, year int) (*models.VerifiedMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, lookup{title: title, year: year})
	if v, ok := f.byYear[lookup{title: title, year: year}]; ok {
		cp := *v
		return &cp, nil
	}
	if v, ok := f.records[title]; ok {
		cp := *v
		return &cp, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, &upstream.NotFoundError{Service: "omdb", Query: title}
}

func (f *fakeVerifier) PosterURL(id string) string           { return "poster-api:" + id }
func (f *fakeVerifier) DefaultPosterURL() string             { return "default-poster" }
func (f *fakeVerifier) PlaceholderPosterURL(t string) string { return "placeholder:" + t }

func (f *fakeVerifier) lastLookup() lookup {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.lookups) == 0 {
		return lookup{}
	}
	return f.lookups[len(f.lookups)-1]
}

func verifiedRecord(id, title string) *models.VerifiedMovie {
	return &models.VerifiedMovie{
		IMDbID:     id,
		Title:      title,
		Year:       "1982",
		Director:   "Verified Director",
		Plot:       "Verified plot.",
		IMDbRating: "8.2",
		Ratings:    []models.Rating{{Source: "Internet Movie Database", Value: "8.2/10"}},
		Runtime:    "109 min",
		Genre:      "Horror",
		Language:   "English",
		Rated:      "R",
		Released:   "25 Jun 1982",
		Awards:     models.NotAvailable,
		BoxOffice:  "$19,632,053",
		Poster:     "https://img.example/" + id + ".jpg",
		Actors:     "Kurt Russell, Keith David",
	}
}

func newOrchestrator(t *testing.T, s Suggester, v Verifier, mutate ...func(*Config)) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	o, err := New(s, v, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}
