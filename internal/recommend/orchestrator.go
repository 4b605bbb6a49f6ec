// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/metrics"
	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/upstream"
)

// Suggester produces an unverified movie guess for a genre.
type Suggester interface {
	Suggest(ctx context.Context, genre, language string) (*models.Suggestion, error)
}

// Verifier looks up authoritative movie metadata and builds poster URLs.
type Verifier interface {
	LookupByTitle(ctx context.Context, title string, year int) (*models.VerifiedMovie, error)
	PosterURL(imdbID string) string
	DefaultPosterURL() string
	PlaceholderPosterURL(title string) string
}

// State is the orchestrator's position in a run.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateVerifying  State = "verifying"
	StateDone       State = "done"
	StateUnverified State = "unverified"
	StateFailed     State = "failed"
)

// Snapshot is the observable state handed to the presentation layer.
// Attempts counts suggestion attempts in the running generate call.
// Publishing a movie resets it to zero; a failed run keeps the count reached.
type Snapshot struct {
	State       State         `json:"state"`
	Busy        bool          `json:"busy"`
	Movie       *models.Movie `json:"movie"`
	Error       string        `json:"error,omitempty"`
	Attempts    int           `json:"attempts"`
	HistorySize int           `json:"history_size"`
}

// Orchestrator runs recommendations for a single session.
type Orchestrator struct {
	cfg       Config
	suggester Suggester
	verifier  Verifier
	logger    zerolog.Logger

	mu        sync.Mutex
	state     State
	busy      bool
	movie     *models.Movie
	errMsg    string
	attempts  int
	history   *history
	observers []func(Snapshot)
}

// New creates an Orchestrator.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(s Suggester, v Verifier, cfg Config, logger zerolog.Logger) (*Orchestrator, error) {
	if s == nil || v == nil {
		return nil, errors.New("recommend: suggester and verifier are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	return &Orchestrator{
		cfg:       cfg,
		suggester: s,
		verifier:  v,
		logger:    logger.With().Str("component", "recommend").Logger(),
		state:     StateIdle,
		history:   newHistory(cfg.HistorySize),
	}, nil
}

// OnChange registers fn to receive a Snapshot after every state change.
// fn runs on the goroutine that made the change and must not block.
func (o *Orchestrator) OnChange(fn func(Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Snapshot returns the current observable state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:       o.state,
		Busy:        o.busy,
		Error:       o.errMsg,
		Attempts:    o.attempts,
		HistorySize: o.history.len(),
	}
	if o.movie != nil {
		m := cloneMovie(o.movie)
		snap.Movie = &m
	}
	return snap
}

// History returns the remembered movies, oldest first.
func (o *Orchestrator) History() []models.Movie {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history.movies()
}

// Reset clears the current movie and error. With clearHistory it also
// forgets the history and the attempt counter. Reset does not interrupt a
// run in flight; the run's outcome is still published when it ends.
func (o *Orchestrator) Reset(clearHistory bool) {
	o.mu.Lock()
	o.movie = nil
	o.errMsg = ""
	if !o.busy {
		o.state = StateIdle
	}
	if clearHistory {
		o.history.clear()
		o.attempts = 0
	}
	o.mu.Unlock()

	o.logger.Debug().Bool("clear_history", clearHistory).Msg("[RECOMMEND] Reset")
	o.notify()
}

// Generate produces one recommendation for genre. language may be empty.
//
// Suggestion failures are returned (and shown in the Snapshot) with the
// previous movie left in place. Verification failures are not: the
// suggestion is published as an unverified movie instead.
func (o *Orchestrator) Generate(ctx context.Context, genre, language string) (*models.Movie, error) {
	genre = strings.TrimSpace(genre)
	language = strings.TrimSpace(language)
	if genre == "" {
		return nil, ErrEmptyGenre
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.busy = true
	o.errMsg = ""
	o.attempts = 0
	o.mu.Unlock()
	defer o.finish()

	logger := logging.CtxWith(ctx).
		Str("component", "recommend").
		Str("genre", genre).
		Str("language", language).
		Logger()
	start := time.Now()

	for attempt := 0; ; attempt++ {
		o.transition(StateGenerating, attempt+1)

		if err := ctx.Err(); err != nil {
			o.fail(ErrorMessage(err))
			metrics.RecordRecommendation("failed", attempt)
			return nil, fmt.Errorf("generate recommendation: %w", err)
		}

		sugg, err := o.suggester.Suggest(ctx, genre, language)
		if err != nil {
			msg := ErrorMessage(err)
			o.fail(msg)
			metrics.RecordRecommendation("failed", attempt+1)
			logger.Warn().Err(err).
				Int("attempt", attempt+1).
				Str("kind", string(upstream.KindOf(err))).
				Str("message", msg).
				Msg("[RECOMMEND] Suggestion failed")
			return nil, fmt.Errorf("generate suggestion: %w", err)
		}

		retriesLeft := attempt < o.cfg.MaxRetries
		keys := []string{NormalizeTitle(sugg.Title)}
		if o.seen("", keys...) {
			if retriesLeft {
				metrics.DuplicateRetries.WithLabelValues("suggestion").Inc()
				logger.Debug().Str("title", sugg.Title).Int("attempt", attempt+1).Msg("[RECOMMEND] Duplicate suggestion, retrying")
				continue
			}
			metrics.RetriesExhausted.Inc()
			logger.Warn().Str("title", sugg.Title).Int("attempts", attempt+1).Msg("[RECOMMEND] retries_exhausted, publishing duplicate")
		}

		title := CleanTitle(sugg.Title)
		year := ExtractYear(sugg.Year)
		o.transition(StateVerifying, attempt+1)

		verified, err := o.verifier.LookupByTitle(ctx, title, year)
		if err != nil {
			movie := o.unverified(sugg, genre)
			o.publish(&movie, StateUnverified, historyEntry{keys: keys})
			metrics.RecordRecommendation("unverified", attempt+1)

			ev := logger.Info()
			if !upstream.IsNotFound(err) {
				ev = logger.Warn()
			}
			ev.Err(err).
				Str("title", title).
				Int("year", year).
				Int("attempts", attempt+1).
				Dur("duration", time.Since(start)).
				Msg("[RECOMMEND] Verification failed, publishing unverified suggestion")
			out := cloneMovie(&movie)
			return &out, nil
		}

		verifiedKey := ""
		if models.Available(verified.Title) {
			verifiedKey = NormalizeTitle(verified.Title)
		}
		if retriesLeft && o.seen(verified.IMDbID, verifiedKey) {
			metrics.DuplicateRetries.WithLabelValues("verified").Inc()
			logger.Debug().Str("imdb_id", verified.IMDbID).Int("attempt", attempt+1).Msg("[RECOMMEND] Verified movie already shown, retrying")
			continue
		}

		movie := o.merge(sugg, verified, genre)
		if verifiedKey != "" {
			keys = append(keys, verifiedKey)
		}
		o.publish(&movie, StateDone, historyEntry{imdbID: movie.IMDbID, keys: keys})
		metrics.RecordRecommendation("verified", attempt+1)

		logger.Info().
			Str("title", movie.Title).
			Str("imdb_id", movie.IMDbID).
			Int("attempts", attempt+1).
			Dur("duration", time.Since(start)).
			Msg("[RECOMMEND] Published verified movie")
		out := cloneMovie(&movie)
		return &out, nil
	}
}

func (o *Orchestrator) seen(imdbID string, keys ...string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history.contains(imdbID, keys...)
}

func (o *Orchestrator) transition(state State, attempts int) {
	o.mu.Lock()
	o.state = state
	o.attempts = attempts
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) fail(msg string) {
	o.mu.Lock()
	o.state = StateFailed
	o.errMsg = msg
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) publish(movie *models.Movie, state State, entry historyEntry) {
	entry.movie = cloneMovie(movie)

	o.mu.Lock()
	o.history.add(entry)
	o.movie = movie
	o.errMsg = ""
	o.state = state
	o.attempts = 0
	o.mu.Unlock()
}

// finish lowers the busy flag. It runs exactly once per Generate.
func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	snap := o.snapshotLocked()
	observers := o.observers
	o.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
