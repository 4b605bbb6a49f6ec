// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/recommend"
	"github.com/tomtom215/reelpick/internal/session"
	ws "github.com/tomtom215/reelpick/internal/websocket"
)

const allowedOrigin = "http://allowed.example"

// stubSuggester returns the same suggestion (or error) every call. When
// block is set each call waits for it first.
type stubSuggester struct {
	mu    sync.Mutex
	s     models.Suggestion
	err   error
	block chan struct{}
	calls int
}

func (f *stubSuggester) Suggest(ctx context.Context, _, _ string) (*models.Suggestion, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.s
	return &s, nil
}

type stubVerifier struct {
	movie *models.VerifiedMovie
	err   error
}

func (f *stubVerifier) LookupByTitle(context.Context, string, int) (*models.VerifiedMovie, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.movie
	return &m, nil
}

func (f *stubVerifier) PosterURL(id string) string { return "https://img.example/" + id }

func (f *stubVerifier) DefaultPosterURL() string { return "https://img.example/none" }

func (f *stubVerifier) PlaceholderPosterURL(title string) string {
	return "https://img.example/placeholder/" + title
}

type stubUpstream struct {
	configured bool
	state      string
}

func (u stubUpstream) Configured() bool     { return u.configured }
func (u stubUpstream) BreakerState() string { return u.state }

func theThingSuggestion() models.Suggestion {
	return models.Suggestion{
		Title:    "The Thing (1982 Version)",
		Year:     "1982",
		Director: "John Carpenter",
		Synopsis: "An alien in Antarctica.",
		Rating:   "8.2/10",
		Cast:     []string{"Kurt Russell"},
	}
}

func theThingRecord() *models.VerifiedMovie {
	return &models.VerifiedMovie{
		IMDbID:     "tt0084787",
		Title:      "The Thing",
		Year:       "1982",
		Director:   "John Carpenter",
		Plot:       "A research team in Antarctica is hunted by a shape-shifting alien.",
		IMDbRating: "8.2",
		Ratings:    []models.Rating{{Source: "Internet Movie Database", Value: "8.2/10"}},
		Runtime:    "109 min",
		Genre:      "Horror, Mystery, Sci-Fi",
		Language:   "English",
		Rated:      "R",
		Released:   "25 Jun 1982",
		Awards:     models.NotAvailable,
		BoxOffice:  "$13,782,838",
		Poster:     "https://m.media-amazon.com/images/thing.jpg",
		Actors:     "Kurt Russell, Wilford Brimley, Keith David",
	}
}

type testEnv struct {
	server   *httptest.Server
	sessions *session.Registry
	hub      *ws.Hub
}

type envOptions struct {
	suggester recommend.Suggester
	verifier  recommend.Verifier
	suggest   Upstream
	omdb      Upstream
	mw        *ChiMiddlewareConfig
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	if opts.suggester == nil {
		opts.suggester = &stubSuggester{s: theThingSuggestion()}
	}
	if opts.verifier == nil {
		opts.verifier = &stubVerifier{movie: theThingRecord()}
	}
	if opts.mw == nil {
		opts.mw = DefaultChiMiddlewareConfig()
		opts.mw.RateLimitDisabled = true
	}

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)

	factory := func() (*recommend.Orchestrator, error) {
		return recommend.New(opts.suggester, opts.verifier, recommend.DefaultConfig(), zerolog.Nop())
	}
	sessions := session.NewRegistry(session.Config{MaxSessions: 10, IdleTimeout: time.Hour}, factory, hub, zerolog.Nop())

	handler := NewHandler(sessions, hub, opts.suggest, opts.omdb, HandlerConfig{
		CORSOrigins:     []string{allowedOrigin},
		GenerateTimeout: 5 * time.Second,
		Version:         "test",
	})
	server := httptest.NewServer(NewRouter(handler, NewChiMiddleware(opts.mw)).SetupChi())
	t.Cleanup(server.Close)
	return &testEnv{server: server, sessions: sessions, hub: hub}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    APIMeta         `json:"metadata"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, path, err, raw)
		}
	}
	return resp.StatusCode, env
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/api/v1/sessions", "")
	checkStatus(t, status, http.StatusCreated)
	var created sessionResponse
	decodeData(t, env, &created)
	return created.ID
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func checkStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status: expected %d, got %d", want, got)
	}
}

func checkErrorCode(t *testing.T, env envelope, want string) {
	t.Helper()
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope with code %s, got success=%v", want, env.Success)
	}
	if env.Error.Code != want {
		t.Errorf("error code: expected %s, got %s (%s)", want, env.Error.Code, env.Error.Message)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}
