// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/recommend"
	"github.com/tomtom215/reelpick/internal/upstream"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions", "")
	checkStatus(t, status, http.StatusCreated)
	var created sessionResponse
	decodeData(t, resp, &created)
	if created.ID == "" {
		t.Fatal("expected a session ID")
	}
	if created.Snapshot.State != recommend.StateIdle || created.Snapshot.Movie != nil {
		t.Errorf("new session snapshot = %+v, want idle without movie", created.Snapshot)
	}
	if resp.Meta.RequestID == "" {
		t.Error("expected request_id in metadata")
	}

	status, resp = env.do(t, http.MethodGet, "/api/v1/sessions/"+created.ID, "")
	checkStatus(t, status, http.StatusOK)
	var got sessionResponse
	decodeData(t, resp, &got)
	checkStringEqual(t, "id", got.ID, created.ID)

	status, resp = env.do(t, http.MethodGet, "/api/v1/sessions/"+created.ID+"/history", "")
	checkStatus(t, status, http.StatusOK)
	var hist historyResponse
	decodeData(t, resp, &hist)
	if hist.Count != 0 || hist.Movies == nil {
		t.Errorf("history = %+v, want empty non-null list", hist)
	}

	status, _ = env.do(t, http.MethodDelete, "/api/v1/sessions/"+created.ID, "")
	checkStatus(t, status, http.StatusNoContent)

	status, resp = env.do(t, http.MethodGet, "/api/v1/sessions/"+created.ID, "")
	checkStatus(t, status, http.StatusNotFound)
	checkErrorCode(t, resp, ErrCodeNotFound)
}

func TestSession_IDValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	status, resp := env.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	checkStatus(t, status, http.StatusBadRequest)
	checkErrorCode(t, resp, ErrCodeValidation)

	status, resp = env.do(t, http.MethodGet, "/api/v1/sessions/3b241101-e2bb-4255-8caf-4136c566a962", "")
	checkStatus(t, status, http.StatusNotFound)
	checkErrorCode(t, resp, ErrCodeNotFound)
}

func TestGenerateMovie_Verified(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":" Horror ","language":"English"}`)
	checkStatus(t, status, http.StatusOK)

	var movie models.Movie
	decodeData(t, resp, &movie)
	if !movie.Verified {
		t.Error("expected a verified movie")
	}
	checkStringEqual(t, "Title", movie.Title, "The Thing")
	checkStringEqual(t, "IMDbID", movie.IMDbID, "tt0084787")
	checkStringEqual(t, "Rating", movie.Rating, "8.2/10")

	status, resp = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/history", "")
	checkStatus(t, status, http.StatusOK)
	var hist historyResponse
	decodeData(t, resp, &hist)
	if hist.Count != 1 || hist.Movies[0].IMDbID != "tt0084787" {
		t.Errorf("history = %+v, want the generated movie", hist)
	}
}

func TestGenerateMovie_UnverifiedFallback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{
		verifier: &stubVerifier{err: upstream.NewNetworkError("omdb", errors.New("dial tcp: refused"))},
	})
	id := env.createSession(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Horror"}`)
	checkStatus(t, status, http.StatusOK)

	var movie models.Movie
	decodeData(t, resp, &movie)
	if movie.Verified {
		t.Error("movie should be unverified when verification fails")
	}
	checkStringEqual(t, "Poster", movie.Poster, "https://img.example/none")
}

func TestGenerateMovie_RequestErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty body", "", ErrCodeBadRequest},
		{"invalid json", `{"genre":`, ErrCodeBadRequest},
		{"missing genre", `{"language":"English"}`, ErrCodeValidation},
		{"blank genre", `{"genre":"   "}`, ErrCodeValidation},
		{"genre too long", `{"genre":"` + strings.Repeat("g", 65) + `"}`, ErrCodeValidation},
		{"control characters", `{"genre":"Horror\u0007"}`, ErrCodeValidation},
		{"language too long", `{"genre":"Horror","language":"` + strings.Repeat("l", 33) + `"}`, ErrCodeValidation},
		{"oversized body", `{"genre":"Horror","pad":"` + strings.Repeat("x", maxRequestBody) + `"}`, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", tt.body)
			checkStatus(t, status, http.StatusBadRequest)
			checkErrorCode(t, resp, tt.wantCode)
		})
	}
}

func TestGenerateMovie_UpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", upstream.NewServerError("groq", http.StatusUnauthorized, "Invalid API Key"), "Invalid API Key"},
		{"network", upstream.NewNetworkError("groq", errors.New("timeout")), upstream.MsgNoResponse},
		{"unparseable", &upstream.FormatError{Service: "groq", Err: errors.New("no json")}, upstream.MsgUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, envOptions{suggester: &stubSuggester{err: tt.err}})
			id := env.createSession(t)

			status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Drama"}`)
			checkStatus(t, status, http.StatusBadGateway)
			checkErrorCode(t, resp, ErrCodeUpstream)
			checkStringEqual(t, "message", resp.Error.Message, tt.wantMsg)

			sess, err := env.sessions.Get(id)
			if err != nil {
				t.Fatalf("session vanished: %v", err)
			}
			if snap := sess.Orchestrator.Snapshot(); snap.State != recommend.StateFailed || snap.Error != tt.wantMsg {
				t.Errorf("snapshot = %+v, want failed with %q", snap, tt.wantMsg)
			}
		})
	}
}

func TestGenerateMovie_Busy(t *testing.T) {
	t.Parallel()
	sug := &stubSuggester{s: theThingSuggestion(), block: make(chan struct{})}
	env := newTestEnv(t, envOptions{suggester: sug})
	id := env.createSession(t)
	sess, _ := env.sessions.Get(id)

	first := make(chan int, 1)
	go func() {
		status, _ := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Horror"}`)
		first <- status
	}()
	waitFor(t, "first run to start", func() bool { return sess.Orchestrator.Snapshot().Busy })

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Comedy"}`)
	checkStatus(t, status, http.StatusConflict)
	checkErrorCode(t, resp, ErrCodeBusy)

	close(sug.block)
	if got := <-first; got != http.StatusOK {
		t.Errorf("first run status = %d, want 200", got)
	}
}

func TestResetSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	status, _ := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Horror"}`)
	checkStatus(t, status, http.StatusOK)

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reset", "")
	checkStatus(t, status, http.StatusOK)
	var snap recommend.Snapshot
	decodeData(t, resp, &snap)
	if snap.State != recommend.StateIdle || snap.Movie != nil || snap.HistorySize != 1 {
		t.Errorf("soft reset snapshot = %+v, want idle, no movie, history kept", snap)
	}

	status, resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reset", `{"clear_history":true}`)
	checkStatus(t, status, http.StatusOK)
	decodeData(t, resp, &snap)
	if snap.HistorySize != 0 || snap.Attempts != 0 {
		t.Errorf("full reset snapshot = %+v, want cleared history", snap)
	}

	status, resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reset", `not json`)
	checkStatus(t, status, http.StatusBadRequest)
	checkErrorCode(t, resp, ErrCodeBadRequest)
}

func TestRespondGenerateError_UnknownError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{suggester: &stubSuggester{err: errors.New("boom")}})
	id := env.createSession(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Drama"}`)
	checkStatus(t, status, http.StatusInternalServerError)
	checkErrorCode(t, resp, ErrCodeInternalError)
	checkStringEqual(t, "message", resp.Error.Message, recommend.MsgGenerateFailed)
}
