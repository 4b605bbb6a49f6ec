// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/reelpick/internal/recommend"
	ws "github.com/tomtom215/reelpick/internal/websocket"
)

type stateMessage struct {
	Type string             `json:"type"`
	Data recommend.Snapshot `json:"data"`
}

func dialSession(t *testing.T, env *testEnv, id, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(env.server, "/api/v1/sessions/"+id+"/ws"), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

func readState(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg stateMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return msg
}

func TestSessionWebSocket_PushesStateChanges(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	conn, _, err := dialSession(t, env, id, allowedOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	first := readState(t, conn)
	if first.Type != ws.MessageTypeState || first.Data.State != recommend.StateIdle {
		t.Fatalf("first message = %+v, want idle state", first)
	}
	waitFor(t, "subscriber registration", func() bool { return env.hub.ClientCount(id) == 1 })

	status, _ := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", `{"genre":"Horror"}`)
	checkStatus(t, status, http.StatusOK)

	var seen []recommend.State
	for {
		msg := readState(t, conn)
		seen = append(seen, msg.Data.State)
		if msg.Data.State == recommend.StateDone && !msg.Data.Busy {
			if msg.Data.Movie == nil || msg.Data.Movie.IMDbID != "tt0084787" {
				t.Errorf("final snapshot movie = %+v", msg.Data.Movie)
			}
			break
		}
		if len(seen) > 10 {
			t.Fatalf("never saw a finished done state: %v", seen)
		}
	}
	if seen[0] != recommend.StateGenerating {
		t.Errorf("first pushed state = %s, want generating (all: %v)", seen[0], seen)
	}
}

func TestSessionWebSocket_ClosedWithSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	conn, _, err := dialSession(t, env, id, allowedOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readState(t, conn)
	waitFor(t, "subscriber registration", func() bool { return env.hub.ClientCount(id) == 1 })

	status, _ := env.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "")
	checkStatus(t, status, http.StatusNoContent)

	msg := readState(t, conn)
	if msg.Type != ws.MessageTypeClosed {
		t.Errorf("message type = %q, want %q", msg.Type, ws.MessageTypeClosed)
	}
	waitFor(t, "subscriber removal", func() bool { return env.hub.ClientCount(id) == 0 })
}

func TestSessionWebSocket_Rejections(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	id := env.createSession(t)

	tests := []struct {
		name       string
		id         string
		origin     string
		wantStatus int
	}{
		{"missing origin", id, "", http.StatusForbidden},
		{"foreign origin", id, "http://evil.example", http.StatusForbidden},
		{"unknown session", "3b241101-e2bb-4255-8caf-4136c566a962", allowedOrigin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, resp, err := dialSession(t, env, tt.id, tt.origin)
			if err == nil {
				t.Fatal("expected handshake to fail")
			}
			if resp == nil || resp.StatusCode != tt.wantStatus {
				t.Errorf("handshake response = %v, want status %d", resp, tt.wantStatus)
			}
		})
	}
}
