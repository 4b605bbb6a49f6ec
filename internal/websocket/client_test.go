// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serveHub upgrades each request and subscribes the connection to topic.
func serveHub(t *testing.T, hub *Hub, topic string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := NewClient(hub, conn, topic)
		client.Queue(Message{Type: MessageTypeState, Data: "initial"})
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server
}

func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestClient_Constants(t *testing.T) {
	t.Parallel()

	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod (%v) must be shorter than pongWait (%v)", pingPeriod, pongWait)
	}
	if writeWait <= 0 || maxMessageSize <= 0 {
		t.Error("timeouts and limits must be positive")
	}
}

func TestClient_Integration(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	conn := dialWebSocket(t, serveHub(t, hub, "session-1"))

	if msg := readMessage(t, conn); msg.Type != MessageTypeState || msg.Data != "initial" {
		t.Fatalf("first message = %+v, want initial state", msg)
	}

	waitFor(t, "registration", func() bool { return hub.ClientCount("session-1") == 1 })
	hub.Publish("session-1", MessageTypeState, "updated")
	if msg := readMessage(t, conn); msg.Data != "updated" {
		t.Errorf("second message = %+v", msg)
	}

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("expected pong, got %+v", msg)
	}

	hub.CloseTopic("session-1", "deleted")
	if msg := readMessage(t, conn); msg.Type != MessageTypeClosed {
		t.Errorf("expected session_closed, got %+v", msg)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the server to close the socket")
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	conn := dialWebSocket(t, serveHub(t, hub, "session-2"))
	readMessage(t, conn)
	waitFor(t, "registration", func() bool { return hub.ClientCount("session-2") == 1 })

	_ = conn.Close()
	waitFor(t, "unregistration", func() bool { return hub.ClientCount("session-2") == 0 })
}
