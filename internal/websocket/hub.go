// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeState  = "state"
	MessageTypeClosed = "session_closed"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// envelope routes a message to the clients of one topic (a session ID).
type envelope struct {
	topic string
	msg   Message
}

// Hub maintains the set of active clients and routes messages to the clients
// subscribed to a topic.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err(). It is meant to run under a supervisor.
//
// Lifecycle events are drained before broadcasts so a client registered
// ahead of a message always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Inc()
	logging.Debug().
		Str("session_id", client.topic).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		h.removeLocked(client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		logging.Debug().
			Str("session_id", client.topic).
			Int("total_clients", total).
			Msg("websocket client disconnected")
	}
}

// removeLocked drops a client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	metrics.WebSocketConnections.Dec()
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.ClientCount("")
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// topicClients returns the clients of topic ordered by ID. h.mu must be held.
func (h *Hub) topicClients(topic string) []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if topic == "" || client.topic == topic {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// deliver sends a message to every client of its topic. A client whose
// buffer is full misses the message; the next state push supersedes it.
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.topicClients(env.topic) {
		if !client.Queue(env.msg) {
			logging.Debug().Str("session_id", client.topic).Str("message_type", env.msg.Type).Msg("websocket client buffer full, dropping message")
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.topicClients("") {
		h.removeLocked(client)
	}
}

// Publish queues a message for the clients of topic. It never blocks; when
// the hub is backed up the message is dropped.
func (h *Hub) Publish(topic, messageType string, data any) {
	h.enqueue(envelope{topic: topic, msg: Message{Type: messageType, Data: data}})
}

// CloseTopic sends a final session_closed message to the clients of topic
// and disconnects them. It bypasses the broadcast channel and never drops:
// the clients are gone when it returns, whether or not the hub is running.
func (h *Hub) CloseTopic(topic, reason string) {
	if topic == "" {
		return
	}
	msg := Message{Type: MessageTypeClosed, Data: map[string]string{"reason": reason}}

	h.mu.Lock()
	clients := h.topicClients(topic)
	for _, client := range clients {
		client.queueFinal(msg)
		h.removeLocked(client)
	}
	h.mu.Unlock()

	if len(clients) > 0 {
		logging.Debug().
			Str("session_id", topic).
			Str("reason", reason).
			Int("clients_closed", len(clients)).
			Msg("websocket topic closed")
	}
}

func (h *Hub) enqueue(env envelope) {
	if env.topic == "" {
		return
	}
	select {
	case h.broadcast <- env:
	default:
		logging.Warn().
			Str("session_id", env.topic).
			Str("message_type", env.msg.Type).
			Msg("broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of clients of topic, or of all topics when
// topic is empty.
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if topic == "" {
		return len(h.clients)
	}
	n := 0
	for client := range h.clients {
		if client.topic == topic {
			n++
		}
	}
	return n
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
