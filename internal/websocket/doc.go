// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package websocket pushes session state to browsers.

A single Hub, run under the supervisor, tracks every connected Client. Each
client subscribes to one topic, the ID of the session it watches, and only
receives messages published to that topic:

	Orchestrator.OnChange ─► Hub.Publish(sessionID, "state", snapshot)
	                              │
	             ┌────────────────┼────────────────┐
	          Client(s1)       Client(s1)       Client(s2)  ← not delivered

Each client has two goroutines:
  - readPump: reads client pings and refreshes the read deadline on pong
  - writePump: writes queued messages and sends keepalive pings

Message Types:

  - state: the session's current Snapshot
  - session_closed: the session was deleted or expired; the socket closes next
  - pong: reply to a client "ping" message

Publishing never blocks. When the hub or a client buffer is full the message
is dropped, which is safe because every state message carries the complete
snapshot. CloseTopic is the exception: it disconnects the topic's clients on
the caller's goroutine, and session_closed displaces the oldest pending
message when a client buffer is full.
*/
package websocket
