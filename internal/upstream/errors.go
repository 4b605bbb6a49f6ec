// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package upstream holds the error taxonomy and circuit breaker shared by
// the clients that talk to remote services.
package upstream

import (
	"errors"
	"fmt"
)

// Kind says why a remote call failed.
type Kind string

const (
	// KindServer means the remote responded with a failure.
	KindServer Kind = "server"
	// KindNetwork means no response was received.
	KindNetwork Kind = "network"
	// KindClient means the request could not be made or its response used,
	// e.g. a missing credential or an unparseable body.
	KindClient Kind = "client"
)

// Generic user-facing messages.
const (
	MsgServerFallback = "Server error. Please check your API key and try again."
	MsgNoResponse     = "No response from server. Please check your internet connection."
	MsgUnparseable    = "Failed to parse movie suggestion. Please try again."
	MsgUnavailable    = "Service temporarily unavailable. Please try again later."
)

// Error is a failed call to a remote service.
type Error struct {
	Service string // "suggest", "omdb"
	Kind    Kind
	Status  int    // HTTP status when a response was received
	Message string // user-facing message
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind) + " error"
	}
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s (status %d): %v", e.Service, msg, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Service, msg, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Service, msg, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Service, msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewServerError builds a server-kind error. An empty message falls back to
// MsgServerFallback.
func NewServerError(service string, status int, message string) *Error {
	if message == "" {
		message = MsgServerFallback
	}
	return &Error{Service: service, Kind: KindServer, Status: status, Message: message}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(service string, err error) *Error {
	return &Error{Service: service, Kind: KindNetwork, Message: MsgNoResponse, Err: err}
}

// NewClientError builds a client-kind error with a user-facing message.
func NewClientError(service, message string, err error) *Error {
	return &Error{Service: service, Kind: KindClient, Message: message, Err: err}
}

// NotFoundError means the remote service has no record matching the query.
type NotFoundError struct {
	Service string
	Query   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no match for %q", e.Service, e.Query)
}

// FormatError means a response arrived but was not the expected shape.
// It classifies as KindClient.
type FormatError struct {
	Service string
	Snippet string // start of the offending payload, for logs
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unparseable response: %v", e.Service, e.Err)
	}
	return e.Service + ": unparseable response"
}

func (e *FormatError) Unwrap() error { return e.Err }

// KindOf classifies err. It returns "" for errors outside the taxonomy and
// for NotFoundError.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return KindClient
	}
	return ""
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Message returns the user-facing text for err, or "" when err carries none.
func Message(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		if ue.Message != "" {
			return ue.Message
		}
		if ue.Kind == KindNetwork {
			return MsgNoResponse
		}
		if ue.Kind == KindServer {
			return MsgServerFallback
		}
		return ""
	}
	if IsFormat(err) {
		return MsgUnparseable
	}
	return ""
}

// Outcome maps err to a metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsFormat(err):
		return "format"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
