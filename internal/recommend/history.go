// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"strings"

	"github.com/tomtom215/reelpick/internal/models"
)

type historyEntry struct {
	movie  models.Movie
	imdbID string
	keys   []string
}

// history is a fixed-capacity FIFO of published movies. It is not
// synchronized; the Orchestrator guards it.
type history struct {
	entries []historyEntry
	head    int // index of the oldest entry
	size    int
}

func newHistory(capacity int) *history {
	return &history{entries: make([]historyEntry, capacity)}
}

// contains reports whether an entry matches imdbID or shares any key.
func (h *history) contains(imdbID string, keys ...string) bool {
	imdbID = strings.TrimSpace(imdbID)
	for i := 0; i < h.size; i++ {
		e := &h.entries[(h.head+i)%len(h.entries)]
		if imdbID != "" && strings.EqualFold(e.imdbID, imdbID) {
			return true
		}
		for _, k := range keys {
			if k == "" {
				continue
			}
			for _, ek := range e.keys {
				if ek == k {
					return true
				}
			}
		}
	}
	return false
}

// add appends e unless an equivalent entry exists, evicting the oldest entry
// when full. It reports whether e was stored.
func (h *history) add(e historyEntry) bool {
	if h.contains(e.imdbID, e.keys...) {
		return false
	}
	if h.size == len(h.entries) {
		h.entries[h.head] = e
		h.head = (h.head + 1) % len(h.entries)
		return true
	}
	h.entries[(h.head+h.size)%len(h.entries)] = e
	h.size++
	return true
}

// movies returns copies of the stored movies, oldest first.
func (h *history) movies() []models.Movie {
	out := make([]models.Movie, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, cloneMovie(&h.entries[(h.head+i)%len(h.entries)].movie))
	}
	return out
}

func (h *history) len() int { return h.size }

func (h *history) clear() {
	clear(h.entries)
	h.head, h.size = 0, 0
}
