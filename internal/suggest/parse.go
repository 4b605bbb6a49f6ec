// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package suggest

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelpick/internal/models"
)

var errNoObject = errors.New("no JSON object with a title found")

// flexString accepts a JSON string, number, bool or array of scalars.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case data[0] == '[':
		var parts []flexString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		ss := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				ss = append(ss, string(p))
			}
		}
		*f = flexString(strings.Join(ss, ", "))
	case data[0] == '{':
		return fmt.Errorf("unexpected object for string field")
	default:
		*f = flexString(data)
	}
	return nil
}

// flexList accepts a JSON array or a comma-joined string.
type flexList []string

func (f *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []flexString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				out = append(out, string(p))
			}
		}
		*f = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = models.SplitList(string(s))
	return nil
}

// wireSuggestion is what we ask the model for, plus the aliases models
// tend to use instead.
type wireSuggestion struct {
	Title       flexString `json:"title"`
	Year        flexString `json:"year"`
	ReleaseYear flexString `json:"release_year"`
	Director    flexString `json:"director"`
	Synopsis    flexString `json:"synopsis"`
	Plot        flexString `json:"plot"`
	Rating      flexString `json:"rating"`
	Starring    flexList   `json:"starring"`
	Cast        flexList   `json:"cast"`
	Language    flexString `json:"language"`
}

func (w *wireSuggestion) toModel() *models.Suggestion {
	s := &models.Suggestion{
		Title:    string(w.Title),
		Year:     string(w.Year),
		Director: string(w.Director),
		Synopsis: string(w.Synopsis),
		Rating:   normalizeRating(string(w.Rating)),
		Cast:     []string(w.Starring),
		Language: string(w.Language),
	}
	if s.Year == "" {
		s.Year = string(w.ReleaseYear)
	}
	if s.Synopsis == "" {
		s.Synopsis = string(w.Plot)
	}
	if len(s.Cast) == 0 {
		s.Cast = []string(w.Cast)
	}
	if s.Cast == nil {
		s.Cast = []string{}
	}
	return s
}

// normalizeRating turns a bare score like "8.5" into "8.5/10".
func normalizeRating(r string) string {
	r = strings.TrimSpace(r)
	if r == "" || strings.Contains(r, "/") {
		return r
	}
	if v, err := strconv.ParseFloat(r, 64); err == nil && v >= 0 && v <= 10 {
		return r + "/10"
	}
	return r
}

// parseSuggestion decodes model output into a Suggestion. It tries the whole
// text, then the text with markdown fences removed, then every balanced
// {...} span from largest to smallest.
func parseSuggestion(content string) (*models.Suggestion, error) {
	content = strings.TrimSpace(content)

	if s, err := decodeObject(content); err == nil {
		return s, nil
	}
	if stripped := stripFences(content); stripped != content {
		if s, err := decodeObject(stripped); err == nil {
			return s, nil
		}
	}
	for _, span := range objectSpans(content) {
		if s, err := decodeObject(span); err == nil {
			return s, nil
		}
	}
	return nil, errNoObject
}

func decodeObject(text string) (*models.Suggestion, error) {
	var w wireSuggestion
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, err
	}
	if w.Title == "" {
		return nil, errNoObject
	}
	return w.toModel(), nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "{[") {
		text = text[nl+1:] // drop the language tag line
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// objectSpans returns every balanced {...} substring of text, longest first.
// Braces inside JSON strings are ignored.
func objectSpans(text string) []string {
	var spans []string
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		if end := matchBrace(text, start); end > start {
			spans = append(spans, text[start:end+1])
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return len(spans[i]) > len(spans[j]) })
	return spans
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
