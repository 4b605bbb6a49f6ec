// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package logging

import (
	"net/url"
	"strings"
)

// queryKeys that carry credentials in upstream URLs.
var sensitiveQueryKeys = map[string]bool{
	"apikey":       true,
	"api_key":      true,
	"key":          true,
	"token":        true,
	"access_token": true,
}

// SanitizeToken masks a credential, keeping only the first and last four
// characters. Short values are fully masked.
//
//	SanitizeToken("gsk_abcdefghijklmnop") // "gsk_...mnop"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL masks credential query parameters in raw. Unparseable input is
// returned with everything after '?' dropped.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	q := u.Query()
	changed := false
	for k, vals := range q {
		if !sensitiveQueryKeys[strings.ToLower(k)] {
			continue
		}
		for i := range vals {
			vals[i] = SanitizeToken(vals[i])
		}
		changed = true
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Truncate shortens s to at most maxLen bytes plus an ellipsis. Used for
// upstream response bodies that end up in log lines.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
