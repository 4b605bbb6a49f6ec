// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package recommend

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenGroup   = regexp.MustCompile(`\([^)]*\)`)
	bracketGroup = regexp.MustCompile(`\[[^\]]*\]`)
	yearToken    = regexp.MustCompile(`\b(\d{4})\b`)
)

// NormalizeTitle reduces a title to its comparison key: accents and case are
// folded, punctuation and symbols are dropped, and runs of whitespace
// collapse. "Amélie!" and "amelie" share a key, as do "Schindler's List" and
// "Schindlers List".
func NormalizeTitle(title string) string {
	// Transformers and casers carry state, so build them per call.
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripMarks, title)
	if err != nil {
		s = title
	}
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			gap = true
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte(' ')
		}
		gap = false
		b.WriteRune(r)
	}
	return b.String()
}

// CleanTitle strips the noise generative titles tend to carry: parenthetical
// and bracketed groups, and any subtitle after the first colon. A title that
// would clean to nothing is returned trimmed but otherwise unchanged.
//
//	"The Thing (1982 Version)"        -> "The Thing"
//	"Alien [Director's Cut]"          -> "Alien"
//	"Mad Max: Fury Road"              -> "Mad Max"
func CleanTitle(title string) string {
	s := parenGroup.ReplaceAllString(title, " ")
	s = bracketGroup.ReplaceAllString(s, " ")
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return strings.TrimSpace(title)
	}
	return s
}

// ExtractYear returns the first standalone 4-digit number in s, or 0.
func ExtractYear(s string) int {
	m := yearToken.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}
