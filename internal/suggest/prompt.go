// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package suggest

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a movie recommendation expert. Provide accurate information about real movies only. Avoid hallucinations."

// angles nudge the model away from its default answer for a genre.
var angles = []string{
	"an underrated hidden gem",
	"a cult classic",
	"a critically acclaimed masterpiece",
	"a crowd-pleasing favourite",
	"an international film",
	"a debut feature by a notable director",
	"a film with an unusual premise",
	"an award-winning film",
	"a film from the 1970s or 1980s",
	"a film from the 1990s",
	"a film from the 2000s",
	"a film from the last fifteen years",
	"a film with a memorable ensemble cast",
	"a film that found its audience years after release",
}

// anyLanguage values mean "no language constraint".
var anyLanguage = map[string]bool{"": true, "any": true, "all": true}

func buildUserPrompt(genre, language, angle, nonce string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest one real movie in the %q genre.", genre)
	if !anyLanguage[strings.ToLower(strings.TrimSpace(language))] {
		fmt.Fprintf(&b, " The movie's original language must be %s.", language)
	}
	if angle != "" {
		fmt.Fprintf(&b, " This time, pick %s.", angle)
	}
	b.WriteString(` Return the response in JSON format with the following structure:
{
  "title": "Movie Title",
  "year": "Year of Release",
  "director": "Director Name",
  "synopsis": "Brief synopsis of the movie (2-3 sentences)",
  "rating": "IMDB rating (e.g., 8.5/10)",
  "starring": ["Actor 1", "Actor 2", "Actor 3"]
}
Respond with the JSON object only.`)
	if nonce != "" {
		fmt.Fprintf(&b, "\nRequest id: %s", nonce)
	}
	return b.String()
}
