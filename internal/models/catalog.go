// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package models

// AnyLanguage leaves the original language unconstrained.
const AnyLanguage = "Any"

// Genres is the selectable genre catalog. Generation accepts any non-empty
// genre; the catalog only seeds the picker.
var Genres = []string{
	"Action",
	"Adventure",
	"Animation",
	"Biography",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Family",
	"Fantasy",
	"Film-Noir",
	"History",
	"Horror",
	"Music",
	"Musical",
	"Mystery",
	"Romance",
	"Sci-Fi",
	"Sport",
	"Thriller",
	"War",
	"Western",
}

// Languages is the selectable original-language catalog.
var Languages = []string{
	AnyLanguage,
	"English",
	"French",
	"German",
	"Hindi",
	"Italian",
	"Japanese",
	"Korean",
	"Mandarin",
	"Portuguese",
	"Russian",
	"Spanish",
	"Swedish",
	"Turkish",
}
