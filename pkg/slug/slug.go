// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns poem titles into ASCII URL slugs ("Ode to Joy" → "ode-to-joy").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Accents are stripped via NFD decomposition, everything else that is not
// a lowercase ASCII letter or digit collapses into single hyphens.
func From(s string) string {
	stripAccents := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(stripAccents, s)

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValid reports whether s already has slug form.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
