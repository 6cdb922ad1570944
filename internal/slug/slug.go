// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumeric matches any run of characters that may not appear in a
// slug. Each run becomes a single hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes characters and removes combining marks, so that
// "Café" folds to "Cafe" before the ASCII pass.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate creates a URL-friendly slug from the given string: lowercase,
// diacritics stripped, runs of anything else collapsed into single
// hyphens, no leading or trailing hyphen.
// Example: "Héllo, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(stripMarks, result); err == nil {
		result = folded
	}
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
