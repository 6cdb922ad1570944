// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strconv"
)

// SnippetFallbackLabel is shown for a collapsed snippet entry that has
// no filename yet.
const SnippetFallbackLabel = "Code Snippet"

// Language is a syntax tag for a code snippet. The set is closed — any
// value outside snippetLanguages is rejected on submission.
type Language string

// snippetLanguages maps every accepted language tag to its display label.
var snippetLanguages = map[Language]string{
	"php":        "PHP",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"python":     "Python",
	"java":       "Java",
	"csharp":     "C#",
	"go":         "Go",
	"rust":       "Rust",
	"ruby":       "Ruby",
	"html":       "HTML",
	"css":        "CSS",
	"sql":        "SQL",
	"bash":       "Bash",
	"json":       "JSON",
	"yaml":       "YAML",
	"markdown":   "Markdown",
	"vue":        "Vue",
}

// languageOrder fixes the display order of the language dropdown.
var languageOrder = []Language{
	"php", "javascript", "typescript", "python", "java", "csharp", "go",
	"rust", "ruby", "html", "css", "sql", "bash", "json", "yaml",
	"markdown", "vue",
}

// ValidLanguage reports whether lang belongs to the closed language set.
func ValidLanguage(lang Language) bool {
	_, ok := snippetLanguages[lang]
	return ok
}

// Label returns the human-friendly name of the language, or the raw tag
// for values outside the set.
func (l Language) Label() string {
	if label, ok := snippetLanguages[l]; ok {
		return label
	}
	return string(l)
}

// Languages returns all accepted language tags in dropdown order.
func Languages() []Language {
	out := make([]Language, len(languageOrder))
	copy(out, languageOrder)
	return out
}

// CodeSnippet is one entry of a post's snippet collection. Snippets have
// no identity of their own — they live and die with the owning post.
type CodeSnippet struct {
	Filename string   `json:"filename"`
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

// Label returns the text shown on a collapsed editor entry: the filename
// when present, otherwise the fixed fallback.
func (s CodeSnippet) Label() string {
	if s.Filename != "" {
		return s.Filename
	}
	return SnippetFallbackLabel
}

// CodeSnippets is the ordered snippet collection embedded in a post.
// Order is display order and must survive every edit and round-trip
// through the database exactly as entered.
type CodeSnippets []CodeSnippet

// Append adds an empty entry at the end of the collection.
func (c CodeSnippets) Append() CodeSnippets {
	return append(c, CodeSnippet{})
}

// RemoveAt deletes the entry at position i. Out-of-range positions leave
// the collection unchanged.
func (c CodeSnippets) RemoveAt(i int) CodeSnippets {
	if i < 0 || i >= len(c) {
		return c
	}
	out := make(CodeSnippets, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// Move relocates the entry at position i to position j, shifting the
// entries in between while keeping their relative order. Out-of-range
// positions leave the collection unchanged.
func (c CodeSnippets) Move(i, j int) CodeSnippets {
	if i < 0 || i >= len(c) || j < 0 || j >= len(c) || i == j {
		return c
	}
	out := make(CodeSnippets, len(c))
	copy(out, c)
	entry := out[i]
	if i < j {
		copy(out[i:], out[i+1:j+1])
	} else {
		copy(out[j+1:], out[j:i])
	}
	out[j] = entry
	return out
}

// Validate checks every entry on submission: language must come from the
// closed set and code must be non-empty. Filename is free-form and
// optional. Returns one error per offending entry, in order.
func (c CodeSnippets) Validate() []*ValidationError {
	var errs []*ValidationError
	for i, s := range c {
		if s.Language == "" {
			errs = append(errs, FieldRequired(snippetField(i, "language")))
			continue
		}
		if !ValidLanguage(s.Language) {
			errs = append(errs, InvalidEnum(snippetField(i, "language"), string(s.Language)))
		}
		if s.Code == "" {
			errs = append(errs, FieldRequired(snippetField(i, "code")))
		}
	}
	return errs
}

// EncodeJSON serializes the collection for the jsonb column. An empty or
// nil collection encodes as [] so the column never holds SQL NULL.
func (c CodeSnippets) EncodeJSON() ([]byte, error) {
	if c == nil {
		c = CodeSnippets{}
	}
	return json.Marshal(c)
}

// DecodeSnippets parses the jsonb column back into a collection,
// preserving entry order. NULL and empty input decode to an empty
// collection.
func DecodeSnippets(raw []byte) (CodeSnippets, error) {
	if len(raw) == 0 {
		return CodeSnippets{}, nil
	}
	var c CodeSnippets
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = CodeSnippets{}
	}
	return c, nil
}

// snippetField builds the field path reported for snippet entry errors,
// e.g. "code_snippets[2].language".
func snippetField(i int, attr string) string {
	return "code_snippets[" + strconv.Itoa(i) + "]." + attr
}
