// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"

	"github.com/jlarm/codeblog/internal/models"
)

func TestToHTML_BasicMarkdown(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"paragraph", "Hello world", "<p>Hello world</p>"},
		{"bold", "**bold**", "<strong>bold</strong>"},
		{"link", "[Go](https://go.dev)", `<a href="https://go.dev">Go</a>`},
		{"heading with id", "## Section Two", `<h2 id="section-two">`},
		{"strikethrough gfm", "~~gone~~", "<del>gone</del>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestToHTML_Table(t *testing.T) {
	source := "| a | b |\n|---|---|\n| 1 | 2 |"
	got, err := ToHTML(source)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, "<table>") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}

// Raw HTML in the body is escaped, not passed through.
func TestToHTML_EscapesRawHTML(t *testing.T) {
	got, err := ToHTML(`<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw script tag passed through: %q", got)
	}
}

func TestToHTML_FencedCodeHighlighted(t *testing.T) {
	source := "```go\npackage main\n```"
	got, err := ToHTML(source)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	// Inline-styled chroma output marks highlighted blocks.
	if !strings.Contains(got, "style=") {
		t.Errorf("fenced block not highlighted: %q", got)
	}
}

func TestToHTML_Empty(t *testing.T) {
	got, err := ToHTML("")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.TrimSpace(got) != "" {
		t.Errorf("empty source rendered as %q", got)
	}
}

func TestHighlightSnippet(t *testing.T) {
	tests := []struct {
		name    string
		snippet models.CodeSnippet
	}{
		{"go", models.CodeSnippet{Filename: "main.go", Language: "go", Code: "package main\n\nfunc main() {}"}},
		{"javascript", models.CodeSnippet{Language: "javascript", Code: "const x = 1;"}},
		{"sql", models.CodeSnippet{Language: "sql", Code: "SELECT * FROM posts;"}},
		{"csharp", models.CodeSnippet{Language: "csharp", Code: "var x = 1;"}},
		{"yaml", models.CodeSnippet{Language: "yaml", Code: "key: value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HighlightSnippet(tt.snippet)
			if err != nil {
				t.Fatalf("HighlightSnippet: %v", err)
			}
			if !strings.Contains(got, "<pre") {
				t.Errorf("no <pre> block in output: %q", got)
			}
			// Line numbers are enabled for snippets.
			if !strings.Contains(got, "1") {
				t.Errorf("no line number in output: %q", got)
			}
		})
	}
}

// Every tag of the closed language set must produce output without error.
func TestHighlightSnippet_AllLanguages(t *testing.T) {
	for _, lang := range models.Languages() {
		t.Run(string(lang), func(t *testing.T) {
			got, err := HighlightSnippet(models.CodeSnippet{Language: lang, Code: "x"})
			if err != nil {
				t.Fatalf("HighlightSnippet(%q): %v", lang, err)
			}
			if got == "" {
				t.Errorf("empty output for %q", lang)
			}
		})
	}
}

func TestHighlightSnippet_UnknownLanguageFallsBack(t *testing.T) {
	got, err := HighlightSnippet(models.CodeSnippet{Language: "no-such-language", Code: "plain text"})
	if err != nil {
		t.Fatalf("HighlightSnippet: %v", err)
	}
	if !strings.Contains(got, "plain text") {
		t.Errorf("code lost in fallback path: %q", got)
	}
}
