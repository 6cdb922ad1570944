// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies from Markdown into HTML using
// goldmark and renders the structured code snippets with chroma. Fenced
// code blocks inside the body and standalone snippets share the same
// highlighting style so a post looks uniform.
package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/jlarm/codeblog/internal/models"
)

// highlightStyle is the chroma style shared by body code fences and
// standalone snippets.
const highlightStyle = "monokai"

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// source is escaped by goldmark's default renderer; post content is
// Markdown-only by contract.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HighlightSnippet renders a code snippet as highlighted HTML using the
// chroma lexer registered for its language tag. The tag set is closed at
// validation time, so every value reaching this point maps to a lexer;
// unknown tags fall back to content analysis.
func HighlightSnippet(s models.CodeSnippet) (string, error) {
	lexer := lexers.Get(string(s.Language))
	if lexer == nil {
		lexer = lexers.Analyse(s.Code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, s.Code)
	if err != nil {
		return "", fmt.Errorf("tokenise snippet: %w", err)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.WithLineNumbers(true),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format snippet: %w", err)
	}
	return buf.String(), nil
}
