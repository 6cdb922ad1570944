// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the blog's data entities and the validation
// errors the admin surface reports back to the submitter.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is the central record of the blog: a markdown article with an
// ordered collection of code snippets and an optional category.
type Post struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     *string      `json:"excerpt,omitempty"`
	Content     string       `json:"content"`
	Snippets    CodeSnippets `json:"code_snippets"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	IsPublished bool         `json:"is_published"`
	PublishedAt *time.Time   `json:"published_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Visible reports whether the post may be served on the public site.
// Only the is_published flag gates visibility; published_at is used for
// display and ordering and may be set independently.
func (p *Post) Visible() bool {
	return p.IsPublished
}

// PostSummary is the reduced projection used by list views. Content and
// code snippets are deliberately excluded — the full record is loaded
// lazily when a single post is requested by slug.
type PostSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}
