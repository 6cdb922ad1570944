package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/jlarm/codeblog/internal/models"
)

// Validation limits for post and category fields.
const (
	maxTitleLen   = 255
	maxSlugLen    = 255
	maxExcerptLen = 500
	maxNameLen    = 255
	maxDescLen    = 500
)

// validatePost checks post form inputs and returns the first error found.
// The slug may be empty only while creating — the store derives it from
// the title then. On update an empty slug is rejected rather than
// re-derived; a post's slug never changes unless the user changes it.
func validatePost(title, slug, content string, excerpt string, creating bool) *models.ValidationError {
	if strings.TrimSpace(title) == "" {
		return models.FieldRequired("title")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.FieldTooLong("title", maxTitleLen)
	}
	if !creating && slug == "" {
		return models.FieldRequired("slug")
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return models.FieldTooLong("slug", maxSlugLen)
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return models.FieldTooLong("excerpt", maxExcerptLen)
	}
	if strings.TrimSpace(content) == "" {
		return models.FieldRequired("content")
	}
	return nil
}

// validateCategory checks category form inputs and returns the first
// error found. Unlike posts, the slug is always required — the admin
// surface proposes one live while the name is edited.
func validateCategory(name, slug, description string) *models.ValidationError {
	if strings.TrimSpace(name) == "" {
		return models.FieldRequired("name")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return models.FieldTooLong("name", maxNameLen)
	}
	if slug == "" {
		return models.FieldRequired("slug")
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return models.FieldTooLong("slug", maxSlugLen)
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		return models.FieldTooLong("description", maxDescLen)
	}
	return nil
}
