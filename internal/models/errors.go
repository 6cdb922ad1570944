// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// ErrorKind classifies a validation failure so callers can branch without
// parsing messages.
type ErrorKind string

const (
	KindRequired      ErrorKind = "required"
	KindTooLong       ErrorKind = "too_long"
	KindInvalidEnum   ErrorKind = "invalid_enum"
	KindDuplicateSlug ErrorKind = "duplicate_slug"
)

// ErrDuplicateSlug is returned when the database rejects a write because
// the slug already exists on another record of the same entity type.
var ErrDuplicateSlug = &ValidationError{
	Field:   "slug",
	Kind:    KindDuplicateSlug,
	Message: "This slug is already in use.",
}

// ValidationError describes a single rejected field. Submissions that
// fail validation are rejected whole — no partial write happens.
type ValidationError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldRequired builds a ValidationError for a missing required field.
func FieldRequired(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Kind:    KindRequired,
		Message: "This field is required.",
	}
}

// FieldTooLong builds a ValidationError for a field exceeding its limit.
func FieldTooLong(field string, limit int) *ValidationError {
	return &ValidationError{
		Field:   field,
		Kind:    KindTooLong,
		Message: fmt.Sprintf("Must be at most %d characters.", limit),
	}
}

// InvalidEnum builds a ValidationError for a value outside a closed set.
func InvalidEnum(field, value string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Kind:    KindInvalidEnum,
		Message: fmt.Sprintf("%q is not an accepted value.", value),
	}
}
