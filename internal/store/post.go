// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the SQL persistence layer for posts and
// categories. Slug uniqueness is enforced by database constraints, so a
// conflicting write fails atomically instead of racing a check-then-insert.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jlarm/codeblog/internal/models"
	"github.com/jlarm/codeblog/internal/slug"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, excerpt, content, code_snippets,
	category_id, is_published, published_at, created_at, updated_at`

// scanPost scans a row into a Post, decoding the jsonb snippet column.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var rawSnippets []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &rawSnippets,
		&p.CategoryID, &p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Snippets, err = models.DecodeSnippets(rawSnippets)
	if err != nil {
		return nil, fmt.Errorf("decode snippets: %w", err)
	}
	return &p, nil
}

// Create inserts a new post and returns it with the generated ID.
// This is the single pre-persist defaulting step of the write path: when
// no slug was supplied, one is derived from the title here and never
// again afterwards. A slug collision returns models.ErrDuplicateSlug.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}

	rawSnippets, err := p.Snippets.EncodeJSON()
	if err != nil {
		return nil, fmt.Errorf("encode snippets: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, excerpt, content, code_snippets,
		                   category_id, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Excerpt, p.Content, rawSnippets,
		p.CategoryID, p.IsPublished, p.PublishedAt,
	)
	result, err := scanPost(row)
	if isDuplicate(err) {
		return nil, models.ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post. The slug is written exactly as given
// — derivation from the title happens only at creation time. The unique
// index excludes the row being updated by nature, so keeping the same
// slug never conflicts.
func (s *PostStore) Update(p *models.Post) error {
	rawSnippets, err := p.Snippets.EncodeJSON()
	if err != nil {
		return fmt.Errorf("encode snippets: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, content = $4,
			code_snippets = $5, category_id = $6, is_published = $7,
			published_at = $8, updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.Excerpt, p.Content, rawSnippets,
		p.CategoryID, p.IsPublished, p.PublishedAt, p.ID,
	)
	if isDuplicate(err) {
		return models.ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its UUID regardless of publish state.
// Returns nil if not found. Used by the admin edit form.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by exact slug match.
// Unpublished posts and unknown slugs both return nil so the public
// surface cannot be used to probe for drafts.
func (s *PostStore) FindPublishedBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts
		WHERE slug = $1 AND is_published = TRUE
	`, postSlug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post by slug: %w", err)
	}
	return p, nil
}

// ListPublished returns summaries of all published posts, newest first
// by publish date, optionally narrowed to one category slug. A category
// slug that matches nothing yields an empty list, not an error. Content
// and snippets are excluded from the projection.
func (s *PostStore) ListPublished(categorySlug string) ([]models.PostSummary, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.excerpt, p.published_at, p.category_id
		FROM posts p`
	args := []any{}
	if categorySlug != "" {
		query += `
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_published = TRUE AND c.slug = $1`
		args = append(args, categorySlug)
	} else {
		query += `
		WHERE p.is_published = TRUE`
	}
	// created_at and id break published_at ties deterministically.
	query += `
		ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC, p.id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.PostSummary
	for rows.Next() {
		var ps models.PostSummary
		if err := rows.Scan(&ps.ID, &ps.Title, &ps.Slug, &ps.Excerpt, &ps.PublishedAt, &ps.CategoryID); err != nil {
			return nil, fmt.Errorf("scan post summary: %w", err)
		}
		items = append(items, ps)
	}
	return items, rows.Err()
}

// List returns all posts for the admin table, newest first.
func (s *PostStore) List() ([]models.Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// CountPublished returns the number of published posts.
func (s *PostStore) CountPublished() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE is_published = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// SetPublished flips is_published from the admin list toggle, stamping
// published_at on the first publish.
func (s *PostStore) SetPublished(id uuid.UUID, publish bool, now time.Time) error {
	var err error
	if publish {
		_, err = s.db.Exec(`
			UPDATE posts SET is_published = TRUE,
				published_at = COALESCE(published_at, $1),
				updated_at = NOW()
			WHERE id = $2
		`, now, id)
	} else {
		_, err = s.db.Exec(`
			UPDATE posts SET is_published = FALSE, updated_at = NOW()
			WHERE id = $1
		`, id)
	}
	if err != nil {
		return fmt.Errorf("toggle publish: %w", err)
	}
	return nil
}
