// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jlarm/codeblog/internal/cache"
	"github.com/jlarm/codeblog/internal/markdown"
	"github.com/jlarm/codeblog/internal/models"
	"github.com/jlarm/codeblog/internal/render"
	"github.com/jlarm/codeblog/internal/store"
)

// Public groups the handlers of the public-facing blog. Both routes
// check the Valkey page cache before touching the database and store
// their rendered output on miss.
type Public struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	pageCache  *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		pageCache:  pageCache,
	}
}

// snippetView pairs a code snippet with its highlighted HTML for the
// post template.
type snippetView struct {
	models.CodeSnippet
	HTML string
}

// Index lists published posts, newest first, optionally filtered by the
// ?category query parameter. Alongside the posts it serves the category
// sidebar (only categories with published posts, with counts) and echoes
// the selected category back. An unknown category slug renders an empty
// listing, never an error.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categorySlug := r.URL.Query().Get("category")

	if cached, ok := p.pageCache.Get(ctx, cache.IndexKey(categorySlug)); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	posts, err := p.posts.ListPublished(categorySlug)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := p.categories.ListPublished()
	if err != nil {
		slog.Error("list published categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PageData{
		Title: "codeblog",
		Data: map[string]any{
			"Posts":            posts,
			"Categories":       categories,
			"SelectedCategory": categorySlug,
		},
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, "index", data); err != nil {
		slog.Error("render index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.IndexKey(categorySlug), buf.Bytes())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Post serves a single published post by its slug. A missing slug and an
// unpublished post produce the same generic 404 so drafts cannot be
// discovered by probing.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.PostKey(slugParam)); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	post, err := p.posts.FindPublishedBySlug(slugParam)
	if err != nil {
		slog.Error("find published post failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("render markdown failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	snippets := make([]snippetView, 0, len(post.Snippets))
	for _, s := range post.Snippets {
		html, err := markdown.HighlightSnippet(s)
		if err != nil {
			slog.Warn("highlight snippet failed", "error", err, "slug", slugParam)
			continue
		}
		snippets = append(snippets, snippetView{CodeSnippet: s, HTML: html})
	}

	var category *models.Category
	if post.CategoryID != nil {
		category, err = p.categories.FindByID(*post.CategoryID)
		if err != nil {
			slog.Warn("find post category failed", "error", err, "slug", slugParam)
		}
	}

	data := &render.PageData{
		Title: post.Title + " — codeblog",
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": contentHTML,
			"Snippets":    snippets,
			"Category":    category,
		},
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, "post", data); err != nil {
		slog.Error("render post failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.PostKey(slugParam), buf.Bytes())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
