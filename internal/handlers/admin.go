// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the blog. Handlers are
// grouped by concern (admin, public) and receive their dependencies
// through the handler struct.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jlarm/codeblog/internal/cache"
	"github.com/jlarm/codeblog/internal/models"
	"github.com/jlarm/codeblog/internal/render"
	"github.com/jlarm/codeblog/internal/slug"
	"github.com/jlarm/codeblog/internal/store"
)

// publishedAtLayout matches the value format of <input type="datetime-local">.
const publishedAtLayout = "2006-01-02T15:04"

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		pageCache:  pageCache,
	}
}

// --- Posts CRUD ---

// PostsList renders the posts management table.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List()
	if err != nil {
		slog.Error("list posts failed", "error", err)
	}

	a.renderer.Page(w, r, "posts_list", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data:    map[string]any{"Items": posts},
	})
}

// PostNew renders the new post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.renderPostForm(w, r, nil, true, "")
}

// PostCreate handles the new post form submission. A blank slug is left
// blank here: deriving it from the title is the store's pre-persist
// defaulting step, and it happens only on this path, never on update.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	post, verr := a.parsePostForm(r)
	if verr == nil {
		verr = validatePost(post.Title, post.Slug, post.Content, deref(post.Excerpt), true)
	}
	if verr != nil {
		a.renderPostForm(w, r, post, true, verr.Message)
		return
	}

	created, err := a.posts.Create(post)
	if err != nil {
		var dup *models.ValidationError
		if errors.As(err, &dup) {
			a.renderPostForm(w, r, post, true, dup.Message)
			return
		}
		slog.Error("create post failed", "error", err)
		a.renderPostForm(w, r, post, true, "Failed to create the post.")
		return
	}

	a.invalidatePostCache(r.Context(), created.Slug, "")
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the edit post form.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil || post == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.renderPostForm(w, r, post, false, "")
}

// PostUpdate handles the edit post form submission. The slug is taken
// exactly as submitted — an empty one is a validation error, not a
// trigger to re-derive.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.posts.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	oldSlug := existing.Slug

	post, verr := a.parsePostForm(r)
	if verr == nil {
		verr = validatePost(post.Title, post.Slug, post.Content, deref(post.Excerpt), false)
	}
	post.ID = existing.ID
	if verr != nil {
		a.renderPostForm(w, r, post, false, verr.Message)
		return
	}

	// Keep the first-publish timestamp when the form left the date blank.
	if post.IsPublished && post.PublishedAt == nil {
		if existing.PublishedAt != nil {
			post.PublishedAt = existing.PublishedAt
		} else {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := a.posts.Update(post); err != nil {
		var dup *models.ValidationError
		if errors.As(err, &dup) {
			a.renderPostForm(w, r, post, false, dup.Message)
			return
		}
		slog.Error("update post failed", "error", err, "id", id)
		a.renderPostForm(w, r, post, false, "Failed to update the post.")
		return
	}

	a.invalidatePostCache(r.Context(), post.Slug, oldSlug)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete handles post deletion.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil || post == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePostCache(r.Context(), post.Slug, "")
	a.PostsList(w, r)
}

// PostPublishToggle flips a post between draft and published from the
// list view. The first publish stamps published_at; later toggles keep
// the original timestamp.
func (a *Admin) PostPublishToggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil || post == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.posts.SetPublished(id, !post.IsPublished, time.Now()); err != nil {
		slog.Error("toggle publish failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePostCache(r.Context(), post.Slug, "")
	a.PostsList(w, r)
}

// parsePostForm builds a Post from the submitted form. Snippet rows
// arrive as parallel arrays in submitted order, which is the display
// order the editor produced; that order is preserved into the record.
func (a *Admin) parsePostForm(r *http.Request) (*models.Post, *models.ValidationError) {
	if err := r.ParseForm(); err != nil {
		return &models.Post{}, models.FieldRequired("title")
	}

	post := &models.Post{
		Title:       r.FormValue("title"),
		Slug:        r.FormValue("slug"),
		Content:     r.FormValue("content"),
		IsPublished: r.FormValue("is_published") == "1",
	}

	if excerpt := r.FormValue("excerpt"); excerpt != "" {
		post.Excerpt = &excerpt
	}
	if cid, err := uuid.Parse(r.FormValue("category_id")); err == nil {
		post.CategoryID = &cid
	}
	if raw := r.FormValue("published_at"); raw != "" {
		if ts, err := time.ParseInLocation(publishedAtLayout, raw, time.Local); err == nil {
			post.PublishedAt = &ts
		}
	}

	filenames := r.Form["snippet_filename"]
	langs := r.Form["snippet_language"]
	codes := r.Form["snippet_code"]
	if len(langs) != len(codes) || len(langs) != len(filenames) {
		return post, &models.ValidationError{
			Field:   "code_snippets",
			Kind:    models.KindRequired,
			Message: "Snippet rows are incomplete.",
		}
	}

	snippets := make(models.CodeSnippets, 0, len(langs))
	for i := range langs {
		snippets = append(snippets, models.CodeSnippet{
			Filename: filenames[i],
			Language: models.Language(langs[i]),
			Code:     codes[i],
		})
	}
	post.Snippets = snippets

	if errs := snippets.Validate(); len(errs) > 0 {
		return post, errs[0]
	}
	return post, nil
}

// renderPostForm renders the post form, optionally with a validation
// message and the submitted values so nothing typed is lost.
func (a *Admin) renderPostForm(w http.ResponseWriter, r *http.Request, post *models.Post, isNew bool, errMsg string) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	title := "New Post"
	if !isNew {
		title = "Edit Post"
	}

	data := map[string]any{
		"IsNew":      isNew,
		"Categories": categories,
	}
	if post != nil {
		data["Item"] = post
	}

	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Data:    data,
		Error:   errMsg,
	})
}

// --- Categories CRUD ---

// CategoriesList renders the category management table with per-category
// published post counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	a.renderer.Page(w, r, "categories_list", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Items": categories},
	})
}

// CategoryNew renders the new category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.renderCategoryForm(w, r, nil, true, "")
}

// CategoryCreate handles the new category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	category := &models.Category{
		Name:        r.FormValue("name"),
		Slug:        r.FormValue("slug"),
		Description: r.FormValue("description"),
	}
	if category.Slug == "" {
		category.Slug = slug.Generate(category.Name)
	}

	if verr := validateCategory(category.Name, category.Slug, category.Description); verr != nil {
		a.renderCategoryForm(w, r, category, true, verr.Message)
		return
	}

	if _, err := a.categories.Create(category); err != nil {
		var dup *models.ValidationError
		if errors.As(err, &dup) {
			a.renderCategoryForm(w, r, category, true, dup.Message)
			return
		}
		slog.Error("create category failed", "error", err)
		a.renderCategoryForm(w, r, category, true, "Failed to create the category.")
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryEdit renders the edit category form.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil || category == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.renderCategoryForm(w, r, category, false, "")
}

// CategoryUpdate handles the edit category form submission.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	category := &models.Category{
		ID:          existing.ID,
		Name:        r.FormValue("name"),
		Slug:        r.FormValue("slug"),
		Description: r.FormValue("description"),
	}

	if verr := validateCategory(category.Name, category.Slug, category.Description); verr != nil {
		a.renderCategoryForm(w, r, category, false, verr.Message)
		return
	}

	if err := a.categories.Update(category); err != nil {
		var dup *models.ValidationError
		if errors.As(err, &dup) {
			a.renderCategoryForm(w, r, category, false, dup.Message)
			return
		}
		slog.Error("update category failed", "error", err, "id", id)
		a.renderCategoryForm(w, r, category, false, "Failed to update the category.")
		return
	}

	// The category name and slug appear on every public page's sidebar.
	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete handles category deletion. Deletion is refused while
// any post still references the category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	count, err := a.categories.CountPosts(id)
	if err != nil {
		slog.Error("count category posts failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, fmt.Sprintf("Category still has %d post(s).", count), http.StatusConflict)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	a.CategoriesList(w, r)
}

// renderCategoryForm renders the category form, optionally with a
// validation message and the submitted values.
func (a *Admin) renderCategoryForm(w http.ResponseWriter, r *http.Request, category *models.Category, isNew bool, errMsg string) {
	title := "New Category"
	if !isNew {
		title = "Edit Category"
	}

	data := map[string]any{"IsNew": isNew}
	if category != nil {
		data["Item"] = category
	}

	a.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Data:    data,
		Error:   errMsg,
	})
}

// --- Live slug proposal ---

// SlugPreview implements the live title→slug derivation of the forms.
// Triggered by HTMX whenever the title (or category name) field changes,
// it returns a replacement slug input. The proposal follows the
// Proposer contract: once the user typed into the slug field themselves
// (slug_touched set), the derivation backs off and echoes their value.
func (a *Admin) SlugPreview(w http.ResponseWriter, r *http.Request) {
	source := r.FormValue("title")
	if source == "" {
		source = r.FormValue("name")
	}

	proposer := slug.NewProposer(true)
	if r.FormValue("slug_touched") != "" {
		proposer.SlugEdited(r.FormValue("slug"))
	}
	value, _ := proposer.TitleChanged(source)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<input type="text" name="slug" id="slug-field" maxlength="255" value="%s" `+
		`oninput="document.querySelector('[name=slug_touched]').value = this.value ? '1' : ''" `+
		`class="mt-1 w-full rounded border-gray-300 shadow-sm">`, html.EscapeString(value))
}

// --- Helpers ---

// invalidatePostCache drops the index variants plus the post's cached
// page. When a slug changed, the page under the old slug goes too.
func (a *Admin) invalidatePostCache(ctx context.Context, newSlug, oldSlug string) {
	a.pageCache.InvalidateIndex(ctx)
	a.pageCache.InvalidatePost(ctx, newSlug)
	if oldSlug != "" && oldSlug != newSlug {
		a.pageCache.InvalidatePost(ctx, oldSlug)
	}
}

// deref returns the value of a string pointer or "".
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
