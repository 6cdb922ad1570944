// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jlarm/codeblog/internal/models"
)

func TestAdminPostCreate(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "my-admin-created-post") })

	form := url.Values{
		"title":        {"My Admin Created Post"},
		"slug":         {""},
		"content":      {"Some body text."},
		"excerpt":      {"teaser"},
		"is_published": {"1"},
		"published_at": {"2026-03-01T10:30"},
	}

	w := httptest.NewRecorder()
	env.Admin.PostCreate(w, formRequest(http.MethodPost, "/admin/posts", form))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", w.Code, w.Body.String())
	}

	// The blank slug was derived from the title on the way in.
	got, err := env.Posts.FindPublishedBySlug("my-admin-created-post")
	if err != nil || got == nil {
		t.Fatalf("created post not found: %v", err)
	}
	if got.PublishedAt == nil {
		t.Fatal("published_at not parsed from the form")
	}
	want := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
	if !got.PublishedAt.Equal(want) {
		t.Errorf("published_at = %v, want %v", got.PublishedAt, want)
	}
}

// Snippet rows arrive as parallel arrays; their submitted order is the
// stored order.
func TestAdminPostCreate_SnippetOrder(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "snippet-order-post") })

	form := url.Values{
		"title":            {"Snippet Order Post"},
		"slug":             {"snippet-order-post"},
		"content":          {"body"},
		"snippet_filename": {"first.go", "", "third.sql"},
		"snippet_language": {"go", "bash", "sql"},
		"snippet_code":     {"package main", "ls", "SELECT 1"},
	}

	w := httptest.NewRecorder()
	env.Admin.PostCreate(w, formRequest(http.MethodPost, "/admin/posts", form))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}

	got, err := env.Posts.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range got {
		if p.Slug != "snippet-order-post" {
			continue
		}
		if len(p.Snippets) != 3 {
			t.Fatalf("got %d snippets, want 3", len(p.Snippets))
		}
		wantLangs := []models.Language{"go", "bash", "sql"}
		for i, want := range wantLangs {
			if p.Snippets[i].Language != want {
				t.Errorf("snippet %d language = %q, want %q", i, p.Snippets[i].Language, want)
			}
		}
		if p.Snippets[1].Label() != models.SnippetFallbackLabel {
			t.Errorf("unnamed snippet label = %q, want fallback", p.Snippets[1].Label())
		}
		return
	}
	t.Fatal("created post not found")
}

// A language outside the closed set rejects the whole submission.
func TestAdminPostCreate_InvalidSnippetLanguage(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "invalid-lang-post") })

	form := url.Values{
		"title":            {"Invalid Lang Post"},
		"slug":             {"invalid-lang-post"},
		"content":          {"body"},
		"snippet_filename": {"prog.cob"},
		"snippet_language": {"cobol"},
		"snippet_code":     {"DISPLAY 'HI'"},
	}

	w := httptest.NewRecorder()
	env.Admin.PostCreate(w, formRequest(http.MethodPost, "/admin/posts", form))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (form re-render)", w.Code)
	}

	if got, _ := env.Posts.FindPublishedBySlug("invalid-lang-post"); got != nil {
		t.Error("post must not be created on validation failure")
	}
	var count int
	env.DB.QueryRow("SELECT COUNT(*) FROM posts WHERE slug = 'invalid-lang-post'").Scan(&count)
	if count != 0 {
		t.Error("no partial write may happen on validation failure")
	}
}

func TestAdminPostCreate_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "admin-dup-slug") })

	if _, err := env.Posts.Create(&models.Post{Title: "Existing", Slug: "admin-dup-slug", Content: "b"}); err != nil {
		t.Fatalf("create existing: %v", err)
	}

	form := url.Values{
		"title":   {"Conflicting"},
		"slug":    {"admin-dup-slug"},
		"content": {"body"},
	}

	w := httptest.NewRecorder()
	env.Admin.PostCreate(w, formRequest(http.MethodPost, "/admin/posts", form))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (form re-render)", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already in use") {
		t.Error("duplicate slug message missing from the form")
	}
}

// A slug change on update drops the cached page under the old slug.
func TestAdminPostUpdate_InvalidatesOldSlug(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "old-cached-slug", "new-moved-slug") })

	now := time.Now()
	created, err := env.Posts.Create(&models.Post{
		Title: "Cached Then Moved", Slug: "old-cached-slug", Content: "b",
		IsPublished: true, PublishedAt: &now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Warm the cache under the old slug.
	w := httptest.NewRecorder()
	r := withChiURLParam(httptest.NewRequest(http.MethodGet, "/posts/old-cached-slug", nil), "slug", "old-cached-slug")
	env.Public.Post(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("warm request status = %d", w.Code)
	}

	form := url.Values{
		"title":        {"Cached Then Moved"},
		"slug":         {"new-moved-slug"},
		"content":      {"b"},
		"is_published": {"1"},
	}
	w = httptest.NewRecorder()
	r = withChiURLParam(formRequest(http.MethodPut, "/admin/posts/"+created.ID.String(), form), "id", created.ID.String())
	env.Admin.PostUpdate(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d, want 303; body: %s", w.Code, w.Body.String())
	}

	// The stale page under the old slug must be gone; the request now
	// misses the cache, misses the store, and 404s.
	w = httptest.NewRecorder()
	r = withChiURLParam(httptest.NewRequest(http.MethodGet, "/posts/old-cached-slug", nil), "slug", "old-cached-slug")
	env.Public.Post(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("old slug status = %d, want 404 after rename", w.Code)
	}
}

func TestAdminPostDelete(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "admin-delete-post") })

	created, err := env.Posts.Create(&models.Post{Title: "Admin Delete", Slug: "admin-delete-post", Content: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := httptest.NewRecorder()
	r := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/posts/"+created.ID.String(), nil), "id", created.ID.String())
	env.Admin.PostDelete(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (list re-render)", w.Code)
	}

	got, err := env.Posts.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Error("post should be gone")
	}
}

// Toggling from the list view publishes a draft, stamping published_at
// once; toggling back and forth keeps the original timestamp.
func TestAdminPostPublishToggle(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "toggle-post") })

	created, err := env.Posts.Create(&models.Post{Title: "Toggle Post", Slug: "toggle-post", Content: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	toggle := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := withChiURLParam(httptest.NewRequest(http.MethodPost, "/admin/posts/"+created.ID.String()+"/publish", nil), "id", created.ID.String())
		env.Admin.PostPublishToggle(w, r)
		return w
	}

	if w := toggle(); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (list re-render)", w.Code)
	}

	published, err := env.Posts.FindByID(created.ID)
	if err != nil || published == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !published.IsPublished {
		t.Fatal("post should be published after toggle")
	}
	if published.PublishedAt == nil {
		t.Fatal("first publish should stamp published_at")
	}
	first := *published.PublishedAt

	toggle()
	toggle()

	again, err := env.Posts.FindByID(created.ID)
	if err != nil || again == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !again.IsPublished {
		t.Fatal("post should be published again")
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Errorf("published_at = %v, want the original %v", again.PublishedAt, first)
	}
}

func TestAdminCategoryCreate_DerivesSlugFromName(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanCategories(t, env.DB, "cloud-native") })

	form := url.Values{
		"name":        {"Cloud Native"},
		"slug":        {""},
		"description": {"Kubernetes and friends"},
	}

	w := httptest.NewRecorder()
	env.Admin.CategoryCreate(w, formRequest(http.MethodPost, "/admin/categories", form))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", w.Code, w.Body.String())
	}

	got, err := env.Categories.FindBySlug("cloud-native")
	if err != nil || got == nil {
		t.Fatalf("category not found by derived slug: %v", err)
	}
}

// Deleting a category is refused while any post still references it.
func TestAdminCategoryDelete_RefusedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() {
		cleanPosts(t, env.DB, "guard-post")
		cleanCategories(t, env.DB, "guard-cat")
	})

	cat, err := env.Categories.Create(&models.Category{Name: "Guard Cat", Slug: "guard-cat"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := env.Posts.Create(&models.Post{Title: "Guard", Slug: "guard-post", Content: "b", CategoryID: &cat.ID}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	w := httptest.NewRecorder()
	r := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/categories/"+cat.ID.String(), nil), "id", cat.ID.String())
	env.Admin.CategoryDelete(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	still, err := env.Categories.FindByID(cat.ID)
	if err != nil || still == nil {
		t.Error("category must survive a refused delete")
	}
}

func TestAdminCategoryDelete_EmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanCategories(t, env.DB, "empty-cat") })

	cat, err := env.Categories.Create(&models.Category{Name: "Empty Cat", Slug: "empty-cat"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	w := httptest.NewRecorder()
	r := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/categories/"+cat.ID.String(), nil), "id", cat.ID.String())
	env.Admin.CategoryDelete(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (list re-render)", w.Code)
	}

	got, err := env.Categories.FindByID(cat.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Error("empty category should be deleted")
	}
}

// SlugPreview needs no backing services; it is a pure form-in, HTML-out
// endpoint.
func TestAdminSlugPreview(t *testing.T) {
	admin := NewAdmin(nil, nil, nil, nil)

	preview := func(form url.Values) string {
		w := httptest.NewRecorder()
		admin.SlugPreview(w, formRequest(http.MethodPost, "/admin/slug-preview", form))
		return w.Body.String()
	}

	t.Run("derives from title while untouched", func(t *testing.T) {
		body := preview(url.Values{
			"title":        {"Héllo, World! 2026"},
			"slug":         {""},
			"slug_touched": {""},
		})
		if !strings.Contains(body, `value="hello-world-2026"`) {
			t.Errorf("derived value missing: %s", body)
		}
		if !strings.Contains(body, `id="slug-field"`) {
			t.Error("replacement input must carry the slug field id")
		}
	})

	t.Run("echoes manual slug once touched", func(t *testing.T) {
		body := preview(url.Values{
			"title":        {"A Completely Different Title"},
			"slug":         {"my-own-slug"},
			"slug_touched": {"1"},
		})
		if !strings.Contains(body, `value="my-own-slug"`) {
			t.Errorf("manual value not echoed: %s", body)
		}
		if strings.Contains(body, "a-completely-different-title") {
			t.Error("derivation must back off after a manual edit")
		}
	})

	t.Run("category name feeds the derivation", func(t *testing.T) {
		body := preview(url.Values{
			"name":         {"Cloud Native"},
			"slug":         {""},
			"slug_touched": {""},
		})
		if !strings.Contains(body, `value="cloud-native"`) {
			t.Errorf("derived value missing: %s", body)
		}
	})

	t.Run("escapes html in the value", func(t *testing.T) {
		body := preview(url.Values{
			"title":        {"x"},
			"slug":         {`"><script>`},
			"slug_touched": {"1"},
		})
		if strings.Contains(body, "<script>") {
			t.Errorf("unescaped value in output: %s", body)
		}
	})
}

func TestAdminInvalidID(t *testing.T) {
	env := newTestEnv(t)

	for name, call := range map[string]func(http.ResponseWriter, *http.Request){
		"PostEdit":       env.Admin.PostEdit,
		"PostDelete":     env.Admin.PostDelete,
		"CategoryEdit":   env.Admin.CategoryEdit,
		"CategoryDelete": env.Admin.CategoryDelete,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/x/not-a-uuid", nil), "id", "not-a-uuid")
			call(w, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
