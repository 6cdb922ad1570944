// Package router sets up all HTTP routes and middleware chains for the
// blog. It organizes routes into public and admin groups.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jlarm/codeblog/internal/handlers"
	"github.com/jlarm/codeblog/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Admin area.
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
		})

		// Live slug proposal used by the post and category forms.
		r.Post("/slug-preview", admin.SlugPreview)

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Get("/new", admin.PostNew)
			r.Post("/", admin.PostCreate)
			r.Get("/{id}", admin.PostEdit)
			r.Put("/{id}", admin.PostUpdate)
			r.Delete("/{id}", admin.PostDelete)
			r.Post("/{id}/publish", admin.PostPublishToggle)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Get("/new", admin.CategoryNew)
			r.Post("/", admin.CategoryCreate)
			r.Get("/{id}", admin.CategoryEdit)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
		})
	})

	// Public routes.
	r.Get("/", public.Index)
	r.Get("/posts/{slug}", public.Post)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
