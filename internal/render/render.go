// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface
// and the public blog. Admin pages support full-page and HTMX partial
// rendering, automatically detecting the request type via the HX-Request
// header.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jlarm/codeblog/internal/models"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title   string         // Page title for <title> tag
	Section string         // Active sidebar section (e.g., "posts", "categories")
	Data    map[string]any // Page-specific data
	Error   string         // Validation message re-rendered above the form
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// publicTemplates lists templates that render as full standalone HTML
// pages without the admin base layout.
var publicTemplates = map[string]bool{
	"index": true,
	"post":  true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Admin page templates are paired with the base layout;
// public templates stand alone.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-gray-900 text-white"
				}
				return "text-gray-300 hover:bg-gray-700 hover:text-white"
			},
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			// langLabel maps a language tag to its display label.
			"langLabel": func(l models.Language) string {
				return l.Label()
			},
			// languages exposes the closed language set for dropdowns.
			"languages": func() []models.Language {
				return models.Languages()
			},
			// uuidEq compares a *uuid.UUID pointer with a uuid.UUID value.
			"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
				return ptr != nil && *ptr == val
			},
			// safeHTML marks pre-rendered markdown/chroma output as trusted.
			// Only output of the markdown package may pass through here.
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s)
			},
		},
	}

	for _, dir := range []string{"admin", "public"} {
		entries, err := templateFS.ReadDir("templates/" + dir)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" {
				continue
			}
			tmplName := strings.TrimSuffix(name, ".html")

			var tmpl *template.Template
			var parseErr error
			if dir == "public" {
				tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
					templateFS, "templates/public/"+name,
				)
			} else {
				tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
					templateFS, "templates/admin/base.html", "templates/admin/"+name,
				)
			}
			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
			}
			r.templates[tmplName] = tmpl
		}
	}

	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests to admin pages, only the "content" block is
// sent; public templates always render whole.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !publicTemplates[name] && isHTMX(r) {
		if err := executeTemplate(w, tmpl, "content", data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	execName := "base.html"
	if publicTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Render executes a template into an arbitrary writer. The public
// handlers use this to capture pages for the Valkey cache before the
// bytes go out.
func (rn *Renderer) Render(w io.Writer, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	execName := "base.html"
	if publicTemplates[name] {
		execName = name + ".html"
	}
	return executeTemplate(w, tmpl, execName, data)
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
