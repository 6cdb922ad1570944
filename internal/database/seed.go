package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Seed populates the database with initial development content: two
// categories and three published posts, one of them carrying a code
// snippet. It is a no-op when any post already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var goID, webID string
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ('Go', 'go', 'Posts about the Go programming language')
		RETURNING id
	`).Scan(&goID)
	if err != nil {
		return fmt.Errorf("seed category go: %w", err)
	}
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ('Web Development', 'web-development', 'Frontend and backend web topics')
		RETURNING id
	`).Scan(&webID)
	if err != nil {
		return fmt.Errorf("seed category web: %w", err)
	}

	now := time.Now()
	posts := []struct {
		title, slug, excerpt, content, snippets string
		categoryID                              string
		publishedAt                             time.Time
	}{
		{
			title:   "Getting Started with Go Modules",
			slug:    "getting-started-with-go-modules",
			excerpt: "Learn how Go modules manage dependencies and versions.",
			content: "Go modules are the standard way to manage dependencies.\n\n" +
				"## Creating a module\n\n" +
				"```bash\ngo mod init example.com/myapp\n```\n\n" +
				"Every build reads `go.mod` to resolve exact dependency versions.",
			snippets: `[{"filename":"go.mod","language":"go","code":"module example.com/myapp\n\ngo 1.25"}]`,
			categoryID: goID, publishedAt: now.Add(-5 * 24 * time.Hour),
		},
		{
			title:   "Structured Logging with slog",
			slug:    "structured-logging-with-slog",
			excerpt: "Why structured logs beat printf debugging in production.",
			content: "The `log/slog` package ships with the standard library and produces " +
				"machine-parseable logs.\n\n```go\nslog.Info(\"request\", \"path\", r.URL.Path)\n```",
			snippets:   `[]`,
			categoryID: goID, publishedAt: now.Add(-2 * 24 * time.Hour),
		},
		{
			title:   "Progressive Enhancement with HTMX",
			slug:    "progressive-enhancement-with-htmx",
			excerpt: "Server-rendered HTML with sprinkles of interactivity.",
			content: "HTMX lets the server keep owning the HTML while forms and " +
				"fragments update in place.\n\n```html\n<button hx-post=\"/clicked\">Click</button>\n```",
			snippets:   `[]`,
			categoryID: webID, publishedAt: now.Add(-24 * time.Hour),
		},
	}

	for _, p := range posts {
		_, err := db.Exec(`
			INSERT INTO posts (title, slug, excerpt, content, code_snippets,
			                   category_id, is_published, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		`, p.title, p.slug, p.excerpt, p.content, p.snippets, p.categoryID, p.publishedAt)
		if err != nil {
			return fmt.Errorf("seed insert post %q: %w", p.slug, err)
		}
	}

	slog.Info("database seeded with sample categories and posts")
	return nil
}
