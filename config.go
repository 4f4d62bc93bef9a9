package quill

import (
	"io/fs"
	"time"

	"github.com/oyalcin/quill/markdown"
)

// EnvDevelopment is the Environment value under which draft posts stay
// visible on the public site.
const EnvDevelopment = "development"

// SiteConfig holds all configuration for a quill site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr         string // Listen address (default ":3000")
	ContentDir   string // Directory of markdown posts (default "content")
	DatabasePath string // SQLite index path (default "data/index.db")

	// Environment gates draft visibility: drafts render publicly only
	// when set to "development" (default "production").
	Environment string

	StatsEnabled       bool   // Enable the page view counter
	StatsDatabasePath  string // Stats SQLite path (default "data/stats.db")
	StatsRetentionDays int    // Days of view data to keep (default 365)

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/index.db"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.StatsDatabasePath == "" {
		c.StatsDatabasePath = "data/stats.db"
	}
	if c.StatsRetentionDays == 0 {
		c.StatsRetentionDays = 365
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Development reports whether drafts should be publicly visible.
func (c SiteConfig) Development() bool {
	return c.Environment == EnvDevelopment
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentFS overrides the content filesystem, which otherwise
// defaults to os.DirFS(cfg.ContentDir). Useful for tests and embedded
// content.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithMarkdownOptions overrides the renderer configuration.
func WithMarkdownOptions(opts markdown.Options) Option {
	return func(a *App) {
		a.markdownOpts = opts
	}
}
