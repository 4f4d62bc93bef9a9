// Package quill is a markdown blog publishing engine built with Go,
// Echo, and templ. Posts are plain markdown files with YAML frontmatter;
// quill loads them, validates the authoring contract, renders them with
// goldmark, and serves the result with tag filtering, series navigation,
// draft gating, RSS, and a sitemap.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// quill handles the handler logic, middleware, content sync, and
// database operations.
package quill

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/oyalcin/quill/content"
	"github.com/oyalcin/quill/markdown"
	"github.com/oyalcin/quill/stats"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial      func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection      func(posts []Post, activeTag string, tags []string) templ.Component
	Post             func(post Post, posts []Post, nav SeriesNav, siteURL string) templ.Component
	PostPartial      func(post Post, posts []Post, nav SeriesNav, siteURL string) templ.Component
	Series           func(name string, posts []Post, siteURL string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []Post, views map[string]int64, message string, csrfToken string) templ.Component
	AdminFormPartial func(post Post, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central quill application. It wires together the content
// loader, renderer, index store, cache, handlers, middleware, and
// user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loader       *content.Loader
	renderer     *markdown.Renderer
	contentFS    fs.FS
	markdownOpts markdown.Options
	loginLimiter *LoginLimiter
	statsStore   *stats.Store
	stopCleanup  func()
	customRoutes []func(*App)
	staticDir    string
}

// New creates a quill App with the given configuration and view
// functions. Call Start to serve, or Init + Sync for one-shot use.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, builds the loader, renderer, cache, limiter,
// and stats store. It does not register routes or listen.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("quill: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("quill: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("quill: init store: %w", err)
	}
	a.Store = store

	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	a.loader = content.NewLoader(a.contentFS)
	a.renderer = markdown.New(a.markdownOpts)
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL, a.Config.Development())
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.StatsEnabled {
		statsStore, err := stats.NewStore(a.Config.StatsDatabasePath)
		if err != nil {
			return fmt.Errorf("quill: init stats: %w", err)
		}
		if err := stats.InitSalt(statsStore); err != nil {
			return fmt.Errorf("quill: init stats salt: %w", err)
		}
		a.statsStore = statsStore
		a.stopCleanup = statsStore.StartCleanupScheduler(a.Config.StatsRetentionDays, 24*time.Hour)
	}
	return nil
}

// Start initializes the app, syncs the content directory into the
// index, registers middleware and routes, and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}

	res, err := a.Sync(context.Background())
	if err != nil {
		return fmt.Errorf("quill: initial sync: %w", err)
	}
	log.Printf("quill: content sync %s", res)
	for _, syncErr := range res.Errors {
		log.Printf("quill: sync: %v", syncErr)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/series/:name/", a.handleSeries)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/sync/", a.handleAdminSync)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.statsStore != nil {
		a.statsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback
// if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("quill: required environment variable %s is not set", key)
	}
	return v
}
