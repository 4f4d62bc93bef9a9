package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/oyalcin/quill"
	"github.com/oyalcin/quill/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sync":
		if err := runSync(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: quill new <project-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("quill %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// configFromEnv builds a SiteConfig from environment variables, the
// same set a scaffolded project's .env documents.
func configFromEnv() quill.SiteConfig {
	cfg := quill.SiteConfig{
		Name:              quill.EnvOr("SITE_NAME", "Blog"),
		URL:               quill.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:       os.Getenv("SITE_DESCRIPTION"),
		Author:            os.Getenv("SITE_AUTHOR"),
		Addr:              quill.EnvOr("ADDR", ":3000"),
		ContentDir:        quill.EnvOr("CONTENT_DIR", "content"),
		DatabasePath:      quill.EnvOr("DATABASE_PATH", "data/index.db"),
		Environment:       quill.EnvOr("QUILL_ENV", "production"),
		AdminPassword:     quill.MustEnv("ADMIN_PASSWORD"),
		SessionSecret:     quill.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:      os.Getenv("COOKIE_SECURE") == "true",
		StatsEnabled:      os.Getenv("STATS_ENABLED") != "false",
		StatsDatabasePath: quill.EnvOr("STATS_DATABASE_PATH", "data/stats.db"),
	}
	if v := os.Getenv("STATS_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.StatsRetentionDays = days
		}
	}
	return cfg
}

func runServe() error {
	cfg := configFromEnv()
	app := quill.New(cfg, views.DefaultViews(cfg))
	defer app.Close()
	return app.Start()
}

// runSync rebuilds the post index from the content directory without
// starting the server. Useful in CI and cron jobs.
func runSync() error {
	cfg := configFromEnv()
	app := quill.New(cfg, quill.ViewFuncs{})
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Sync(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("sync: %s\n", res)
	for _, syncErr := range res.Errors {
		fmt.Fprintf(os.Stderr, "  %v\n", syncErr)
	}
	return nil
}

func printUsage() {
	fmt.Println(`quill - A markdown blog publishing engine built with Go, Echo, and templ

Usage:
  quill <command> [arguments]

Commands:
  serve         Start the blog server (configured via environment)
  sync          Rebuild the post index from the content directory
  new <name>    Create a new quill project
  version       Print the quill version
  help          Show this help message

Examples:
  quill new myblog
  quill new github.com/user/myblog
  ADMIN_PASSWORD=... ADMIN_SESSION_SECRET=... quill serve`)
}
