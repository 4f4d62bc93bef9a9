package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oyalcin/quill"
	"github.com/oyalcin/quill/markdown"
)

func TestFilterRelatedPosts(t *testing.T) {
	current := quill.Post{Slug: "current", Tags: []string{"Go", "web"}}
	posts := []quill.Post{
		{Slug: "current", Tags: []string{"go"}},
		{Slug: "shares-go", Tags: []string{"go", "cli"}},
		{Slug: "shares-web", Tags: []string{" WEB "}},
		{Slug: "unrelated", Tags: []string{"rust"}},
		{Slug: "no-tags"},
	}

	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 {
		t.Fatalf("related = %v, want 2 posts", related)
	}
	if related[0].Slug != "shares-go" || related[1].Slug != "shares-web" {
		t.Errorf("related = %v", related)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := quill.SiteConfig{Name: "Site", URL: "https://example.com", Author: "Jamie"}
	post := quill.Post{
		Slug:        "my-post",
		Title:       "My Post",
		Description: "About things.",
		PublishDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go"},
	}

	got := BlogPostingJsonLD(cfg, post)
	for _, want := range []string{
		`"BlogPosting"`,
		`"My Post"`,
		`"https://example.com/blog/my-post/"`,
		`"datePublished":"2024-01-15T00:00:00Z"`,
		`"dateModified":"2024-02-01T00:00:00Z"`,
		`"Jamie"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON-LD missing %s:\n%s", want, got)
		}
	}
}

func TestTOCNesting(t *testing.T) {
	headings := []markdown.Heading{
		{ID: "one", Level: 2, Text: "One"},
		{ID: "one-a", Level: 3, Text: "One A"},
		{ID: "two", Level: 2, Text: "Two & Co"},
	}

	var b strings.Builder
	if err := TOC(headings).Render(context.Background(), &b); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	got := b.String()

	for _, want := range []string{
		`href="#one"`,
		`href="#one-a"`,
		`href="#two"`,
		"Two &amp; Co",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TOC missing %s:\n%s", want, got)
		}
	}
	// The h3 entry nests inside the first h2's item.
	if strings.Index(got, "<ul>") == strings.LastIndex(got, "<ul>") {
		t.Errorf("expected a nested list:\n%s", got)
	}
	if strings.Count(got, "<ul>") != strings.Count(got, "</ul>") {
		t.Errorf("unbalanced lists:\n%s", got)
	}
}

func TestTOCSkippedLevels(t *testing.T) {
	// h2 straight to h4 and back: every opened list must close, and
	// every item must close exactly once.
	headings := []markdown.Heading{
		{ID: "top", Level: 2, Text: "Top"},
		{ID: "deep", Level: 4, Text: "Deep"},
		{ID: "next", Level: 2, Text: "Next"},
	}

	var b strings.Builder
	if err := TOC(headings).Render(context.Background(), &b); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	got := b.String()

	for _, want := range []string{`href="#top"`, `href="#deep"`, `href="#next"`} {
		if !strings.Contains(got, want) {
			t.Errorf("TOC missing %s:\n%s", want, got)
		}
	}
	if strings.Count(got, "<ul>") != strings.Count(got, "</ul>") {
		t.Errorf("unbalanced lists:\n%s", got)
	}
	if strings.Count(got, "<li>") != strings.Count(got, "</li>") {
		t.Errorf("unbalanced items:\n%s", got)
	}
}

func TestTOCEmpty(t *testing.T) {
	var b strings.Builder
	if err := TOC(nil).Render(context.Background(), &b); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if b.String() != "" {
		t.Errorf("empty TOC should render nothing, got %q", b.String())
	}
}

func TestDefaultViewsRenderWithoutPanic(t *testing.T) {
	cfg := quill.SiteConfig{Name: "Site", URL: "https://example.com"}
	v := DefaultViews(cfg)
	post := quill.Post{
		Slug:        "p",
		Title:       "P",
		Description: "d",
		PublishDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		HTML:        "<p>body</p>",
	}

	var b strings.Builder
	if err := v.Post(post, nil, quill.SeriesNav{}, cfg.URL).Render(context.Background(), &b); err != nil {
		t.Fatalf("Post view failed: %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "<p>body</p>") || !strings.Contains(got, "<title>P | Site</title>") {
		t.Errorf("Post view output:\n%s", got)
	}

	b.Reset()
	if err := v.Home(nil, "", nil, cfg.URL).Render(context.Background(), &b); err != nil {
		t.Fatalf("Home view failed: %v", err)
	}
	if !strings.Contains(b.String(), "Site") {
		t.Errorf("Home view output:\n%s", b.String())
	}
}
