package quill

import (
	"testing"
	"time"

	"github.com/oyalcin/quill/content"
)

func seedPosts(t *testing.T, s *Store, posts []Post) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p, p.Slug); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}
}

func TestCacheListAndFilter(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, []Post{
		{Slug: "a", Title: "A", Description: "d", PublishDate: day(3), Tags: []string{"go"}, Body: "b", HTML: "h"},
		{Slug: "b", Title: "B", Description: "d", PublishDate: day(2), Tags: []string{"web"}, Body: "b", HTML: "h"},
		{Slug: "draft", Title: "Draft", Description: "d", PublishDate: day(1), Body: "b", HTML: "h", Draft: true},
	})

	cache := NewPostCache(s, time.Minute, false)

	posts, err := cache.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("ListPosts count = %d, want 2 (draft hidden)", len(posts))
	}

	filtered, err := cache.ListPosts("Go")
	if err != nil {
		t.Fatalf("ListPosts(tag) failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Slug != "a" {
		t.Errorf("ListPosts(Go) = %v", filtered)
	}

	tags, err := cache.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("ListTags = %v", tags)
	}
}

func TestCacheIncludesDraftsInDevelopment(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, []Post{
		{Slug: "draft", Title: "Draft", Description: "d", PublishDate: day(1), Body: "b", HTML: "h", Draft: true},
	})

	cache := NewPostCache(s, time.Minute, true)
	posts, err := cache.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("dev cache should include drafts, got %d posts", len(posts))
	}
}

func TestCacheGetPost(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, []Post{
		{Slug: "hello", Title: "Hello", Description: "d", PublishDate: day(1), Body: "b", HTML: "h"},
	})

	cache := NewPostCache(s, time.Minute, false)

	got, err := cache.GetPost("hello")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("Title = %q", got.Title)
	}

	if _, err := cache.GetPost("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	cache := NewPostCache(s, time.Hour, false)

	posts, err := cache.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty store, got %d", len(posts))
	}

	seedPosts(t, s, []Post{
		{Slug: "new", Title: "New", Description: "d", PublishDate: day(1), Body: "b", HTML: "h"},
	})

	// Still cached: the TTL has not expired.
	posts, _ = cache.ListPosts("")
	if len(posts) != 0 {
		t.Error("cache should serve the stale snapshot until invalidated")
	}

	cache.Invalidate()
	posts, err = cache.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("post count after invalidate = %d, want 1", len(posts))
	}
}

func TestCacheSeriesNav(t *testing.T) {
	s := setupTestStore(t)
	ref := func(i int) *content.SeriesRef { return &content.SeriesRef{Name: "quill", Index: i} }
	seedPosts(t, s, []Post{
		{Slug: "part-3", Title: "Part 3", Description: "d", PublishDate: day(3), Series: ref(3), Body: "b", HTML: "h"},
		{Slug: "part-1", Title: "Part 1", Description: "d", PublishDate: day(1), Series: ref(1), Body: "b", HTML: "h"},
		{Slug: "part-2", Title: "Part 2", Description: "d", PublishDate: day(2), Series: ref(2), Body: "b", HTML: "h"},
		{Slug: "loner", Title: "Loner", Description: "d", PublishDate: day(4), Body: "b", HTML: "h"},
	})

	cache := NewPostCache(s, time.Minute, false)

	series, err := cache.Series("quill")
	if err != nil {
		t.Fatalf("Series failed: %v", err)
	}
	if len(series) != 3 || series[0].Slug != "part-1" || series[2].Slug != "part-3" {
		t.Fatalf("Series order wrong: %v", series)
	}

	middle, err := cache.GetPost("part-2")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	nav, err := cache.SeriesNav(middle)
	if err != nil {
		t.Fatalf("SeriesNav failed: %v", err)
	}
	if nav.Prev == nil || nav.Prev.Slug != "part-1" {
		t.Errorf("Prev = %+v, want part-1", nav.Prev)
	}
	if nav.Next == nil || nav.Next.Slug != "part-3" {
		t.Errorf("Next = %+v, want part-3", nav.Next)
	}

	first, _ := cache.GetPost("part-1")
	nav, _ = cache.SeriesNav(first)
	if nav.Prev != nil {
		t.Error("first post should have no Prev")
	}
	if nav.Next == nil || nav.Next.Slug != "part-2" {
		t.Errorf("Next = %+v, want part-2", nav.Next)
	}

	loner, _ := cache.GetPost("loner")
	nav, _ = cache.SeriesNav(loner)
	if nav.Prev != nil || nav.Next != nil {
		t.Error("post outside any series should get an empty nav")
	}
}
