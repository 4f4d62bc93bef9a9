package quill

import (
	"testing"

	"github.com/oyalcin/quill/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Terraform: State Deep Dive", "terraform-state-deep-dive"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post/"},
		{"https://example.com/", []string{"series", "quill"}, "https://example.com/series/quill/"},
	}

	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" go ", "", "  ", "web"})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("FilterEmpty = %v", got)
	}
}

func TestPostAllTags(t *testing.T) {
	p := Post{
		Tags:   []string{"go", "web"},
		Series: &content.SeriesRef{Name: "quill", Index: 3},
	}
	got := p.AllTags()
	if len(got) != 3 || got[2] != "series:quill:3" {
		t.Errorf("AllTags = %v", got)
	}

	plain := Post{Tags: []string{"go"}}
	if got := plain.AllTags(); len(got) != 1 {
		t.Errorf("AllTags = %v", got)
	}
}
