package content

import (
	"strings"
	"testing"
)

func TestParseFrontmatterComplete(t *testing.T) {
	source := []byte(`---
title: Terraform State Deep Dive
description: How state files actually work.
publishDate: 2024-01-15
updatedDate: 2024-02-01
tags:
  - terraform
  - series:terraform:2
draft: true
coverImage:
  src: /public/uploads/state.jpg
  alt: A state file diagram
category: infrastructure
customKey: custom value
---

Body text here.
`)

	fm, body, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter failed: %v", err)
	}

	if fm.Title != "Terraform State Deep Dive" {
		t.Errorf("Title = %q", fm.Title)
	}
	if fm.Description != "How state files actually work." {
		t.Errorf("Description = %q", fm.Description)
	}
	if got := fm.PublishDate.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("PublishDate = %q, want 2024-01-15", got)
	}
	if got := fm.UpdatedDate.Format("2006-01-02"); got != "2024-02-01" {
		t.Errorf("UpdatedDate = %q, want 2024-02-01", got)
	}
	if len(fm.Tags) != 2 {
		t.Fatalf("Tags = %v, want 2 entries", fm.Tags)
	}
	if !fm.Draft {
		t.Error("Draft should be true")
	}
	if fm.Cover == nil || fm.Cover.Src != "/public/uploads/state.jpg" || fm.Cover.Alt != "A state file diagram" {
		t.Errorf("Cover = %+v", fm.Cover)
	}
	if fm.Category != "infrastructure" {
		t.Errorf("Category = %q", fm.Category)
	}
	if fm.Extra["customKey"] != "custom value" {
		t.Errorf("Extra = %v, want customKey preserved", fm.Extra)
	}
	if !strings.Contains(string(body), "Body text here.") {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatterDefaults(t *testing.T) {
	source := []byte(`---
title: Minimal
description: Just the required fields.
publishDate: 2024-03-01
---

Hello.
`)

	fm, _, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter failed: %v", err)
	}
	if fm.Draft {
		t.Error("Draft should default to false")
	}
	if fm.Cover != nil {
		t.Errorf("Cover should be nil, got %+v", fm.Cover)
	}
	if !fm.UpdatedDate.IsZero() {
		t.Errorf("UpdatedDate should be zero, got %v", fm.UpdatedDate)
	}
	if len(fm.Tags) != 0 {
		t.Errorf("Tags should be empty, got %v", fm.Tags)
	}
	if fm.Extra == nil {
		t.Error("Extra map should be initialized")
	}
}

func TestParseFrontmatterHeroImageFoldsIntoCover(t *testing.T) {
	source := []byte(`---
title: Legacy Post
description: Uses the old heroImage key.
publishDate: 2022-06-10
heroImage: /public/uploads/hero.jpg
---

Old body.
`)

	fm, _, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter failed: %v", err)
	}
	if fm.Cover == nil {
		t.Fatal("heroImage should populate Cover")
	}
	if fm.Cover.Src != "/public/uploads/hero.jpg" {
		t.Errorf("Cover.Src = %q", fm.Cover.Src)
	}
	// Alt falls back to the title when only heroImage is present.
	if fm.Cover.Alt != "Legacy Post" {
		t.Errorf("Cover.Alt = %q, want title fallback", fm.Cover.Alt)
	}
}

func TestParseFrontmatterCoverWinsOverHero(t *testing.T) {
	source := []byte(`---
title: Both Images
description: coverImage takes precedence.
publishDate: 2024-01-01
heroImage: /hero.jpg
coverImage:
  src: /cover.jpg
  alt: The real cover
---

Body.
`)

	fm, _, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter failed: %v", err)
	}
	if fm.Cover == nil || fm.Cover.Src != "/cover.jpg" {
		t.Errorf("Cover = %+v, want coverImage to win", fm.Cover)
	}
}

func TestParseFrontmatterMissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"no title", "---\ndescription: d\npublishDate: 2024-01-01\n---\nbody"},
		{"no description", "---\ntitle: t\npublishDate: 2024-01-01\n---\nbody"},
		{"no publishDate", "---\ntitle: t\ndescription: d\n---\nbody"},
		{"cover missing alt", "---\ntitle: t\ndescription: d\npublishDate: 2024-01-01\ncoverImage:\n  src: /x.jpg\n---\nbody"},
		{"blank tag", "---\ntitle: t\ndescription: d\npublishDate: 2024-01-01\ntags:\n  - ''\n---\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseFrontmatter([]byte(tt.source)); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestParseFrontmatterBadDate(t *testing.T) {
	source := []byte("---\ntitle: t\ndescription: d\npublishDate: someday\n---\nbody")
	_, _, err := ParseFrontmatter(source)
	if err == nil {
		t.Fatal("expected date error")
	}
	if !strings.Contains(err.Error(), "publishDate") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestParseFrontmatterTrimsTags(t *testing.T) {
	source := []byte("---\ntitle: t\ndescription: d\npublishDate: 2024-01-01\ntags:\n  - ' go '\n  - web\n---\nbody")
	fm, _, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter failed: %v", err)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "go" || fm.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", fm.Tags)
	}
}
