package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEncodeDocumentRoundTrip(t *testing.T) {
	fm := Frontmatter{
		Title:       "Round Trip",
		Description: "Encoded and parsed back.",
		PublishDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go", "series:quill:1"},
		Draft:       true,
		Cover:       &CoverImage{Src: "/cover.jpg", Alt: "Cover"},
		Category:    "meta",
		Extra:       map[string]any{"customKey": "kept"},
	}
	body := []byte("# Heading\n\nSome body.\n")

	source, err := EncodeDocument(fm, body)
	if err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	if !strings.HasPrefix(string(source), "---\n") {
		t.Errorf("encoded source should start with delimiter: %q", source)
	}

	got, gotBody, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	if got.Title != fm.Title || got.Description != fm.Description {
		t.Errorf("got %+v", got)
	}
	if !got.PublishDate.Equal(fm.PublishDate) {
		t.Errorf("PublishDate = %v, want %v", got.PublishDate, fm.PublishDate)
	}
	if !got.UpdatedDate.Equal(fm.UpdatedDate) {
		t.Errorf("UpdatedDate = %v, want %v", got.UpdatedDate, fm.UpdatedDate)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "series:quill:1" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if !got.Draft {
		t.Error("Draft lost in round trip")
	}
	if got.Cover == nil || got.Cover.Src != "/cover.jpg" {
		t.Errorf("Cover = %+v", got.Cover)
	}
	if got.Extra["customKey"] != "kept" {
		t.Errorf("Extra = %v, custom key should survive", got.Extra)
	}
	if !strings.Contains(string(gotBody), "Some body.") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestEncodeDocumentOmitsEmptyFields(t *testing.T) {
	fm := Frontmatter{
		Title:       "Sparse",
		Description: "No optional fields.",
		PublishDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	source, err := EncodeDocument(fm, []byte("body\n"))
	if err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	for _, absent := range []string{"updatedDate", "coverImage", "draft", "category", "tags"} {
		if strings.Contains(string(source), absent) {
			t.Errorf("encoded source should omit %q:\n%s", absent, source)
		}
	}
}

func TestResolvePathPrefersIndexLayout(t *testing.T) {
	dir := t.TempDir()

	// Flat layout by default.
	if got := ResolvePath(dir, "hello"); got != filepath.Join(dir, "hello.md") {
		t.Errorf("ResolvePath = %q", got)
	}

	// Existing index layout wins.
	if err := os.MkdirAll(filepath.Join(dir, "hello"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hello", "index.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ResolvePath(dir, "hello"); got != filepath.Join(dir, "hello", "index.md") {
		t.Errorf("ResolvePath = %q, want index layout", got)
	}
}

func TestWriteAndRemoveDocument(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDocument(dir, "new-post", []byte("---\n---\nbody\n"))
	if err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("written file missing: %v", err)
	}

	if err := RemoveDocument(dir, "new-post"); err != nil {
		t.Fatalf("RemoveDocument failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be gone after RemoveDocument")
	}

	// Removing a missing document is not an error.
	if err := RemoveDocument(dir, "never-existed"); err != nil {
		t.Errorf("RemoveDocument on missing file: %v", err)
	}
}

func TestWriteDocumentRejectsUnsafeSlug(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "content")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	for _, bad := range []string{"../evil", "..", "a/b", "My Post", "UPPER"} {
		if _, err := WriteDocument(dir, bad, []byte("x")); err == nil {
			t.Errorf("WriteDocument(%q) should fail", bad)
		}
		if err := RemoveDocument(dir, bad); err == nil {
			t.Errorf("RemoveDocument(%q) should fail", bad)
		}
	}

	// Nothing escaped the content directory.
	if _, err := os.Stat(filepath.Join(parent, "evil.md")); !os.IsNotExist(err) {
		t.Error("a path-traversal slug wrote outside the content directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("content dir should stay empty, got %v", entries)
	}
}

func TestRemoveDocumentIndexLayoutDropsDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "post", "index.md")
	if err := os.MkdirAll(filepath.Dir(nested), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nested, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveDocument(dir, "post"); err != nil {
		t.Fatalf("RemoveDocument failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "post")); !os.IsNotExist(err) {
		t.Error("empty slug directory should be removed")
	}
}
