package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	slug "github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"
)

// EncodeDocument serializes frontmatter and body back into markdown
// source. Dates are written in the canonical ISO form regardless of how
// the file was originally authored; a hero-derived cover is written as a
// proper coverImage block.
func EncodeDocument(fm Frontmatter, body []byte) ([]byte, error) {
	env := envelope{
		Title:       fm.Title,
		Description: fm.Description,
		PublishDate: FormatDate(fm.PublishDate),
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Cover:       fm.Cover,
		Category:    fm.Category,
	}
	if !fm.UpdatedDate.IsZero() {
		env.UpdatedDate = FormatDate(fm.UpdatedDate)
	}
	if len(fm.Extra) > 0 {
		env.Extra = fm.Extra
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("content: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("content: encode frontmatter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.Write(bytes.TrimLeft(body, "\n"))
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// ResolvePath returns the on-disk file for a slug within dir, honoring
// an existing "<slug>/index.md" layout before defaulting to "<slug>.md".
func ResolvePath(dir, postSlug string) string {
	nested := filepath.Join(dir, postSlug, "index.md")
	if _, err := os.Stat(nested); err == nil {
		return nested
	}
	return filepath.Join(dir, postSlug+".md")
}

// WriteDocument persists a post's source file under dir, creating parent
// directories as needed. The slug must already be in normalized form:
// it becomes a path component, and anything that would not survive
// SlugFromPath unchanged (separators, dots, uppercase) is rejected.
func WriteDocument(dir, postSlug string, source []byte) (string, error) {
	if !slug.IsValid(postSlug) {
		return "", fmt.Errorf("content: invalid slug %q", postSlug)
	}
	path := ResolvePath(dir, postSlug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("content: create dir for %s: %w", postSlug, err)
	}
	if err := os.WriteFile(path, source, 0o644); err != nil {
		return "", fmt.Errorf("content: write %s: %w", path, err)
	}
	return path, nil
}

// RemoveDocument deletes the source file for a slug. A missing file is
// not an error; the index row may simply have outlived its source. Like
// WriteDocument, it refuses slugs that are not in normalized form.
func RemoveDocument(dir, postSlug string) error {
	if !slug.IsValid(postSlug) {
		return fmt.Errorf("content: invalid slug %q", postSlug)
	}
	path := ResolvePath(dir, postSlug)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("content: remove %s: %w", path, err)
	}
	// Drop the slug directory if the index layout left it empty.
	if filepath.Base(path) == "index.md" {
		_ = os.Remove(filepath.Dir(path))
	}
	return nil
}
