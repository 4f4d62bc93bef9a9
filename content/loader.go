package content

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	slug "github.com/goliatone/go-slug"
)

// Loader discovers markdown documents inside a content filesystem.
//
// Route rule: a post lives either at "<slug>.md" or "<slug>/index.md";
// the slug is taken from the file name or, for index files, the parent
// directory, then normalized. Nested directories above the slug segment
// (e.g. "2023/terraform/intro.md") only organize files and do not
// change the route.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader over the given filesystem, typically
// os.DirFS(contentDir).
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load walks the content tree and parses every markdown file. Dotfiles
// and underscore-prefixed paths are skipped. A file that fails to read
// or parse is reported in the returned error slice without blocking the
// rest of the tree; only walk failures and duplicate slugs abort the
// load, since those mean the tree itself is broken.
func (l *Loader) Load(ctx context.Context) ([]*Document, []error, error) {
	var docs []*Document
	var docErrs []error
	seen := map[string]string{}

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !isMarkdown(name) {
			return nil
		}

		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			docErrs = append(docErrs, err)
			return nil
		}
		if prev, dup := seen[doc.Slug]; dup {
			return fmt.Errorf("content: duplicate slug %q (%s and %s)", doc.Slug, prev, p)
		}
		seen[doc.Slug] = p
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, docErrs, nil
}

// LoadFile reads and parses a single document at a slash-separated path
// relative to the content root.
func (l *Loader) LoadFile(ctx context.Context, p string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", p, err)
	}
	info, err := fs.Stat(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("content: stat %s: %w", p, err)
	}

	fm, body, err := ParseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", p, err)
	}

	postSlug, err := SlugFromPath(p)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", p, err)
	}

	sum := sha256.Sum256(data)
	return &Document{
		Slug:        postSlug,
		Path:        p,
		Frontmatter: fm,
		Body:        body,
		Checksum:    sum[:],
		Modified:    info.ModTime(),
	}, nil
}

// SlugFromPath derives the route slug from a content-relative file path.
func SlugFromPath(p string) (string, error) {
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "index" {
		dir := path.Base(path.Dir(p))
		if dir == "." || dir == "/" {
			return "", fmt.Errorf("index file needs a parent directory")
		}
		stem = dir
	}
	normalized, err := slug.Normalize(stem)
	if err != nil {
		return "", fmt.Errorf("normalize slug %q: %w", stem, err)
	}
	return normalized, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
