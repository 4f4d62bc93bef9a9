// Package content implements the authoring contract of a quill site: a
// directory of markdown files whose YAML frontmatter carries the post
// metadata. It parses, validates, and normalizes that contract into
// Documents the engine can index and render.
package content

import "time"

// CoverImage is the frontmatter `coverImage` object.
type CoverImage struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// SeriesRef identifies a post's position inside a named series, parsed
// from a tag of the form "series:<name>:<n>".
type SeriesRef struct {
	Name  string
	Index int
}

// Frontmatter is the normalized metadata block of a post. Dates are
// parsed, heroImage is folded into Cover, and unknown keys are kept in
// Extra so authors can attach custom data without losing it on rewrite.
type Frontmatter struct {
	Title       string
	Description string
	PublishDate time.Time
	UpdatedDate time.Time // zero when the post was never updated
	Tags        []string
	Draft       bool
	Cover       *CoverImage
	Category    string
	Extra       map[string]any
}

// Series returns the first well-formed series reference among the tags,
// or nil when the post is not part of a series.
func (f Frontmatter) Series() *SeriesRef {
	for _, tag := range f.Tags {
		if ref, ok := ParseSeriesTag(tag); ok {
			return &ref
		}
	}
	return nil
}

// Document is a single markdown file resolved against the content
// directory: its route slug, parsed frontmatter, and raw body.
type Document struct {
	// Slug is derived from the file path and defines the post URL.
	Slug string
	// Path is the file location relative to the content root.
	Path        string
	Frontmatter Frontmatter
	Body        []byte
	// Checksum is the sha256 of the raw file, used to skip unchanged
	// documents during sync.
	Checksum []byte
	Modified time.Time
}
