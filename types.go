package quill

import (
	"fmt"
	"time"

	"github.com/oyalcin/quill/content"
	"github.com/oyalcin/quill/markdown"
)

// Post is the core content type indexed in SQLite and handed to
// templates. It is a fully resolved view of one markdown document:
// dates parsed, cover normalized, body pre-rendered.
type Post struct {
	Slug        string
	Title       string
	Description string
	PublishDate time.Time
	UpdatedDate time.Time // zero when never updated
	Tags        []string  // display tags; the series tag is split out below
	Category    string
	Series      *content.SeriesRef
	Cover       *content.CoverImage
	Link        string
	Body        string // markdown source
	HTML        string // rendered body
	TOC         []markdown.Heading
	Draft       bool
}

// AllTags returns the display tags plus the reconstructed series tag,
// i.e. the full tag list as it appears in the frontmatter. The admin
// editor round-trips tags through this.
func (p Post) AllTags() []string {
	tags := append([]string(nil), p.Tags...)
	if p.Series != nil {
		tags = append(tags, fmt.Sprintf("series:%s:%d", p.Series.Name, p.Series.Index))
	}
	return tags
}

// SeriesNav points at the neighbouring posts within the same series.
type SeriesNav struct {
	Prev *Post
	Next *Post
}

// Image records an uploaded cover/illustration asset.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>
// template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string // og:image, usually the cover
	OGType      string // "website" or "article"
}
