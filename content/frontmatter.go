package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// envelope mirrors the raw YAML frontmatter keys as authors write them.
// Dates stay strings here because the corpus mixes several formats; they
// are parsed during normalization. The inline map catches custom keys.
type envelope struct {
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	PublishDate string         `yaml:"publishDate,omitempty"`
	UpdatedDate string         `yaml:"updatedDate,omitempty"`
	Tags        []string       `yaml:"tags,omitempty"`
	Draft       bool           `yaml:"draft,omitempty"`
	Cover       *CoverImage    `yaml:"coverImage,omitempty"`
	HeroImage   string         `yaml:"heroImage,omitempty"`
	Category    string         `yaml:"category,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

// ParseFrontmatter extracts and normalizes the metadata block from a
// markdown source, returning the frontmatter and the body without
// delimiters. The envelope is validated before dates are parsed, so
// authors get schema errors rather than a confusing date failure.
func ParseFrontmatter(source []byte) (Frontmatter, []byte, error) {
	var env envelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return Frontmatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if err := env.validate(); err != nil {
		return Frontmatter{}, nil, err
	}
	fm, err := env.normalize()
	if err != nil {
		return Frontmatter{}, nil, err
	}
	return fm, body, nil
}

// normalize converts the raw envelope into a Frontmatter: dates parsed,
// heroImage folded into the cover slot when no coverImage was given.
func (env envelope) normalize() (Frontmatter, error) {
	published, err := ParseDate(env.PublishDate)
	if err != nil {
		return Frontmatter{}, fmt.Errorf("publishDate: %w", err)
	}

	fm := Frontmatter{
		Title:       env.Title,
		Description: env.Description,
		PublishDate: published,
		Tags:        trimTags(env.Tags),
		Draft:       env.Draft,
		Category:    env.Category,
		Extra:       env.Extra,
	}
	if fm.Extra == nil {
		fm.Extra = map[string]any{}
	}

	if env.UpdatedDate != "" {
		updated, err := ParseDate(env.UpdatedDate)
		if err != nil {
			return Frontmatter{}, fmt.Errorf("updatedDate: %w", err)
		}
		fm.UpdatedDate = updated
	}

	switch {
	case env.Cover != nil:
		cover := *env.Cover
		fm.Cover = &cover
	case env.HeroImage != "":
		// Some posts use heroImage instead of coverImage; fold it into
		// the cover slot so templates only deal with one shape.
		fm.Cover = &CoverImage{Src: env.HeroImage, Alt: env.Title}
	}

	return fm, nil
}

func trimTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
