// Package markdown renders post bodies to HTML with goldmark and
// extracts the table of contents from the heading structure.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options configure a Renderer.
type Options struct {
	// SafeMode suppresses raw HTML passthrough in post bodies.
	SafeMode bool
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// Extensions names the goldmark extensions to enable. Empty means
	// the default set (GFM, linkify, task lists).
	Extensions []string
	// TOCMinLevel/TOCMaxLevel bound the heading levels collected into
	// the table of contents. Zero values default to 2 and 4: the h1 is
	// the post title and deeper headings only add noise.
	TOCMinLevel int
	TOCMaxLevel int
}

// Renderer converts markdown to HTML. It is stateless after
// construction and safe for concurrent use.
type Renderer struct {
	engine   goldmark.Markdown
	minLevel int
	maxLevel int
}

// New builds a Renderer from the given options.
func New(opts Options) *Renderer {
	minLevel, maxLevel := opts.TOCMinLevel, opts.TOCMaxLevel
	if minLevel == 0 {
		minLevel = 2
	}
	if maxLevel == 0 {
		maxLevel = 4
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Renderer{
		engine:   goldmark.New(engineOptions...),
		minLevel: minLevel,
		maxLevel: maxLevel,
	}
}

// Render converts src to HTML and returns the ordered headings that form
// the table of contents. Heading IDs are the parser-assigned auto IDs,
// so TOC anchors always match the rendered output.
func (r *Renderer) Render(src []byte) ([]byte, []Heading, error) {
	reader := text.NewReader(src)
	pctx := parser.NewContext()
	doc := r.engine.Parser().Parse(reader, parser.WithContext(pctx))

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, src, doc); err != nil {
		return nil, nil, fmt.Errorf("markdown render: %w", err)
	}

	toc := collectHeadings(doc, src, r.minLevel, r.maxLevel)
	return buf.Bytes(), toc, nil
}

// Component wraps pre-rendered HTML as a templ component for use inside
// user templates.
func Component(htmlBody []byte) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write(htmlBody)
		return err
	})
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
	"definition":    extension.DefinitionList,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	var out []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		out = append(out, ext)
		seen[key] = struct{}{}
	}
	return out
}
