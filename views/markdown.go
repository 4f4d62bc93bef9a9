package views

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/oyalcin/quill"
	"github.com/oyalcin/quill/markdown"
)

// PostBody emits the pre-rendered HTML of a post. The markdown was
// sanitized at render time, so the body is written through as-is.
func PostBody(post quill.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, post.HTML)
		return err
	})
}

// TOC renders a table of contents as nested lists keyed off heading
// levels. Headings come pre-flattened from the renderer; nesting is
// reconstructed here so the template stays a single component call.
func TOC(headings []markdown.Heading) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(headings) == 0 {
			return nil
		}
		var buf strings.Builder
		buf.WriteString(`<nav class="toc" aria-label="Table of contents">`)

		base := headings[0].Level
		level := base
		buf.WriteString("<ul>")
		for i, h := range headings {
			switch {
			case i == 0:
			case h.Level > level:
				// A jump of more than one level still needs an item
				// wrapping each intermediate list, or the tags don't
				// balance on the way back out.
				for ; level < h.Level; level++ {
					buf.WriteString("<ul>")
					if level+1 < h.Level {
						buf.WriteString("<li>")
					}
				}
			default:
				buf.WriteString("</li>")
				for ; level > h.Level && level > base; level-- {
					buf.WriteString("</ul></li>")
				}
			}
			buf.WriteString(`<li><a href="#` + html.EscapeString(h.ID) + `">`)
			buf.WriteString(html.EscapeString(h.Text))
			buf.WriteString("</a>")
		}
		buf.WriteString("</li>")
		for ; level > base; level-- {
			buf.WriteString("</ul></li>")
		}
		buf.WriteString("</ul></nav>")
		_, err := io.WriteString(w, buf.String())
		return err
	})
}
