package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// Heading is one table-of-contents entry. ID matches the anchor emitted
// in the rendered HTML.
type Heading struct {
	ID    string
	Level int
	Text  string
}

// collectHeadings walks the parsed document in order and gathers the
// headings between minLevel and maxLevel inclusive.
func collectHeadings(doc ast.Node, src []byte, minLevel, maxLevel int) []Heading {
	var toc []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level < minLevel || h.Level > maxLevel {
			return ast.WalkSkipChildren, nil
		}
		entry := Heading{
			Level: h.Level,
			Text:  nodeText(h, src),
		}
		if id, found := h.AttributeString("id"); found {
			if b, isBytes := id.([]byte); isBytes {
				entry.ID = string(b)
			} else if s, isString := id.(string); isString {
				entry.ID = s
			}
		}
		toc = append(toc, entry)
		return ast.WalkSkipChildren, nil
	})
	return toc
}

// nodeText flattens the inline content of a node to plain text, so TOC
// entries lose any emphasis or code markup from the heading.
func nodeText(n ast.Node, src []byte) string {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			out = append(out, t.Segment.Value(src)...)
		case *ast.String:
			out = append(out, t.Value...)
		default:
			out = append(out, nodeText(c, src)...)
		}
	}
	return string(out)
}
