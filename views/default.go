package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/oyalcin/quill"
)

// DefaultViews returns a minimal, unstyled set of view functions. It is
// what `quill serve` uses out of the box; real sites replace it with
// their own templ components.
func DefaultViews(cfg quill.SiteConfig) quill.ViewFuncs {
	return quill.ViewFuncs{
		Home: func(posts []quill.Post, activeTag string, tags []string, siteURL string) templ.Component {
			return page(cfg, cfg.Name, homeBody(cfg, posts, activeTag, tags))
		},
		HomePartial: func(posts []quill.Post, activeTag string, tags []string, siteURL string) templ.Component {
			return raw(homeBody(cfg, posts, activeTag, tags))
		},
		BlogSection: func(posts []quill.Post, activeTag string, tags []string) templ.Component {
			return raw(postList(posts, activeTag, tags))
		},
		Post: func(post quill.Post, posts []quill.Post, nav quill.SeriesNav, siteURL string) templ.Component {
			return page(cfg, post.Title+" | "+cfg.Name, postBody(cfg, post, nav))
		},
		PostPartial: func(post quill.Post, posts []quill.Post, nav quill.SeriesNav, siteURL string) templ.Component {
			return raw(postBody(cfg, post, nav))
		},
		Series: func(name string, posts []quill.Post, siteURL string) templ.Component {
			return page(cfg, "Series: "+name+" | "+cfg.Name, seriesBody(name, posts))
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return page(cfg, "Admin login", loginForm(showError, csrfToken))
		},
		AdminDashboard: func(posts []quill.Post, views map[string]int64, message, csrfToken string) templ.Component {
			return page(cfg, "Admin", dashboard(posts, views, message, csrfToken))
		},
		AdminFormPartial: func(post quill.Post, csrfToken string) templ.Component {
			return raw(postForm(post, csrfToken))
		},
		AdminImages: func(images []quill.Image, csrfToken string) templ.Component {
			return page(cfg, "Images", imageList(images, csrfToken))
		},
		NotFound: func() templ.Component {
			return page(cfg, "Not found", "<h1>404</h1><p>Page not found.</p>")
		},
		ServerError: func() templ.Component {
			return page(cfg, "Server error", "<h1>500</h1><p>Something went wrong.</p>")
		},
	}
}

func raw(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func page(cfg quill.SiteConfig, title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/>")
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		b.WriteString("<title>" + html.EscapeString(title) + "</title>")
		if cfg.Description != "" {
			b.WriteString(`<meta name="description" content="` + html.EscapeString(cfg.Description) + `"/>`)
		}
		b.WriteString(`<script type="application/ld+json">` + WebsiteJsonLD(cfg) + `</script>`)
		b.WriteString("</head><body>")
		b.WriteString(`<header><a href="/">` + html.EscapeString(cfg.Name) + `</a></header><main>`)
		b.WriteString(body)
		b.WriteString("</main></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func homeBody(cfg quill.SiteConfig, posts []quill.Post, activeTag string, tags []string) string {
	var b strings.Builder
	b.WriteString("<h1>" + html.EscapeString(cfg.Name) + "</h1>")
	if cfg.Description != "" {
		b.WriteString("<p>" + html.EscapeString(cfg.Description) + "</p>")
	}
	b.WriteString(postList(posts, activeTag, tags))
	return b.String()
}

func postList(posts []quill.Post, activeTag string, tags []string) string {
	var b strings.Builder
	b.WriteString(`<section id="blog">`)
	if len(tags) > 0 {
		b.WriteString(`<nav class="tags"><a class="` + TagClass(activeTag == "") + `" href="/">all</a>`)
		for _, t := range tags {
			b.WriteString(`<a class="` + TagClass(t == activeTag) + `" href="/?tag=` + url.QueryEscape(t) + `">`)
			b.WriteString(html.EscapeString(t))
			b.WriteString("</a>")
		}
		b.WriteString("</nav>")
	}
	b.WriteString("<ul>")
	for _, p := range posts {
		href := "/blog/" + PathEscape(p.Slug) + "/"
		if p.Link != "" {
			href = p.Link
		}
		b.WriteString(`<li><a href="` + html.EscapeString(href) + `">` + html.EscapeString(p.Title) + "</a>")
		b.WriteString(" <time>" + FormatDate(p.PublishDate) + "</time>")
		if p.Draft {
			b.WriteString(" <em>draft</em>")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul></section>")
	return b.String()
}

func postBody(cfg quill.SiteConfig, post quill.Post, nav quill.SeriesNav) string {
	var b strings.Builder
	b.WriteString("<article>")
	b.WriteString("<h1>" + html.EscapeString(post.Title) + "</h1>")
	b.WriteString("<time>" + FormatDate(post.PublishDate) + "</time>")
	if !post.UpdatedDate.IsZero() {
		b.WriteString(" <span>updated " + FormatDate(post.UpdatedDate) + "</span>")
	}
	if post.Cover != nil && post.Cover.Src != "" {
		b.WriteString(`<img src="` + html.EscapeString(post.Cover.Src) + `" alt="` + html.EscapeString(post.Cover.Alt) + `"/>`)
	}
	b.WriteString(componentHTML(TOC(post.TOC)))
	b.WriteString(post.HTML)
	if post.Series != nil {
		b.WriteString(`<nav class="series">`)
		b.WriteString(`<p>Part ` + fmt.Sprint(post.Series.Index) + ` of <a href="/series/` + PathEscape(post.Series.Name) + `/">` + html.EscapeString(post.Series.Name) + `</a></p>`)
		if nav.Prev != nil {
			b.WriteString(`<a rel="prev" href="/blog/` + PathEscape(nav.Prev.Slug) + `/">&larr; ` + html.EscapeString(nav.Prev.Title) + `</a> `)
		}
		if nav.Next != nil {
			b.WriteString(`<a rel="next" href="/blog/` + PathEscape(nav.Next.Slug) + `/">` + html.EscapeString(nav.Next.Title) + ` &rarr;</a>`)
		}
		b.WriteString("</nav>")
	}
	b.WriteString(`<script type="application/ld+json">` + BlogPostingJsonLD(cfg, post) + `</script>`)
	b.WriteString("</article>")
	return b.String()
}

func seriesBody(name string, posts []quill.Post) string {
	var b strings.Builder
	b.WriteString("<h1>Series: " + html.EscapeString(name) + "</h1><ol>")
	for _, p := range posts {
		b.WriteString(`<li><a href="/blog/` + PathEscape(p.Slug) + `/">` + html.EscapeString(p.Title) + "</a></li>")
	}
	b.WriteString("</ol>")
	return b.String()
}

func loginForm(showError bool, csrfToken string) string {
	var b strings.Builder
	b.WriteString("<h1>Admin</h1>")
	if showError {
		b.WriteString(`<p class="error">Invalid password.</p>`)
	}
	b.WriteString(`<form method="post" action="/admin/login/">`)
	b.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	b.WriteString(`<input type="password" name="password" autofocus/>`)
	b.WriteString(`<button type="submit">Log in</button></form>`)
	return b.String()
}

func dashboard(posts []quill.Post, views map[string]int64, message, csrfToken string) string {
	var b strings.Builder
	b.WriteString("<h1>Dashboard</h1>")
	if message != "" {
		b.WriteString("<p>" + html.EscapeString(message) + "</p>")
	}
	b.WriteString(`<form method="post" action="/admin/sync/">`)
	b.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	b.WriteString(`<button type="submit">Sync content</button></form>`)
	b.WriteString("<table><tr><th>Post</th><th>Date</th><th>Views</th><th></th></tr>")
	for _, p := range posts {
		b.WriteString("<tr><td>")
		b.WriteString(`<a href="/admin/post/` + PathEscape(p.Slug) + `/">` + html.EscapeString(p.Title) + "</a>")
		if p.Draft {
			b.WriteString(" <em>draft</em>")
		}
		b.WriteString("</td><td>" + FormatDate(p.PublishDate) + "</td>")
		b.WriteString("<td>" + fmt.Sprint(views[p.Slug]) + "</td>")
		b.WriteString("<td></td></tr>")
	}
	b.WriteString("</table>")
	b.WriteString(postForm(quill.Post{}, csrfToken))
	return b.String()
}

func postForm(post quill.Post, csrfToken string) string {
	var b strings.Builder
	b.WriteString(`<form id="post-form" method="post" action="/admin/save/">`)
	b.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	field := func(name, value, placeholder string) {
		b.WriteString(`<input name="` + name + `" value="` + html.EscapeString(value) + `" placeholder="` + placeholder + `"/>`)
	}
	field("title", post.Title, "Title")
	field("slug", post.Slug, "slug")
	field("description", post.Description, "Description")
	field("publishDate", dateValue(post), "2024-01-15")
	field("updatedDate", updatedValue(post), "")
	field("tags", JoinTags(post.AllTags()), "tag-one, tag-two")
	field("category", post.Category, "Category")
	if post.Cover != nil {
		field("coverSrc", post.Cover.Src, "/public/uploads/cover.jpg")
		field("coverAlt", post.Cover.Alt, "Cover alt text")
	} else {
		field("coverSrc", "", "/public/uploads/cover.jpg")
		field("coverAlt", "", "Cover alt text")
	}
	b.WriteString(`<label><input type="checkbox" name="draft" value="true"`)
	if post.Draft {
		b.WriteString(" checked")
	}
	b.WriteString("/> Draft</label>")
	b.WriteString(`<textarea name="content">` + html.EscapeString(post.Body) + `</textarea>`)
	b.WriteString(`<button type="submit">Save</button></form>`)
	return b.String()
}

func dateValue(p quill.Post) string {
	if p.PublishDate.IsZero() {
		return ""
	}
	return p.PublishDate.Format("2006-01-02")
}

func updatedValue(p quill.Post) string {
	if p.UpdatedDate.IsZero() {
		return ""
	}
	return p.UpdatedDate.Format("2006-01-02")
}

func imageList(images []quill.Image, csrfToken string) string {
	var b strings.Builder
	b.WriteString("<h1>Images</h1>")
	b.WriteString(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
	b.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
	b.WriteString(`<input type="file" name="image" accept="image/*"/>`)
	b.WriteString(`<button type="submit">Upload</button></form><ul>`)
	for _, img := range images {
		src := "/public/uploads/" + PathEscape(img.Filename)
		b.WriteString(`<li><img src="` + src + `" width="160"/> <code>` + html.EscapeString(img.Filename) + `</code>`)
		b.WriteString(fmt.Sprintf(" %dx%d</li>", img.Width, img.Height))
	}
	b.WriteString("</ul>")
	return b.String()
}

// componentHTML renders a component to a string for embedding in
// another hand-built fragment.
func componentHTML(c templ.Component) string {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		return ""
	}
	return b.String()
}
