package quill

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if c.Request().Header.Get("HX-Request") == "true" {
		switch c.QueryParam("partial") {
		case "blog":
			return Render(c, a.Views.BlogSection(posts, tag, tags))
		case "home":
			return Render(c, a.Views.HomePartial(posts, tag, tags, a.Config.URL))
		}
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	nav, err := a.Cache.SeriesNav(post)
	if err != nil {
		return err
	}

	a.recordView(c, post)

	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(post, posts, nav, a.Config.URL))
	}
	return Render(c, a.Views.Post(post, posts, nav, a.Config.URL))
}

func (a *App) handleSeries(c echo.Context) error {
	name := c.Param("name")
	posts, err := a.Cache.Series(name)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return Render(c, a.Views.Series(name, posts, a.Config.URL))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt from the site URL so the sitemap
// reference is always correct.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// recordView counts a page view when stats are enabled. Draft previews
// are not counted; failures only log, never break the page.
func (a *App) recordView(c echo.Context, post Post) {
	if a.statsStore == nil || post.Draft {
		return
	}
	if err := a.statsStore.Record(post.Slug, c.RealIP(), c.Request().UserAgent()); err != nil {
		c.Logger().Errorf("stats: record %s: %v", post.Slug, err)
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
