package quill

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oyalcin/quill/content"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	post, err := a.Store.GetPostAny(slug)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminFormPartial(post, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminSave writes the edited post back to its markdown file and
// re-syncs the index. The file, not the database row, is what gets
// edited: the content directory stays the source of truth.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	// The slug becomes a file path component, so it is normalized the
	// same way SlugFromPath would; anything else would write a file
	// that re-syncs under a different slug (or escapes the content
	// directory entirely).
	slug := Slugify(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return a.redirectAdmin(c, "Slug is required. Add a title or slug.")
	}

	publishDate, err := content.ParseDate(c.FormValue("publishDate"))
	if err != nil {
		return a.redirectAdmin(c, "Invalid publish date. Use YYYY-MM-DD.")
	}

	fm := content.Frontmatter{
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		PublishDate: publishDate,
		Tags:        FilterEmpty(strings.Split(c.FormValue("tags"), ",")),
		Draft:       c.FormValue("draft") != "",
		Category:    strings.TrimSpace(c.FormValue("category")),
	}
	if v := strings.TrimSpace(c.FormValue("updatedDate")); v != "" {
		updated, err := content.ParseDate(v)
		if err != nil {
			return a.redirectAdmin(c, "Invalid updated date. Use YYYY-MM-DD.")
		}
		fm.UpdatedDate = updated
	}
	if src := strings.TrimSpace(c.FormValue("coverSrc")); src != "" {
		fm.Cover = &content.CoverImage{Src: src, Alt: strings.TrimSpace(c.FormValue("coverAlt"))}
		if fm.Cover.Alt == "" {
			fm.Cover.Alt = title
		}
	}
	// Custom frontmatter keys the form does not know about survive the
	// rewrite.
	if existing, err := os.ReadFile(content.ResolvePath(a.Config.ContentDir, slug)); err == nil {
		if prev, _, perr := content.ParseFrontmatter(existing); perr == nil {
			fm.Extra = prev.Extra
		}
	}

	source, err := content.EncodeDocument(fm, []byte(c.FormValue("content")))
	if err != nil {
		return err
	}
	if _, err := content.WriteDocument(a.Config.ContentDir, slug, source); err != nil {
		return err
	}

	if _, err := a.Sync(c.Request().Context()); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := Slugify(c.Param("slug"))
	if slug == "" {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := content.RemoveDocument(a.Config.ContentDir, slug); err != nil {
		return err
	}
	if err := a.Store.DeletePost(slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

// handleAdminSync re-reads the content directory on demand, for authors
// who edit files outside the dashboard.
func (a *App) handleAdminSync(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	res, err := a.Sync(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "sync: "+res.String())
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	views := map[string]int64{}
	if a.statsStore != nil {
		if views, err = a.statsStore.Totals(); err != nil {
			return err
		}
	}
	return Render(c, a.Views.AdminDashboard(posts, views, msg, CsrfToken(c)))
}

func (a *App) redirectAdmin(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}
