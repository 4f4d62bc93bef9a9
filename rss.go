package quill

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Category    string        `xml:"category,omitempty"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

func (a *App) renderRSS(c echo.Context, posts []Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "blog", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			Category:    p.Category,
			PubDate:     p.PublishDate.Format(time.RFC1123Z),
			GUID:        postURL,
		}
		if p.Cover != nil {
			item.Enclosure = &rssEnclosure{URL: absoluteURL(base, p.Cover.Src), Type: "image/jpeg"}
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// absoluteURL resolves a possibly site-relative asset path against the
// site base URL.
func absoluteURL(base, src string) string {
	if src == "" {
		return src
	}
	if len(src) > 1 && src[0] == '/' {
		return base + src
	}
	return src
}
