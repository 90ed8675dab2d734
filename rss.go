package rambler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eliasdorneles/rambler/posts"
	"github.com/eliasdorneles/rambler/views"
)

// feedEntry is a published post as both feed formats see it.
type feedEntry struct {
	Title   string
	Link    string
	HTML    string
	Date    time.Time
	HasDate bool
}

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
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// feedEntries resolves article links for published posts. Posts whose
// article URL cannot be built are left out.
func (a *App) feedEntries(published []posts.Post) []feedEntry {
	site := a.Config.Site
	entries := make([]feedEntry, 0, len(published))
	for _, p := range published {
		rel, err := ArticleURL(site.ArticleURL, p, a.location)
		if err != nil {
			a.Echo.Logger.Warnf("feed: skipping %s: %v", p.Filename, err)
			continue
		}
		e := feedEntry{
			Title: p.Title,
			Link:  AbsoluteURL(site.URL, rel),
			HTML:  views.MarkdownHTML(p.Body),
		}
		if t, err := ParsePostDate(p.Date, a.location); err == nil {
			e.Date, e.HasDate = t, true
		}
		entries = append(entries, e)
	}
	return entries
}

func (a *App) buildFeed(published []posts.Post) rssXML {
	site := a.Config.Site
	entries := a.feedEntries(published)
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		item := rssItem{
			Title:       e.Title,
			Link:        e.Link,
			Description: e.HTML,
			GUID:        e.Link,
		}
		if e.HasDate {
			item.PubDate = e.Date.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Name,
			Link:        BuildURL(site.URL),
			Description: site.Description,
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, published []posts.Post) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", a.buildFeed(published))
}

func writeXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(v)
}
