package rambler

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eliasdorneles/rambler/posts"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	ID        string      `xml:"id"`
	Link      atomLink    `xml:"link"`
	Updated   string      `xml:"updated"`
	Published string      `xml:"published,omitempty"`
	Content   atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// buildAtom converts published posts to an Atom 1.0 document. Undated
// entries carry the feed's updated time, which is the newest post date or
// the current time when no post is dated.
func (a *App) buildAtom(published []posts.Post) atomFeed {
	site := a.Config.Site
	entries := a.feedEntries(published)

	var updated time.Time
	for _, e := range entries {
		if e.HasDate && e.Date.After(updated) {
			updated = e.Date
		}
	}
	if updated.IsZero() {
		updated = a.now().In(a.location)
	}

	home := BuildURL(site.URL)
	feed := atomFeed{
		Title:   site.Name,
		ID:      home,
		Updated: updated.Format(time.RFC3339),
		Links: []atomLink{
			{Href: home, Rel: "alternate"},
			{Href: AbsoluteURL(site.URL, "atom.xml"), Rel: "self"},
		},
		Entries: make([]atomEntry, 0, len(entries)),
	}
	if a.Config.Author != "" {
		feed.Author = &atomAuthor{Name: a.Config.Author}
	}
	for _, e := range entries {
		entry := atomEntry{
			Title:   e.Title,
			ID:      e.Link,
			Link:    atomLink{Href: e.Link, Rel: "alternate"},
			Updated: feed.Updated,
			Content: atomContent{Type: "html", Body: e.HTML},
		}
		if e.HasDate {
			entry.Updated = e.Date.Format(time.RFC3339)
			entry.Published = entry.Updated
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return feed
}

func (a *App) renderAtom(c echo.Context, published []posts.Post) error {
	return writeXML(c, "application/atom+xml; charset=utf-8", a.buildAtom(published))
}
