package rambler

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/eliasdorneles/rambler/posts"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) buildSitemap(published []posts.Post) sitemapURLSet {
	site := a.Config.Site
	urls := []sitemapURL{
		{Loc: BuildURL(site.URL)},
	}
	for _, p := range published {
		rel, err := ArticleURL(site.ArticleURL, p, a.location)
		if err != nil {
			continue
		}
		u := sitemapURL{Loc: AbsoluteURL(site.URL, rel)}
		if t, err := ParsePostDate(p.Date, a.location); err == nil {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, published []posts.Post) error {
	return writeXML(c, "application/xml; charset=utf-8", a.buildSitemap(published))
}
