package portal

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"
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

// staticSections are the fixed public listings.
var staticSections = []string{"about", "news", "services", "resources", "gallery", "hotlines", "report"}

// buildSitemap lists the fixed pages, every published article and every
// published CMS page. home and about already have fixed entries.
func buildSitemap(base string, news []NewsItem, pages []Page) sitemapURLSet {
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	for _, s := range staticSections {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, s)})
	}
	for _, n := range news {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "news", n.ID), LastMod: n.Date})
	}
	for _, p := range pages {
		if p.Slug == "home" || p.Slug == "about" {
			continue
		}
		lastMod := ""
		if !p.UpdatedAt.IsZero() {
			lastMod = p.UpdatedAt.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{Loc: BuildURL(base, p.Slug), LastMod: lastMod})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, news []NewsItem, pages []Page) error {
	return writeXML(c, "application/xml; charset=utf-8", buildSitemap(a.Config.URL, news, pages))
}
