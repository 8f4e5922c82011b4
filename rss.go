package portal

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// feedLimit caps the number of advisories in the RSS feed.
const feedLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// buildFeed turns published news into an RSS 2.0 document.
func buildFeed(cfg SiteConfig, news []NewsItem) rssXML {
	base := cfg.URL
	items := make([]rssItem, 0, len(news))
	var latest time.Time
	for _, n := range firstN(news, feedLimit) {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", n.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
			if t.After(latest) {
				latest = t
			}
		}
		link := BuildURL(base, "news", n.ID)
		items = append(items, rssItem{
			Title:       n.Title,
			Link:        link,
			Description: n.Excerpt,
			Author:      n.Author,
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	ch := rssChannel{
		Title:       cfg.Name + " News and Advisories",
		Link:        BuildURL(base, "news"),
		Description: cfg.Description,
		Language:    "en",
		Items:       items,
	}
	if !latest.IsZero() {
		ch.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	return rssXML{Version: "2.0", Channel: ch}
}

func (a *App) renderRSS(c echo.Context, news []NewsItem) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", buildFeed(a.Config, news))
}

func writeXML(c echo.Context, contentType string, doc any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(doc)
}
