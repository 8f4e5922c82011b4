package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and keeps the first error, the way generated
// templ code checks every write.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) url(s string) {
	h.raw(templ.EscapeString(string(templ.URL(s))))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func (h *htmlWriter) current(active bool) {
	if active {
		h.raw(` aria-current="page"`)
	}
}

type navItem struct {
	key   string
	href  string
	label string
}

var publicNav = []navItem{
	{"home", "/", "Home"},
	{"about", "/about/", "About"},
	{"news", "/news/", "News"},
	{"services", "/services/", "Services"},
	{"resources", "/resources/", "Resources"},
	{"gallery", "/gallery/", "Gallery"},
	{"hotlines", "/hotlines/", "Hotlines"},
}

var adminNav = []navItem{
	{"dashboard", "/admin/", "Dashboard"},
	{"incidents", "/admin/incidents/", "Incidents"},
	{"news", "/admin/news/", "News"},
	{"services", "/admin/services/", "Services"},
	{"pages", "/admin/pages/", "Pages"},
	{"resources", "/admin/resources/", "Resources"},
	{"gallery", "/admin/gallery/", "Gallery"},
	{"hotlines", "/admin/hotlines/", "Hotlines"},
	{"social", "/admin/social/", "Social"},
	{"images", "/admin/images/", "Images"},
}

// Layout renders the public document shell around body. head is extra
// markup for <head>, such as JSON-LD, and may be nil.
func Layout(ch Chrome, head, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title, ogTitle := ch.Site.Name, ch.Site.Name
		if ch.Meta.Title != "" {
			title = ch.Meta.Title + " | " + ch.Site.Name
			ogTitle = ch.Meta.Title
		}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(`</title><meta name="description" content="`)
		h.text(ch.Meta.Description)
		h.raw(`"><link rel="canonical" href="`)
		h.url(ch.Meta.URL)
		h.raw(`"><meta property="og:site_name" content="`)
		h.text(ch.Site.Name)
		h.raw(`"><meta property="og:title" content="`)
		h.text(ogTitle)
		h.raw(`"><meta property="og:description" content="`)
		h.text(ch.Meta.Description)
		h.raw(`"><meta property="og:type" content="`)
		h.text(ch.Meta.OGType)
		h.raw(`"><meta property="og:url" content="`)
		h.url(ch.Meta.URL)
		h.raw(`">`)
		if ch.Meta.Image != "" {
			h.raw(`<meta property="og:image" content="`)
			h.url(ch.Meta.Image)
			h.raw(`">`)
		}
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`,
			`<link rel="stylesheet" href="/assets/site.css">`,
			`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(ch.Site.Name + " News")
		h.raw(`" href="/feed.xml">`)
		h.component(ctx, head)
		h.raw(`</head><body><a class="skip" href="#main">Skip to content</a>`)
		h.component(ctx, Header(ch))
		h.raw(`<main id="main">`)
		h.component(ctx, body)
		h.raw(`</main>`)
		h.component(ctx, Footer(ch))
		h.raw(`</body></html>`)
		return h.err
	})
}

// Header is the public site header with the main navigation.
func Header(ch Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="site-header"><div class="container header-inner"><a class="brand" href="/">`)
		h.text(ch.Site.Name)
		h.raw(`</a><nav aria-label="Main">`)
		for _, item := range publicNav {
			h.raw(`<a href="`, item.href, `"`)
			h.current(ch.Nav == item.key)
			h.raw(`>`, item.label, `</a>`)
		}
		h.raw(`<a class="btn btn-danger" href="/report/">Report an Incident</a></nav></div></header>`)
		return h.err
	})
}

// Footer lists the office contacts, hotlines and social links.
func Footer(ch Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<footer class="site-footer"><div class="container footer-grid"><div><strong>`)
		h.text(ch.Site.Name)
		h.raw(`</strong><p>`)
		h.text(ch.Site.Description)
		h.raw(`</p>`)
		if ch.Site.OrgAddress != "" {
			h.raw(`<p>`)
			h.text(ch.Site.OrgAddress)
			h.raw(`</p>`)
		}
		if ch.Site.OrgPhone != "" {
			h.raw(`<p>Tel. <a href="`)
			h.url("tel:" + ch.Site.OrgPhone)
			h.raw(`">`)
			h.text(ch.Site.OrgPhone)
			h.raw(`</a></p>`)
		}
		if ch.Site.OrgEmail != "" {
			h.raw(`<p><a href="`)
			h.url("mailto:" + ch.Site.OrgEmail)
			h.raw(`">`)
			h.text(ch.Site.OrgEmail)
			h.raw(`</a></p>`)
		}
		h.raw(`</div>`)
		if len(ch.Hotlines) > 0 {
			h.raw(`<div><strong>Emergency Hotlines</strong><ul class="plain">`)
			for _, c := range ch.Hotlines {
				h.raw(`<li>`)
				h.text(c.Name)
				h.raw(`: <a href="`)
				h.url("tel:" + c.Number)
				h.raw(`">`)
				h.text(c.Number)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></div>`)
		}
		if len(ch.Social) > 0 {
			h.raw(`<div><strong>Follow Us</strong><ul class="plain">`)
			for _, s := range ch.Social {
				h.raw(`<li><a href="`)
				h.url(s.URL)
				h.raw(`" rel="noopener" target="_blank">`)
				h.text(s.Platform)
				if s.Handle != "" {
					h.raw(` (`)
					h.text(s.Handle)
					h.raw(`)`)
				}
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></div>`)
		}
		h.raw(`</div><p class="container small">&copy; `, strconv.Itoa(ch.Year), ` `)
		h.text(ch.Site.Name)
		h.raw(`. All rights reserved.</p></footer>`)
		return h.err
	})
}

// AdminLayout renders the admin document shell. The navigation is shown
// only to a signed-in user.
func AdminLayout(ch AdminChrome, title, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<meta name="robots" content="noindex"><title>`)
		if title != nil {
			h.component(ctx, title)
		} else {
			h.raw(`Admin`)
		}
		h.raw(` | `)
		h.text(ch.Site.Name)
		h.raw(`</title><link rel="stylesheet" href="/assets/site.css"></head><body class="admin">`)
		if ch.User != "" {
			h.component(ctx, AdminHeader(ch))
		}
		h.raw(`<main class="container admin-main">`)
		if ch.Flash != "" {
			h.raw(`<p class="alert alert-info" role="status">`)
			h.text(ch.Flash)
			h.raw(`</p>`)
		}
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// AdminHeader is the admin navigation with the active backend and the
// sign-out form.
func AdminHeader(ch AdminChrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="admin-header"><a class="brand" href="/admin/">`)
		h.text(ch.Site.Name)
		h.raw(` Admin</a><nav aria-label="Admin">`)
		for _, item := range adminNav {
			h.raw(`<a href="`, item.href, `"`)
			h.current(ch.Nav == item.key)
			h.raw(`>`, item.label, `</a>`)
		}
		h.raw(`<a href="/admin/database/"`)
		h.current(ch.Nav == "database")
		h.raw(`>Database <span class="badge">`)
		h.text(ch.Backend)
		h.raw(`</span></a></nav><form method="post" action="/admin/logout/" class="inline">`)
		h.component(ctx, csrfField(ch.CSRF))
		h.raw(`<span class="small">`)
		h.text(ch.User)
		h.raw(`</span><button class="btn btn-small" type="submit">Sign out</button></form></header>`)
		return h.err
	})
}
