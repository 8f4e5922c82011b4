package portal

import (
	"html/template"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mdrrmo/portal/views"
)

// siteLayout is the data every public page shares: header, footer and meta.
type siteLayout = views.Chrome

type homeView struct {
	siteLayout
	Hero      template.HTML
	News      []NewsItem
	Services  []Service
	Gallery   []GalleryItem
	Groups    []HotlineGroup
	OrgJSONLD string
}

type pageView struct {
	siteLayout
	Page Page
	Body template.HTML
}

type newsListView struct {
	siteLayout
	News []NewsItem
}

type newsDetailView struct {
	siteLayout
	Item   NewsItem
	Recent []NewsItem
	Share  []ShareLink
	JSONLD string
}

// filterView is a public listing with filter pills. FilterKey is the query
// parameter the pills set.
type filterView[T any] struct {
	siteLayout
	Items     []T
	Filters   []string
	FilterKey string
	Active    string
}

type hotlinesView struct {
	siteLayout
	Groups []HotlineGroup
}

type reportView struct {
	siteLayout
	Form      IncidentReport
	Errors    FieldErrors
	Types     []string
	Urgencies []string
	Message   string
}

type reportThanksView struct {
	siteLayout
	Reference string
}

// adminLayout is the data every admin page shares.
type adminLayout = views.AdminChrome

type loginView struct {
	adminLayout
	Email string
	Error string
}

type dashboardView struct {
	adminLayout
	Counts DashboardCounts
	Recent []IncidentReport
}

// listView is an admin table of records.
type listView[T any] struct {
	adminLayout
	Items  []T
	Filter IncidentFilter
}

// formView is an admin create/edit form. Parent carries the owning record
// for nested forms such as page sections.
type formView[T any] struct {
	adminLayout
	Item    T
	IsNew   bool
	Errors  FieldErrors
	Choices []string
	Parent  any
}

type bulkRow struct {
	Name      string
	Status    string
	Message   string
	Width     int
	Height    int
	Original  int
	Size      int
	GalleryID string
}

type bulkView struct {
	adminLayout
	Category  string
	Rows      []bulkRow
	Optimized int
	Failed    int
}

type backendRow struct {
	Name   string
	Active bool
}

type databaseView struct {
	adminLayout
	Backends []backendRow
	Error    string
}

func (a *App) site(c echo.Context, nav string, meta PageMeta) siteLayout {
	ctx := c.Request().Context()
	l := siteLayout{
		Site: a.Config.Public(),
		Meta: meta,
		Nav:  nav,
		CSRF: CsrfToken(c),
		Year: time.Now().Year(),
	}
	if l.Meta.URL == "" {
		l.Meta.URL = BuildURL(a.Config.URL, c.Request().URL.Path)
	}
	if l.Meta.Description == "" {
		l.Meta.Description = a.Config.Description
	}
	if l.Meta.OGType == "" {
		l.Meta.OGType = "website"
	}
	// The footer is decoration; a failed lookup leaves it empty.
	if social, err := a.Cache.SocialLinks(ctx); err == nil {
		for _, s := range social {
			l.Social = append(l.Social, views.Social{Platform: s.Platform, Handle: s.Handle, URL: s.URL})
		}
	} else {
		c.Logger().Warnf("footer social links: %v", err)
	}
	if hotlines, err := a.Cache.Hotlines(ctx); err == nil {
		for _, h := range hotlines {
			l.Hotlines = append(l.Hotlines, views.Contact{Name: h.Name, Number: h.Number})
		}
	}
	return l
}

func (a *App) admin(c echo.Context, nav string) adminLayout {
	return adminLayout{
		Site:    a.Config.Public(),
		CSRF:    CsrfToken(c),
		User:    adminEmail(c),
		Nav:     nav,
		Flash:   c.QueryParam("msg"),
		Backend: a.DB.ActiveDriver(),
	}
}
