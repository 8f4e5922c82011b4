package portal

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mdrrmo/portal/sections"
)

// Home page limits.
const (
	homeNewsLimit     = 3
	homeServicesLimit = 6
	homeGalleryLimit  = 6
	recentNewsLimit   = 3
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	news, err := a.Cache.News(ctx)
	if err != nil {
		return err
	}
	services, err := a.Cache.Services(ctx, "")
	if err != nil {
		return err
	}
	gallery, err := a.Cache.FeaturedGallery(ctx, homeGalleryLimit)
	if err != nil {
		return err
	}
	hotlines, err := a.Cache.Hotlines(ctx)
	if err != nil {
		return err
	}

	data := homeView{
		siteLayout: a.site(c, "home", PageMeta{}),
		News:       firstN(news, homeNewsLimit),
		Services:   firstN(services, homeServicesLimit),
		Gallery:    gallery,
		Groups:     GroupHotlines(hotlines),
		OrgJSONLD:  OrganizationJsonLD(a.Config),
	}
	if page, ok, err := a.publishedPage(c, "home"); err != nil {
		return err
	} else if ok {
		data.Hero = a.renderSections(c, page.Sections)
	}
	return Render(c, a.Views.Page("home", data))
}

func (a *App) handleAbout(c echo.Context) error {
	page, ok, err := a.publishedPage(c, "about")
	if err != nil {
		return err
	}
	if ok {
		return a.renderPage(c, "about", page)
	}
	return Render(c, a.Views.Page("about", a.site(c, "about", PageMeta{Title: "About"})))
}

func (a *App) handlePage(c echo.Context) error {
	page, ok, err := a.publishedPage(c, c.Param("slug"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.ErrNotFound
	}
	return a.renderPage(c, "", page)
}

// publishedPage loads a published CMS page by slug. ok is false when the
// page does not exist or is a draft.
func (a *App) publishedPage(c echo.Context, slug string) (Page, bool, error) {
	page, err := a.store().GetPageBySlug(c.Request().Context(), slug)
	if errors.Is(err, ErrNotFound) {
		return Page{}, false, nil
	}
	if err != nil {
		return Page{}, false, err
	}
	return page, page.Status == StatusPublished, nil
}

func (a *App) renderPage(c echo.Context, nav string, page Page) error {
	meta := PageMeta{
		Title:       page.Title,
		Description: page.MetaDescription,
		Image:       page.HeroImage,
	}
	return Render(c, a.Views.Page("page", pageView{
		siteLayout: a.site(c, nav, meta),
		Page:       page,
		Body:       a.renderSections(c, page.Sections),
	}))
}

// renderSections renders sections in order. A section with an unknown type
// or malformed data is skipped and logged.
func (a *App) renderSections(c echo.Context, secs []PageSection) template.HTML {
	var b strings.Builder
	for _, sec := range secs {
		html, err := sections.Render(sec.Type, sec.Title, sec.Data)
		if err != nil {
			c.Logger().Warnf("section %s (%s) of page %s: %v", sec.ID, sec.Type, sec.PageID, err)
			continue
		}
		b.WriteString(string(html))
	}
	return template.HTML(b.String())
}

func (a *App) handleNewsList(c echo.Context) error {
	news, err := a.Cache.News(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page("news", newsListView{
		siteLayout: a.site(c, "news", PageMeta{Title: "News and Advisories"}),
		News:       news,
	}))
}

func (a *App) handleNewsDetail(c echo.Context) error {
	ctx := c.Request().Context()
	item, err := a.Cache.GetNews(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := a.store().IncrementNewsViews(ctx, item.ID); err != nil {
		c.Logger().Warnf("count view of news %s: %v", item.ID, err)
	}

	news, err := a.Cache.News(ctx)
	if err != nil {
		return err
	}
	var recent []NewsItem
	for _, n := range news {
		if n.ID != item.ID {
			recent = append(recent, n)
		}
	}

	articleURL := BuildURL(a.Config.URL, "news", item.ID)
	meta := PageMeta{
		Title:       item.Title,
		Description: item.Excerpt,
		URL:         articleURL,
		OGType:      "article",
		Image:       item.Image,
	}
	return Render(c, a.Views.Page("news_detail", newsDetailView{
		siteLayout: a.site(c, "news", meta),
		Item:       item,
		Recent:     firstN(recent, recentNewsLimit),
		Share:      ShareLinks(articleURL, item.Title),
		JSONLD:     NewsArticleJsonLD(item, a.Config),
	}))
}

func (a *App) handleServices(c echo.Context) error {
	ctx := c.Request().Context()
	tag := c.QueryParam("tag")
	services, err := a.Cache.Services(ctx, tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ServiceTags(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page("services", filterView[Service]{
		siteLayout: a.site(c, "services", PageMeta{Title: "Services"}),
		Items:      services,
		Filters:    tags,
		FilterKey:  "tag",
		Active:     normalizeTag(tag),
	}))
}

func (a *App) handleResources(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.QueryParam("category")
	all, err := a.Cache.Resources(ctx, "")
	if err != nil {
		return err
	}
	items, err := a.Cache.Resources(ctx, category)
	if err != nil {
		return err
	}
	var cats []string
	for _, r := range all {
		cats = append(cats, r.Category)
	}
	return Render(c, a.Views.Page("resources", filterView[Resource]{
		siteLayout: a.site(c, "resources", PageMeta{Title: "Resources"}),
		Items:      items,
		Filters:    categories(cats),
		FilterKey:  "category",
		Active:     category,
	}))
}

// handleResourceDownload counts the download and redirects to the file. A
// failed count never blocks the download.
func (a *App) handleResourceDownload(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := a.store().GetResource(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if res.Status != StatusPublished || res.FileURL == "" {
		return echo.ErrNotFound
	}
	if err := a.store().IncrementDownloads(ctx, res.ID); err != nil {
		c.Logger().Warnf("count download of resource %s: %v", res.ID, err)
	}
	return c.Redirect(http.StatusFound, res.FileURL)
}

func (a *App) handleGallery(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.QueryParam("category")
	all, err := a.Cache.Gallery(ctx, "")
	if err != nil {
		return err
	}
	items, err := a.Cache.Gallery(ctx, category)
	if err != nil {
		return err
	}
	var cats []string
	for _, g := range all {
		cats = append(cats, g.Category)
	}
	return Render(c, a.Views.Page("gallery", filterView[GalleryItem]{
		siteLayout: a.site(c, "gallery", PageMeta{Title: "Gallery"}),
		Items:      items,
		Filters:    categories(cats),
		FilterKey:  "category",
		Active:     category,
	}))
}

func (a *App) handleHotlines(c echo.Context) error {
	hotlines, err := a.Cache.Hotlines(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page("hotlines", hotlinesView{
		siteLayout: a.site(c, "hotlines", PageMeta{Title: "Emergency Hotlines"}),
		Groups:     GroupHotlines(hotlines),
	}))
}

func (a *App) reportForm(c echo.Context, form IncidentReport, errs FieldErrors, msg string) reportView {
	return reportView{
		siteLayout: a.site(c, "report", PageMeta{Title: "Report an Incident"}),
		Form:       form,
		Errors:     errs,
		Types:      IncidentTypes,
		Urgencies:  []string{UrgencyLow, UrgencyMedium, UrgencyHigh},
		Message:    msg,
	}
}

func (a *App) handleReportForm(c echo.Context) error {
	return Render(c, a.Views.Page("report", a.reportForm(c, IncidentReport{Urgency: UrgencyMedium}, nil, "")))
}

// handleReportSubmit validates and stores a public incident report. Only
// accepted reports count against the per-IP limit.
func (a *App) handleReportSubmit(c echo.Context) error {
	form := IncidentReport{
		ReporterName:  strings.TrimSpace(c.FormValue("reporter_name")),
		ContactNumber: strings.TrimSpace(c.FormValue("contact_number")),
		Email:         strings.TrimSpace(c.FormValue("email")),
		Location:      strings.TrimSpace(c.FormValue("location")),
		IncidentType:  strings.TrimSpace(c.FormValue("incident_type")),
		Urgency:       strings.ToUpper(strings.TrimSpace(c.FormValue("urgency"))),
		Description:   strings.TrimSpace(c.FormValue("description")),
	}

	release, ok := a.reportLimiter.Reserve(c.RealIP())
	if !ok {
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Page("report",
			a.reportForm(c, form, nil, "Too many reports from your connection. Please call a hotline or try again later.")))
	}
	accepted := false
	defer func() {
		if !accepted {
			release()
		}
	}()

	errs, err := fieldErrors(form.Validate())
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Page("report",
			a.reportForm(c, form, errs, "Please correct the highlighted fields.")))
	}

	if err := a.store().SubmitIncident(c.Request().Context(), &form); err != nil {
		return err
	}
	accepted = true
	c.Logger().Infof("incident %s received (%s, %s)", form.ReferenceNumber, form.IncidentType, form.Urgency)

	return Render(c, a.Views.Page("report_thanks", reportThanksView{
		siteLayout: a.site(c, "report", PageMeta{Title: "Report Received"}),
		Reference:  form.ReferenceNumber,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	news, err := a.Cache.News(ctx)
	if err != nil {
		return err
	}
	pages, err := a.store().ListPages(ctx, StatusPublished)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, news, pages)
}

func (a *App) handleFeed(c echo.Context) error {
	news, err := a.Cache.News(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, news)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if errors.Is(err, ErrNotFound) || (ok && he.Code == http.StatusNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site(c, "", PageMeta{Title: "Page Not Found"})))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site(c, "", PageMeta{Title: "Server Error"})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// categories returns the distinct non-empty categories in first-seen order.
func categories(vals []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}
