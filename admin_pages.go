package portal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mdrrmo/portal/sections"
)

func (a *App) handleAdminPageList(c echo.Context) error {
	items, err := a.store().ListPages(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("pages", listView[Page]{
		adminLayout: a.admin(c, "pages"),
		Items:       items,
	}))
}

func (a *App) pageForm(c echo.Context, item Page, isNew bool) formView[Page] {
	return formView[Page]{adminLayout: a.admin(c, "pages"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminPageNew(c echo.Context) error {
	return Render(c, a.Views.Admin("page_form", a.pageForm(c, Page{Status: StatusDraft}, true)))
}

func (a *App) handleAdminPageEdit(c echo.Context) error {
	page, err := a.store().GetPage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("page_form", a.pageForm(c, page, false)))
}

func bindPage(c echo.Context, p Page) Page {
	p.Title = formString(c, "title")
	p.Slug = strings.ToLower(formString(c, "slug"))
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Template = formString(c, "template")
	p.HeroTitle = formString(c, "hero_title")
	p.HeroSubtitle = formString(c, "hero_subtitle")
	p.HeroImage = formString(c, "hero_image")
	p.MetaDescription = formString(c, "meta_description")
	p.Status = c.FormValue("status")
	return p
}

// slugTaken re-renders the form when the slug belongs to another page.
func (a *App) slugTaken(c echo.Context, view formView[Page], err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	view.Errors = FieldErrors{"Slug": "Another page already uses this address."}
	return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Admin("page_form", view))
}

func (a *App) handleAdminPageCreate(c echo.Context) error {
	view := a.pageForm(c, bindPage(c, Page{}), true)
	if ok, err := validateForm(a, c, "page_form", view); !ok {
		return err
	}
	if err := a.store().CreatePage(c.Request().Context(), &view.Item); err != nil {
		return a.slugTaken(c, view, err)
	}
	a.Cache.Invalidate()
	return redirectMsg(c, "/admin/pages/"+view.Item.ID+"/", "Page created. Add sections below.")
}

func (a *App) handleAdminPageUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetPage(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view := a.pageForm(c, bindPage(c, existing), false)
	if ok, err := validateForm(a, c, "page_form", view); !ok {
		return err
	}
	if err := a.store().UpdatePage(ctx, view.Item); err != nil {
		return a.slugTaken(c, view, err)
	}
	return a.changed(c, "/admin/pages/"+existing.ID+"/", "Page saved.")
}

func (a *App) handleAdminPageDelete(c echo.Context) error {
	if err := a.store().DeletePage(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/pages/", "Page deleted.")
}

func (a *App) sectionForm(c echo.Context, sec PageSection, isNew bool) formView[PageSection] {
	return formView[PageSection]{
		adminLayout: a.admin(c, "pages"),
		Item:        sec,
		IsNew:       isNew,
		Choices:     SectionTypes,
	}
}

func (a *App) handleAdminSectionNew(c echo.Context) error {
	page, err := a.store().GetPage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	sec := PageSection{PageID: page.ID, Type: sections.TypeContent, Data: json.RawMessage(`{"body": ""}`)}
	view := a.sectionForm(c, sec, true)
	view.Parent = page
	return Render(c, a.Views.Admin("section_form", view))
}

func (a *App) handleAdminSectionEdit(c echo.Context) error {
	sec, err := a.store().GetSection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("section_form", a.sectionForm(c, sec, false)))
}

// bindSection reads the section form and checks the data against the
// schema of the chosen type.
func (a *App) bindSection(c echo.Context, sec PageSection, isNew bool) (formView[PageSection], error) {
	sec.Type = c.FormValue("type")
	sec.Title = formString(c, "title")
	sec.Data = json.RawMessage(strings.TrimSpace(c.FormValue("data")))
	if isNew {
		sec.OrderIndex = formInt(c, "order_index")
	}
	view := a.sectionForm(c, sec, isNew)

	err := sections.Validate(sec.Type, sec.Data)
	var de *sections.DataError
	switch {
	case err == nil, errors.Is(err, sections.ErrUnknownType):
		// an unknown type is reported on the Type field by Validate
	case errors.As(err, &de):
		view.Errors = FieldErrors{"Data": de.Error()}
	default:
		return view, err
	}
	return view, nil
}

func (a *App) handleAdminSectionCreate(c echo.Context) error {
	ctx := c.Request().Context()
	page, err := a.store().GetPage(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := a.bindSection(c, PageSection{PageID: page.ID}, true)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "section_form", view); !ok {
		return err
	}
	if err := a.store().CreateSection(ctx, &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/pages/"+page.ID+"/", "Section added.")
}

func (a *App) handleAdminSectionUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetSection(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := a.bindSection(c, existing, false)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "section_form", view); !ok {
		return err
	}
	if err := a.store().UpdateSection(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/pages/"+existing.PageID+"/", "Section saved.")
}

func (a *App) handleAdminSectionMove(c echo.Context) error {
	ctx := c.Request().Context()
	sec, err := a.store().GetSection(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	delta := 1
	switch c.FormValue("dir") {
	case "up":
		delta = -1
	case "down":
	default:
		return echo.ErrBadRequest
	}
	if err := a.store().MoveSection(ctx, sec.ID, delta); err != nil {
		return err
	}
	return a.changed(c, "/admin/pages/"+sec.PageID+"/", "")
}

func (a *App) handleAdminSectionDelete(c echo.Context) error {
	ctx := c.Request().Context()
	sec, err := a.store().GetSection(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := a.store().DeleteSection(ctx, sec.ID); err != nil {
		return err
	}
	return a.changed(c, "/admin/pages/"+sec.PageID+"/", "Section deleted.")
}
