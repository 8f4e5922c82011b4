package portal

import (
	"github.com/labstack/echo/v4"
)

// Hotlines

func (a *App) handleAdminHotlineList(c echo.Context) error {
	items, err := a.store().ListHotlines(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("hotlines", listView[Hotline]{
		adminLayout: a.admin(c, "hotlines"),
		Items:       items,
	}))
}

func (a *App) hotlineForm(c echo.Context, item Hotline, isNew bool) formView[Hotline] {
	return formView[Hotline]{adminLayout: a.admin(c, "hotlines"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminHotlineNew(c echo.Context) error {
	return Render(c, a.Views.Admin("hotline_form", a.hotlineForm(c, Hotline{}, true)))
}

func (a *App) handleAdminHotlineEdit(c echo.Context) error {
	item, err := a.store().GetHotline(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("hotline_form", a.hotlineForm(c, item, false)))
}

func bindHotline(c echo.Context, h Hotline) Hotline {
	h.Name = formString(c, "name")
	h.Number = formString(c, "number")
	h.Category = formString(c, "category")
	h.Description = formString(c, "description")
	h.SortOrder = formInt(c, "sort_order")
	return h
}

func (a *App) handleAdminHotlineCreate(c echo.Context) error {
	view := a.hotlineForm(c, bindHotline(c, Hotline{}), true)
	if ok, err := validateForm(a, c, "hotline_form", view); !ok {
		return err
	}
	if err := a.store().CreateHotline(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/hotlines/", "Hotline added.")
}

func (a *App) handleAdminHotlineUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetHotline(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view := a.hotlineForm(c, bindHotline(c, existing), false)
	if ok, err := validateForm(a, c, "hotline_form", view); !ok {
		return err
	}
	if err := a.store().UpdateHotline(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/hotlines/", "Hotline saved.")
}

func (a *App) handleAdminHotlineDelete(c echo.Context) error {
	if err := a.store().DeleteHotline(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/hotlines/", "Hotline deleted.")
}

// Social links

func (a *App) handleAdminSocialList(c echo.Context) error {
	items, err := a.store().ListSocialLinks(c.Request().Context(), false)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("social", listView[SocialLink]{
		adminLayout: a.admin(c, "social"),
		Items:       items,
	}))
}

func (a *App) socialForm(c echo.Context, item SocialLink, isNew bool) formView[SocialLink] {
	return formView[SocialLink]{adminLayout: a.admin(c, "social"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminSocialNew(c echo.Context) error {
	return Render(c, a.Views.Admin("social_form", a.socialForm(c, SocialLink{Active: true}, true)))
}

func (a *App) handleAdminSocialEdit(c echo.Context) error {
	item, err := a.store().GetSocialLink(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("social_form", a.socialForm(c, item, false)))
}

func bindSocial(c echo.Context, l SocialLink) SocialLink {
	l.Platform = formString(c, "platform")
	l.URL = formString(c, "url")
	l.Handle = formString(c, "handle")
	l.SortOrder = formInt(c, "sort_order")
	l.Active = formBool(c, "active")
	return l
}

func (a *App) handleAdminSocialCreate(c echo.Context) error {
	view := a.socialForm(c, bindSocial(c, SocialLink{}), true)
	if ok, err := validateForm(a, c, "social_form", view); !ok {
		return err
	}
	if err := a.store().CreateSocialLink(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/social/", "Link added.")
}

func (a *App) handleAdminSocialUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetSocialLink(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view := a.socialForm(c, bindSocial(c, existing), false)
	if ok, err := validateForm(a, c, "social_form", view); !ok {
		return err
	}
	if err := a.store().UpdateSocialLink(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/social/", "Link saved.")
}

func (a *App) handleAdminSocialDelete(c echo.Context) error {
	if err := a.store().DeleteSocialLink(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/social/", "Link deleted.")
}
