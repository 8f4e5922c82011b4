package portal

import (
	"errors"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminResourceList(c echo.Context) error {
	items, err := a.store().ListResources(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("resources", listView[Resource]{
		adminLayout: a.admin(c, "resources"),
		Items:       items,
	}))
}

func (a *App) resourceForm(c echo.Context, item Resource, isNew bool) formView[Resource] {
	return formView[Resource]{adminLayout: a.admin(c, "resources"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminResourceNew(c echo.Context) error {
	return Render(c, a.Views.Admin("resource_form", a.resourceForm(c, Resource{Status: StatusDraft}, true)))
}

func (a *App) handleAdminResourceEdit(c echo.Context) error {
	item, err := a.store().GetResource(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("resource_form", a.resourceForm(c, item, false)))
}

// bindResource reads the resource form over r. An uploaded file replaces
// the URL field and sets type and size; a changed external URL clears them.
func (a *App) bindResource(c echo.Context, r Resource, isNew bool) (formView[Resource], error) {
	r.Title = formString(c, "title")
	r.Description = formString(c, "description")
	r.Category = formString(c, "category")
	r.Tags = SplitTags(c.FormValue("tags"))
	r.Status = c.FormValue("status")
	if u := formString(c, "file_url"); u != r.FileURL {
		r.FileURL, r.FileType, r.FileSize = u, "", 0
	}

	view := a.resourceForm(c, r, isNew)
	fh, err := c.FormFile("file")
	if noUpload(err) {
		return view, nil
	}
	if err != nil {
		return view, err
	}
	stored, err := a.saveFile(c.Request().Context(), fh)
	switch {
	case errors.Is(err, errBadUpload):
		view.Errors = FieldErrors{"FileURL": err.Error()}
	case err != nil:
		return view, err
	default:
		view.Item.FileURL = stored.URL
		view.Item.FileType = stored.Type
		view.Item.FileSize = stored.Size
		c.Logger().Infof("stored resource file %s (%d bytes)", stored.URL, stored.Size)
	}
	return view, nil
}

func (a *App) handleAdminResourceCreate(c echo.Context) error {
	view, err := a.bindResource(c, Resource{}, true)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "resource_form", view); !ok {
		return err
	}
	if err := a.store().CreateResource(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/resources/", "Resource created.")
}

func (a *App) handleAdminResourceUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetResource(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := a.bindResource(c, existing, false)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "resource_form", view); !ok {
		return err
	}
	if err := a.store().UpdateResource(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/resources/", "Resource saved.")
}

func (a *App) handleAdminResourceDelete(c echo.Context) error {
	if err := a.store().DeleteResource(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/resources/", "Resource deleted.")
}
