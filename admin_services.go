package portal

import (
	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminServiceList(c echo.Context) error {
	items, err := a.store().ListServices(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("services", listView[Service]{
		adminLayout: a.admin(c, "services"),
		Items:       items,
	}))
}

func (a *App) serviceForm(c echo.Context, item Service, isNew bool) formView[Service] {
	return formView[Service]{adminLayout: a.admin(c, "services"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminServiceNew(c echo.Context) error {
	return Render(c, a.Views.Admin("service_form", a.serviceForm(c, Service{Status: ServiceActive}, true)))
}

func (a *App) handleAdminServiceEdit(c echo.Context) error {
	item, err := a.store().GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("service_form", a.serviceForm(c, item, false)))
}

func bindService(c echo.Context, sv Service) Service {
	sv.Title = formString(c, "title")
	sv.Description = c.FormValue("description")
	sv.Icon = formString(c, "icon")
	sv.Tags = SplitTags(c.FormValue("tags"))
	sv.SortOrder = formInt(c, "sort_order")
	sv.Status = c.FormValue("status")
	return sv
}

func (a *App) handleAdminServiceCreate(c echo.Context) error {
	view := a.serviceForm(c, bindService(c, Service{}), true)
	if ok, err := validateForm(a, c, "service_form", view); !ok {
		return err
	}
	if err := a.store().CreateService(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/services/", "Service created.")
}

func (a *App) handleAdminServiceUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetService(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view := a.serviceForm(c, bindService(c, existing), false)
	if ok, err := validateForm(a, c, "service_form", view); !ok {
		return err
	}
	if err := a.store().UpdateService(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/services/", "Service saved.")
}

func (a *App) handleAdminServiceStatus(c echo.Context) error {
	status := c.FormValue("status")
	if status != ServiceActive && status != ServiceInactive {
		return echo.ErrBadRequest
	}
	if err := a.store().SetServiceStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return err
	}
	return a.changed(c, "/admin/services/", "Service is now "+status+".")
}

func (a *App) handleAdminServiceDelete(c echo.Context) error {
	if err := a.store().DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/services/", "Service deleted.")
}
