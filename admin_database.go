package portal

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) backendsView(c echo.Context) databaseView {
	active := a.DB.ActiveDriver()
	var rows []backendRow
	for _, name := range a.DB.Available() {
		rows = append(rows, backendRow{Name: name, Active: name == active})
	}
	return databaseView{adminLayout: a.admin(c, "database"), Backends: rows}
}

func (a *App) handleDatabase(c echo.Context) error {
	return Render(c, a.Views.Admin("database", a.backendsView(c)))
}

// handleDatabaseSwitch points the whole site at another configured backend.
// The admin session is cookie-based, so the admin stays signed in.
func (a *App) handleDatabaseSwitch(c echo.Context) error {
	driver := c.FormValue("driver")
	from := a.DB.ActiveDriver()
	if err := a.DB.Switch(driver); err != nil {
		c.Logger().Errorf("switch datastore %s -> %s: %v", from, driver, err)
		view := a.backendsView(c)
		view.Error = err.Error()
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Admin("database", view))
	}
	a.Cache.Invalidate()
	c.Logger().Infof("datastore switched from %s to %s by %s", from, driver, adminEmail(c))
	return redirectMsg(c, "/admin/database/", "Now serving from "+driver+".")
}
