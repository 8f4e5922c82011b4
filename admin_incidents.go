package portal

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// incidentStatuses are the triage states in workflow order.
var incidentStatuses = []string{IncidentPending, IncidentInProgress, IncidentResolved}

func validIncidentStatus(s string) bool {
	for _, v := range incidentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (a *App) handleAdminIncidentList(c echo.Context) error {
	f := IncidentFilter{
		Status:  c.QueryParam("status"),
		Urgency: strings.ToUpper(c.QueryParam("urgency")),
	}
	if f.Status != "" && !validIncidentStatus(f.Status) {
		f.Status = ""
	}
	items, err := a.store().ListIncidents(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("incidents", listView[IncidentReport]{
		adminLayout: a.admin(c, "incidents"),
		Items:       items,
		Filter:      f,
	}))
}

func (a *App) incidentView(c echo.Context, item IncidentReport) formView[IncidentReport] {
	return formView[IncidentReport]{
		adminLayout: a.admin(c, "incidents"),
		Item:        item,
		Choices:     incidentStatuses,
	}
}

func (a *App) handleAdminIncidentDetail(c echo.Context) error {
	item, err := a.store().GetIncident(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("incident", a.incidentView(c, item)))
}

func (a *App) handleAdminIncidentUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	item, err := a.store().GetIncident(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	item.Status = c.FormValue("status")
	item.AdminNotes = strings.TrimSpace(c.FormValue("admin_notes"))
	if !validIncidentStatus(item.Status) {
		view := a.incidentView(c, item)
		view.Errors = FieldErrors{"Status": "Choose pending, in-progress or resolved."}
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Admin("incident", view))
	}
	if err := a.store().UpdateIncidentStatus(ctx, item.ID, item.Status, item.AdminNotes); err != nil {
		return err
	}
	c.Logger().Infof("incident %s marked %s by %s", item.ReferenceNumber, item.Status, adminEmail(c))
	return redirectMsg(c, "/admin/incidents/"+item.ID+"/", "Report updated.")
}

func (a *App) handleAdminIncidentDelete(c echo.Context) error {
	if err := a.store().DeleteIncident(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return redirectMsg(c, "/admin/incidents/", "Report deleted.")
}
