package portal

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminNewsList(c echo.Context) error {
	items, err := a.store().ListNews(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("news", listView[NewsItem]{
		adminLayout: a.admin(c, "news"),
		Items:       items,
	}))
}

func (a *App) newsForm(c echo.Context, item NewsItem, isNew bool) formView[NewsItem] {
	return formView[NewsItem]{adminLayout: a.admin(c, "news"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminNewsNew(c echo.Context) error {
	item := NewsItem{
		Status: StatusDraft,
		Date:   time.Now().Format("2006-01-02"),
		Author: a.Config.Name,
	}
	return Render(c, a.Views.Admin("news_form", a.newsForm(c, item, true)))
}

func (a *App) handleAdminNewsEdit(c echo.Context) error {
	item, err := a.store().GetNews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("news_form", a.newsForm(c, item, false)))
}

// bindNews reads the news form over item. An image upload replaces the
// image URL field.
func (a *App) bindNews(c echo.Context, item NewsItem, isNew bool) (formView[NewsItem], error) {
	item.Title = formString(c, "title")
	item.Date = formString(c, "date")
	if item.Date == "" {
		item.Date = time.Now().Format("2006-01-02")
	}
	item.Author = formString(c, "author")
	item.Excerpt = formString(c, "excerpt")
	item.Content = c.FormValue("content")
	item.Status = c.FormValue("status")

	view := a.newsForm(c, item, isNew)
	image, err := a.formImage(c, "image_file", formString(c, "image"))
	switch {
	case errors.Is(err, errBadUpload):
		view.Errors = FieldErrors{"Image": err.Error()}
	case err != nil:
		return view, err
	default:
		view.Item.Image = image
	}
	return view, nil
}

func (a *App) handleAdminNewsCreate(c echo.Context) error {
	view, err := a.bindNews(c, NewsItem{}, true)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "news_form", view); !ok {
		return err
	}
	if err := a.store().CreateNews(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/news/", "Article created.")
}

func (a *App) handleAdminNewsUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetNews(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := a.bindNews(c, existing, false)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "news_form", view); !ok {
		return err
	}
	if err := a.store().UpdateNews(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/news/", "Article saved.")
}

func (a *App) handleAdminNewsStatus(c echo.Context) error {
	status := c.FormValue("status")
	if status != StatusPublished && status != StatusDraft {
		return echo.ErrBadRequest
	}
	if err := a.store().SetNewsStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return err
	}
	return a.changed(c, "/admin/news/", "Article is now "+status+".")
}

func (a *App) handleAdminNewsDelete(c echo.Context) error {
	if err := a.store().DeleteNews(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/news/", "Article deleted.")
}
