package portal

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mdrrmo/portal/imageopt"
)

// maxBulkFiles caps one bulk upload.
const maxBulkFiles = 50

func (a *App) handleAdminGalleryList(c echo.Context) error {
	items, err := a.store().ListGallery(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("gallery", listView[GalleryItem]{
		adminLayout: a.admin(c, "gallery"),
		Items:       items,
	}))
}

func (a *App) galleryForm(c echo.Context, item GalleryItem, isNew bool) formView[GalleryItem] {
	return formView[GalleryItem]{adminLayout: a.admin(c, "gallery"), Item: item, IsNew: isNew}
}

func (a *App) handleAdminGalleryNew(c echo.Context) error {
	return Render(c, a.Views.Admin("gallery_form", a.galleryForm(c, GalleryItem{Status: StatusDraft}, true)))
}

func (a *App) handleAdminGalleryEdit(c echo.Context) error {
	item, err := a.store().GetGalleryItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("gallery_form", a.galleryForm(c, item, false)))
}

func (a *App) bindGallery(c echo.Context, g GalleryItem, isNew bool) (formView[GalleryItem], error) {
	g.Title = formString(c, "title")
	g.Description = formString(c, "description")
	g.Category = formString(c, "category")
	g.Tags = SplitTags(c.FormValue("tags"))
	g.Featured = formBool(c, "featured")
	g.Status = c.FormValue("status")

	view := a.galleryForm(c, g, isNew)
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

func (a *App) handleAdminGalleryCreate(c echo.Context) error {
	view, err := a.bindGallery(c, GalleryItem{}, true)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "gallery_form", view); !ok {
		return err
	}
	if err := a.store().CreateGalleryItem(c.Request().Context(), &view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/gallery/", "Photo added.")
}

func (a *App) handleAdminGalleryUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.store().GetGalleryItem(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	view, err := a.bindGallery(c, existing, false)
	if err != nil {
		return err
	}
	if ok, err := validateForm(a, c, "gallery_form", view); !ok {
		return err
	}
	if err := a.store().UpdateGalleryItem(ctx, view.Item); err != nil {
		return err
	}
	return a.changed(c, "/admin/gallery/", "Photo saved.")
}

func (a *App) handleAdminGalleryFeatured(c echo.Context) error {
	ctx := c.Request().Context()
	item, err := a.store().GetGalleryItem(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := a.store().SetGalleryFeatured(ctx, item.ID, !item.Featured); err != nil {
		return err
	}
	msg := "Photo featured on the home page."
	if item.Featured {
		msg = "Photo no longer featured."
	}
	return a.changed(c, "/admin/gallery/", msg)
}

func (a *App) handleAdminGalleryStatus(c echo.Context) error {
	status := c.FormValue("status")
	if status != StatusPublished && status != StatusDraft {
		return echo.ErrBadRequest
	}
	if err := a.store().SetGalleryStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return err
	}
	return a.changed(c, "/admin/gallery/", "Photo is now "+status+".")
}

func (a *App) handleAdminGalleryDelete(c echo.Context) error {
	if err := a.store().DeleteGalleryItem(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return a.changed(c, "/admin/gallery/", "Photo deleted.")
}

func (a *App) handleAdminGalleryBulkForm(c echo.Context) error {
	return Render(c, a.Views.Admin("gallery_bulk", bulkView{adminLayout: a.admin(c, "gallery")}))
}

// handleAdminGalleryBulkUpload optimizes every uploaded photo in turn and
// saves each success as a draft gallery item. Failures are listed with
// their reason and do not stop the batch.
func (a *App) handleAdminGalleryBulkUpload(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a multipart upload")
	}
	files := form.File["images"]
	view := bulkView{adminLayout: a.admin(c, "gallery"), Category: formString(c, "category")}
	if len(files) == 0 {
		view.Flash = "Choose at least one photo."
		return Render(c, a.Views.Admin("gallery_bulk", view))
	}
	if len(files) > maxBulkFiles {
		view.Flash = fmt.Sprintf("Upload at most %d photos at a time.", maxBulkFiles)
		return Render(c, a.Views.Admin("gallery_bulk", view))
	}

	batch := imageopt.NewBatch(imageopt.DefaultOptions())
	batch.OnChange = func(it *imageopt.Item) {
		c.Logger().Debugf("bulk upload %s: %s", it.Name, it.Status)
	}
	var rows []bulkRow
	for _, fh := range files {
		data, err := readUpload(fh, maxUploadSize)
		if err != nil {
			rows = append(rows, bulkRow{Name: fh.Filename, Status: string(imageopt.StatusError), Message: err.Error()})
			view.Failed++
			continue
		}
		batch.Add(fh.Filename, data)
	}

	_, failed := batch.Run(ctx)
	view.Failed += failed
	for _, it := range batch.Items {
		row := bulkRow{Name: it.Name, Status: string(it.Status), Message: it.Message()}
		if it.Status == imageopt.StatusOptimized {
			if id, err := a.saveBulkItem(c, it, view.Category); err != nil {
				c.Logger().Errorf("bulk upload %s: %v", it.Name, err)
				row.Status, row.Message = string(imageopt.StatusError), "could not be saved"
				view.Failed++
			} else {
				row.GalleryID = id
				row.Width, row.Height = it.Result.Width, it.Result.Height
				row.Original, row.Size = it.Result.OriginalSize, len(it.Result.Data)
				view.Optimized++
			}
		}
		rows = append(rows, row)
	}
	view.Rows = rows
	if view.Optimized > 0 {
		a.Cache.Invalidate()
	}
	c.Logger().Infof("bulk upload: %d optimized, %d failed", view.Optimized, view.Failed)
	return Render(c, a.Views.Admin("gallery_bulk", view))
}

// saveBulkItem stores an optimized photo and creates its draft gallery item.
func (a *App) saveBulkItem(c echo.Context, it *imageopt.Item, category string) (string, error) {
	ctx := c.Request().Context()
	img, err := a.storeImage(ctx, it.Name, it.Result)
	if err != nil {
		return "", err
	}
	title := strings.TrimSuffix(it.Name, filepath.Ext(it.Name))
	title = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(title))
	if title == "" {
		title = "Untitled photo"
	}
	g := GalleryItem{
		Title:    title,
		Image:    uploadURL(img.Filename),
		Category: category,
		Status:   StatusDraft,
	}
	if err := a.store().CreateGalleryItem(ctx, &g); err != nil {
		return "", err
	}
	return g.ID, nil
}
