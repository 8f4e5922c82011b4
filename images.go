package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mdrrmo/portal/imageopt"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	maxFileSize   = 25 << 20 // 25MB
	uploadsSubdir = "uploads"
	filesSubdir   = "files"
)

// errBadUpload marks uploads rejected because of their content, as opposed
// to storage failures.
var errBadUpload = errors.New("bad upload")

// allowedFileTypes are the document extensions accepted for resources.
var allowedFileTypes = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "jpg": true, "jpeg": true, "png": true,
	"zip": true, "txt": true, "csv": true,
}

func uploadURL(parts ...string) string {
	return "/public/" + uploadsSubdir + "/" + strings.Join(parts, "/")
}

// readUpload reads a multipart file up to max bytes.
func readUpload(fh *multipart.FileHeader, max int64) ([]byte, error) {
	if fh.Size > max {
		return nil, fmt.Errorf("%w: %s is larger than %d MB", errBadUpload, fh.Filename, max>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %s is larger than %d MB", errBadUpload, fh.Filename, max>>20)
	}
	return data, nil
}

// uniqueFilename appends a counter to base until neither the uploads
// directory nor the image table has the name.
func (a *App) uniqueFilename(ctx context.Context, dir, base, ext string) (string, error) {
	if base == "" {
		base = "upload"
	}
	candidate := base + ext
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken := statErr == nil
		if !taken {
			exists, err := a.store().ImageExists(ctx, candidate)
			if err != nil {
				return "", err
			}
			taken = exists
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
}

// storeImage writes an optimized image to the uploads directory and records
// it in the media library.
func (a *App) storeImage(ctx context.Context, originalName string, res imageopt.Result) (Image, error) {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create uploads dir: %w", err)
	}
	base := Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	name, err := a.uniqueFilename(ctx, dir, base, res.Ext())
	if err != nil {
		return Image{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), res.Data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	img := Image{
		Filename:     name,
		OriginalName: originalName,
		Width:        res.Width,
		Height:       res.Height,
		Size:         len(res.Data),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.store().SaveImage(ctx, img); err != nil {
		return Image{}, err
	}
	return img, nil
}

// saveUpload optimizes an uploaded image and stores it. Undecodable files
// and oversized uploads wrap errBadUpload.
func (a *App) saveUpload(ctx context.Context, fh *multipart.FileHeader) (Image, error) {
	data, err := readUpload(fh, maxUploadSize)
	if err != nil {
		return Image{}, err
	}
	res, err := imageopt.Optimize(data, imageopt.DefaultOptions())
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s is not a supported image", errBadUpload, fh.Filename)
	}
	return a.storeImage(ctx, fh.Filename, res)
}

// noUpload reports whether a FormFile error means the field was simply not
// sent, either left empty or posted as a urlencoded form.
func noUpload(err error) bool {
	return errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
}

// formImage returns the URL of the image uploaded in field, or fallback
// when the field is empty or the form carries no files at all.
func (a *App) formImage(c echo.Context, field, fallback string) (string, error) {
	fh, err := c.FormFile(field)
	if noUpload(err) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	img, err := a.saveUpload(c.Request().Context(), fh)
	if err != nil {
		return "", err
	}
	c.Logger().Infof("stored image %s (%dx%d, %d bytes)", img.Filename, img.Width, img.Height, img.Size)
	return uploadURL(img.Filename), nil
}

// storedFile is a document written to the uploads directory.
type storedFile struct {
	URL  string
	Type string
	Size int64
}

// saveFile stores a resource document as is under uploads/files.
func (a *App) saveFile(ctx context.Context, fh *multipart.FileHeader) (storedFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !allowedFileTypes[ext] {
		return storedFile{}, fmt.Errorf("%w: .%s files are not accepted", errBadUpload, ext)
	}
	data, err := readUpload(fh, maxFileSize)
	if err != nil {
		return storedFile{}, err
	}
	dir := filepath.Join(a.staticDir, uploadsSubdir, filesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storedFile{}, fmt.Errorf("create files dir: %w", err)
	}
	base := Slugify(strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)))
	name, err := a.uniqueFilename(ctx, dir, base, "."+ext)
	if err != nil {
		return storedFile{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return storedFile{}, fmt.Errorf("write file: %w", err)
	}
	return storedFile{URL: uploadURL(filesSubdir, name), Type: ext, Size: int64(len(data))}, nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return redirectMsg(c, "/admin/images/", "Choose an image to upload.")
	}
	img, err := a.saveUpload(c.Request().Context(), fh)
	if errors.Is(err, errBadUpload) {
		return redirectMsg(c, "/admin/images/", err.Error())
	}
	if err != nil {
		return err
	}
	return redirectMsg(c, "/admin/images/", "Uploaded "+img.Filename+".")
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename, err := url.PathUnescape(c.Param("filename"))
	if err != nil || filename == "" || filename != filepath.Base(filename) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}
	if err := os.Remove(filepath.Join(a.staticDir, uploadsSubdir, filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.Logger().Warnf("remove image %s: %v", filename, err)
	}
	if err := a.store().DeleteImage(c.Request().Context(), filename); err != nil {
		return err
	}
	return redirectMsg(c, "/admin/images/", "Deleted "+filename+".")
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.store().ListImages(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("images", listView[Image]{
		adminLayout: a.admin(c, "images"),
		Items:       images,
	}))
}
