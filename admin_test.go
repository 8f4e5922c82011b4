package portal

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// signIn creates an admin and returns the session cookies of a login.
func signIn(t *testing.T, app *App) []*http.Cookie {
	t.Helper()
	if _, err := CreateAdmin(context.Background(), app.store(), "ops@mdrrmo.gov.ph", "Ops", "correct-horse"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	rec := postForm(app, "/admin/login/", url.Values{"email": {"ops@mdrrmo.gov.ph"}, "password": {"correct-horse"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login = %d, want 303", rec.Code)
	}
	var out []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		t.Fatal("login did not set a session cookie")
	}
	return out
}

func getAs(app *App, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestCreateAdminValidation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	if _, err := CreateAdmin(context.Background(), s, "not-an-email", "X", "long-enough"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := HashPassword("short"); err == nil {
		t.Errorf("expected error for password shorter than %d characters", MinPasswordLength)
	}
}

func TestAdminPagesRender(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	for _, path := range []string{
		"/admin/", "/admin/news/", "/admin/news/new/", "/admin/services/", "/admin/pages/",
		"/admin/pages/new/", "/admin/resources/", "/admin/gallery/", "/admin/gallery/bulk/",
		"/admin/incidents/", "/admin/hotlines/", "/admin/social/", "/admin/images/", "/admin/database/",
	} {
		if rec := getAs(app, path, cookies); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAdminPageDuplicateSlug(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)

	form := func() url.Values {
		return url.Values{"title": {"Evacuation"}, "slug": {"evacuation"}, "status": {StatusPublished}}
	}
	if rec := postForm(app, "/admin/pages/", form(), cookies...); rec.Code != http.StatusSeeOther {
		t.Fatalf("first create = %d, want 303", rec.Code)
	}
	rec := postForm(app, "/admin/pages/", form(), cookies...)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate create = %d, want 422", rec.Code)
	}
	pages, _ := app.store().ListPages(context.Background(), "")
	if len(pages) != 1 {
		t.Errorf("got %d pages, want 1", len(pages))
	}
}

func TestAdminPageReservedSlug(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	rec := postForm(app, "/admin/pages/", url.Values{"title": {"News"}, "slug": {"news"}, "status": {StatusDraft}}, cookies...)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("reserved slug = %d, want 422", rec.Code)
	}
}

func TestAdminSectionDataValidated(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	ctx := context.Background()

	p := Page{Slug: "programs", Title: "Programs", Status: StatusPublished}
	if err := app.store().CreatePage(ctx, &p); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	target := "/admin/pages/" + p.ID + "/sections/"

	bad := postForm(app, target, url.Values{"type": {"cards"}, "data": {`{"items":"nope"}`}}, cookies...)
	if bad.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid data = %d, want 422", bad.Code)
	}
	secs, _ := app.store().ListSections(ctx, p.ID)
	if len(secs) != 0 {
		t.Fatalf("invalid section stored")
	}

	good := postForm(app, target, url.Values{"type": {"cards"}, "data": {`{"items":[{"title":"First Aid"}]}`}}, cookies...)
	if good.Code != http.StatusSeeOther {
		t.Fatalf("valid data = %d, want 303", good.Code)
	}
	secs, _ = app.store().ListSections(ctx, p.ID)
	if len(secs) != 1 || secs[0].OrderIndex != 1 {
		t.Errorf("sections = %+v, want one section at position 1", secs)
	}

	if rec := postForm(app, "/admin/sections/"+secs[0].ID+"/move/", url.Values{"dir": {"sideways"}}, cookies...); rec.Code != http.StatusBadRequest {
		t.Errorf("bad move direction = %d, want 400", rec.Code)
	}
}

func TestAdminIncidentStatus(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	ctx := context.Background()

	r := IncidentReport{ReporterName: "Ana", ContactNumber: "09170000000", Location: "Zone 1", IncidentType: "Fire", Urgency: UrgencyHigh}
	if err := app.store().SubmitIncident(ctx, &r); err != nil {
		t.Fatalf("SubmitIncident: %v", err)
	}
	target := "/admin/incidents/" + r.ID + "/"

	if rec := getAs(app, target, cookies); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), r.ReferenceNumber) {
		t.Errorf("incident detail = %d, want 200 with reference", rec.Code)
	}

	bad := postForm(app, target, url.Values{"status": {"closed"}}, cookies...)
	if bad.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid status = %d, want 422", bad.Code)
	}

	ok := postForm(app, target, url.Values{"status": {IncidentInProgress}, "admin_notes": {"Fire truck en route"}}, cookies...)
	if ok.Code != http.StatusSeeOther {
		t.Fatalf("update = %d, want 303", ok.Code)
	}
	got, _ := app.store().GetIncident(ctx, r.ID)
	if got.Status != IncidentInProgress || got.AdminNotes != "Fire truck en route" {
		t.Errorf("incident = %q/%q, want in-progress with notes", got.Status, got.AdminNotes)
	}
}

func TestAdminDatabaseSwitchUnconfigured(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)

	rec := postForm(app, "/admin/database/", url.Values{"driver": {DriverPostgres}}, cookies...)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("switch to unconfigured backend = %d, want 422", rec.Code)
	}
	if app.DB.ActiveDriver() != DriverSQLite {
		t.Errorf("ActiveDriver() = %q, want %q", app.DB.ActiveDriver(), DriverSQLite)
	}

	same := postForm(app, "/admin/database/", url.Values{"driver": {DriverSQLite}}, cookies...)
	if same.Code != http.StatusSeeOther {
		t.Errorf("switch to sqlite = %d, want 303", same.Code)
	}
}

func TestAdminHotlineCRUD(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	ctx := context.Background()

	rec := postForm(app, "/admin/hotlines/", url.Values{"name": {"Coast Guard"}, "number": {"(02) 8527 3877"}, "category": {"Sea"}}, cookies...)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create hotline = %d, want 303", rec.Code)
	}
	hotlines, _ := app.store().ListHotlines(ctx)
	if len(hotlines) != 1 {
		t.Fatalf("got %d hotlines, want 1", len(hotlines))
	}

	if rec := postForm(app, "/admin/hotlines/"+hotlines[0].ID+"/delete/", nil, cookies...); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete hotline = %d, want 303", rec.Code)
	}
	hotlines, _ = app.store().ListHotlines(ctx)
	if len(hotlines) != 0 {
		t.Errorf("got %d hotlines after delete, want 0", len(hotlines))
	}
}

type uploadFile struct {
	name string
	data []byte
}

// postMultipart posts fields and files as multipart/form-data with a valid
// CSRF token.
func postMultipart(t *testing.T, app *App, target string, fields map[string]string, field string, files []uploadFile, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("_csrf", testCSRF); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 5), uint8(x + y), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestAdminGalleryBulkUpload(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	ctx := context.Background()

	files := []uploadFile{
		{"evacuation_drill.png", testPNG(t, 64, 48)},
		{"broken.jpg", []byte("not an image")},
		{"relief-operations.png", testPNG(t, 40, 40)},
	}
	rec := postMultipart(t, app, "/admin/gallery/bulk/", map[string]string{"category": "Drills"}, "images", files, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk upload = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2 optimized, 1 failed") {
		t.Errorf("summary missing from response")
	}
	if !strings.Contains(body, "broken.jpg") || !strings.Contains(body, "badge-red") {
		t.Errorf("failed file should be listed as an error row")
	}

	items, err := app.store().ListGallery(ctx, "")
	if err != nil {
		t.Fatalf("ListGallery: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d gallery items, want 2", len(items))
	}
	titles := map[string]bool{}
	for _, g := range items {
		titles[g.Title] = true
		if g.Status != StatusDraft {
			t.Errorf("%s: Status = %q, want draft", g.Title, g.Status)
		}
		if g.Category != "Drills" {
			t.Errorf("%s: Category = %q, want Drills", g.Title, g.Category)
		}
		if g.Image == "" {
			t.Errorf("%s: Image is empty", g.Title)
		}
	}
	if !titles["evacuation drill"] || !titles["relief operations"] {
		t.Errorf("titles = %v, want names derived from the files", titles)
	}
}

func TestAdminGalleryBulkUploadLimit(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)

	files := make([]uploadFile, maxBulkFiles+1)
	for i := range files {
		files[i] = uploadFile{fmt.Sprintf("photo-%02d.png", i), []byte("x")}
	}
	rec := postMultipart(t, app, "/admin/gallery/bulk/", nil, "images", files, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk upload = %d, want 200", rec.Code)
	}
	if want := fmt.Sprintf("Upload at most %d photos", maxBulkFiles); !strings.Contains(rec.Body.String(), want) {
		t.Errorf("response missing %q", want)
	}
	items, _ := app.store().ListGallery(context.Background(), "")
	if len(items) != 0 {
		t.Errorf("got %d gallery items, want none over the limit", len(items))
	}
}

func TestAdminGalleryBulkUploadRequiresMultipart(t *testing.T) {
	app := newTestApp(t)
	cookies := signIn(t, app)
	if rec := postForm(app, "/admin/gallery/bulk/", url.Values{"category": {"x"}}, cookies...); rec.Code != http.StatusBadRequest {
		t.Errorf("urlencoded bulk upload = %d, want 400", rec.Code)
	}
}
