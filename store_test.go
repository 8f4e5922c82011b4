package portal

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_portal.db")

	s, err := NewStore(DriverSQLite, path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		s.Close()
	}

	return s, cleanup
}

func TestNewStore(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, want %q", s.Driver(), DriverSQLite)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestNewStoreUnsupportedDriver(t *testing.T) {
	if _, err := NewStore("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewStoreIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s, err := NewStore(DriverSQLite, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	s, err = NewStore(DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopening an existing database should not fail: %v", err)
	}
	s.Close()
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{DriverSQLite, `SELECT * FROM news WHERE id = ? AND status = ?`},
		{DriverMySQL, `SELECT * FROM news WHERE id = ? AND status = ?`},
		{DriverPostgres, `SELECT * FROM news WHERE id = $1 AND status = $2`},
	}
	for _, tt := range tests {
		s := &Store{driver: tt.driver}
		if got := s.rebind(`SELECT * FROM news WHERE id = ? AND status = ?`); got != tt.want {
			t.Errorf("rebind(%s) = %q, want %q", tt.driver, got, tt.want)
		}
	}
}

func TestCreateAndGetNews(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := NewsItem{
		Title:   "Typhoon Signal No. 2 Raised",
		Excerpt: "Residents in low-lying barangays are advised to prepare.",
		Content: "# Advisory\n\nPrepare your go-bags.",
		Author:  "MDRRMO",
		Status:  StatusPublished,
		Date:    "2024-10-21",
	}
	if err := s.CreateNews(ctx, &n); err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	if n.ID == "" {
		t.Fatal("CreateNews should assign an id")
	}

	got, err := s.GetNews(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if got.Title != n.Title {
		t.Errorf("Title = %q, want %q", got.Title, n.Title)
	}
	if got.Date != "2024-10-21" {
		t.Errorf("Date = %q, want %q", got.Date, "2024-10-21")
	}
	if got.Content != n.Content {
		t.Errorf("Content = %q, want %q", got.Content, n.Content)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestCreateNewsDefaultsDate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := NewsItem{Title: "Undated", Status: StatusDraft}
	if err := s.CreateNews(ctx, &n); err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	if n.Date == "" {
		t.Error("Date should default to today")
	}
}

func TestGetNewsNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetNews(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewsByStatusAndOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	items := []NewsItem{
		{Title: "Older", Status: StatusPublished, Date: "2024-01-01"},
		{Title: "Newer", Status: StatusPublished, Date: "2024-06-01"},
		{Title: "Draft", Status: StatusDraft, Date: "2024-12-01"},
	}
	for i := range items {
		if err := s.CreateNews(ctx, &items[i]); err != nil {
			t.Fatalf("CreateNews: %v", err)
		}
	}

	published, err := s.ListNews(ctx, StatusPublished)
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("got %d published items, want 2", len(published))
	}
	if published[0].Title != "Newer" {
		t.Errorf("first item = %q, want %q", published[0].Title, "Newer")
	}

	all, err := s.ListNews(ctx, "")
	if err != nil {
		t.Fatalf("ListNews all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d items, want 3", len(all))
	}
}

func TestUpdateNewsKeepsViewCount(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := NewsItem{Title: "Original", Status: StatusPublished, Date: "2024-03-01"}
	if err := s.CreateNews(ctx, &n); err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.IncrementNewsViews(ctx, n.ID); err != nil {
			t.Fatalf("IncrementNewsViews: %v", err)
		}
	}

	n.Title = "Updated"
	n.ViewCount = 0
	if err := s.UpdateNews(ctx, n); err != nil {
		t.Fatalf("UpdateNews: %v", err)
	}

	got, err := s.GetNews(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated")
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", got.ViewCount)
	}
}

func TestIncrementNewsViewsNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.IncrementNewsViews(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSetNewsStatusAndDelete(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := NewsItem{Title: "Flip", Status: StatusDraft, Date: "2024-03-01"}
	if err := s.CreateNews(ctx, &n); err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	if err := s.SetNewsStatus(ctx, n.ID, StatusPublished); err != nil {
		t.Fatalf("SetNewsStatus: %v", err)
	}
	got, _ := s.GetNews(ctx, n.ID)
	if !got.IsPublished() {
		t.Errorf("Status = %q, want published", got.Status)
	}

	if err := s.DeleteNews(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNews: %v", err)
	}
	if _, err := s.GetNews(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted item still found, err = %v", err)
	}
}

func TestServicesTagsAndOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	services := []Service{
		{Title: "Rescue Operations", Tags: []string{"Response", " Rescue "}, Status: ServiceActive, SortOrder: 2},
		{Title: "First Aid Training", Tags: []string{"training"}, Status: ServiceActive, SortOrder: 1},
		{Title: "Retired Program", Status: ServiceInactive, SortOrder: 0},
	}
	for i := range services {
		if err := s.CreateService(ctx, &services[i]); err != nil {
			t.Fatalf("CreateService: %v", err)
		}
	}

	active, err := s.ListServices(ctx, ServiceActive)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("got %d active services, want 2", len(active))
	}
	if active[0].Title != "First Aid Training" {
		t.Errorf("first service = %q, want %q", active[0].Title, "First Aid Training")
	}
	tags := active[1].Tags
	if len(tags) != 2 || tags[0] != "response" || tags[1] != "rescue" {
		t.Errorf("Tags = %v, want [response rescue]", tags)
	}
}

func TestPageWithSections(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := Page{Slug: "about", Title: "About Us", Status: StatusPublished}
	if err := s.CreatePage(ctx, &p); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	for _, typ := range []string{"hero", "content", "cards"} {
		sec := PageSection{PageID: p.ID, Type: typ, Data: json.RawMessage(`{}`)}
		if err := s.CreateSection(ctx, &sec); err != nil {
			t.Fatalf("CreateSection(%s): %v", typ, err)
		}
	}

	got, err := s.GetPageBySlug(ctx, "about")
	if err != nil {
		t.Fatalf("GetPageBySlug: %v", err)
	}
	if len(got.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(got.Sections))
	}
	for i, want := range []string{"hero", "content", "cards"} {
		if got.Sections[i].Type != want {
			t.Errorf("Sections[%d].Type = %q, want %q", i, got.Sections[i].Type, want)
		}
		if got.Sections[i].OrderIndex != i+1 {
			t.Errorf("Sections[%d].OrderIndex = %d, want %d", i, got.Sections[i].OrderIndex, i+1)
		}
	}
}

func TestCreatePageDuplicateSlug(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first := Page{Slug: "evacuation", Title: "Evacuation", Status: StatusDraft}
	if err := s.CreatePage(ctx, &first); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	second := Page{Slug: "evacuation", Title: "Evacuation Centers", Status: StatusDraft}
	err := s.CreatePage(ctx, &second)
	if !isUniqueViolation(err) {
		t.Errorf("err = %v, want unique violation", err)
	}
}

func TestMoveSection(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := Page{Slug: "programs", Title: "Programs", Status: StatusPublished}
	if err := s.CreatePage(ctx, &p); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		sec := PageSection{PageID: p.ID, Type: "content", Title: title}
		if err := s.CreateSection(ctx, &sec); err != nil {
			t.Fatalf("CreateSection: %v", err)
		}
		ids = append(ids, sec.ID)
	}

	titles := func() string {
		secs, err := s.ListSections(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListSections: %v", err)
		}
		out := ""
		for _, sec := range secs {
			out += sec.Title
		}
		return out
	}

	tests := []struct {
		name  string
		id    string
		delta int
		want  string
	}{
		{"move last up", ids[2], -1, "ACB"},
		{"move first up is a no-op", ids[0], -1, "ACB"},
		{"move first down", ids[0], 1, "CAB"},
		{"move last down is a no-op", ids[1], 1, "CAB"},
	}
	for _, tt := range tests {
		if err := s.MoveSection(ctx, tt.id, tt.delta); err != nil {
			t.Fatalf("%s: MoveSection: %v", tt.name, err)
		}
		if got := titles(); got != tt.want {
			t.Errorf("%s: order = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeletePageRemovesSections(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := Page{Slug: "temp", Title: "Temp", Status: StatusDraft}
	if err := s.CreatePage(ctx, &p); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	sec := PageSection{PageID: p.ID, Type: "content"}
	if err := s.CreateSection(ctx, &sec); err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if err := s.DeletePage(ctx, p.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := s.GetSection(ctx, sec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("section survived page delete, err = %v", err)
	}
}

func TestSubmitIncident(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	r := IncidentReport{
		ReporterName:  "Juan Dela Cruz",
		ContactNumber: "09171234567",
		Location:      "Purok 3, Barangay Poblacion",
		IncidentType:  "Flood",
		Urgency:       UrgencyHigh,
		Description:   "Water rising near the river bank.",
	}
	if err := s.SubmitIncident(ctx, &r); err != nil {
		t.Fatalf("SubmitIncident: %v", err)
	}
	if !ValidReferenceNumber(r.ReferenceNumber) {
		t.Errorf("ReferenceNumber = %q, want RD-YYYY-NNNN", r.ReferenceNumber)
	}
	if r.Status != IncidentPending {
		t.Errorf("Status = %q, want %q", r.Status, IncidentPending)
	}

	got, err := s.GetIncidentByReference(ctx, r.ReferenceNumber)
	if err != nil {
		t.Fatalf("GetIncidentByReference: %v", err)
	}
	if got.ReporterName != r.ReporterName {
		t.Errorf("ReporterName = %q, want %q", got.ReporterName, r.ReporterName)
	}
}

func TestCreateIncidentDuplicateReference(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	a := IncidentReport{ReferenceNumber: "RD-2024-0001", ReporterName: "A", Urgency: UrgencyLow}
	if err := s.CreateIncident(ctx, &a); err != nil {
		t.Fatalf("CreateIncident: %v", err)
	}
	b := IncidentReport{ReferenceNumber: "RD-2024-0001", ReporterName: "B", Urgency: UrgencyLow}
	if err := s.CreateIncident(ctx, &b); !isUniqueViolation(err) {
		t.Errorf("err = %v, want unique violation", err)
	}
}

func TestListIncidentsFilter(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	reports := []IncidentReport{
		{ReporterName: "A", Urgency: UrgencyHigh},
		{ReporterName: "B", Urgency: UrgencyLow},
		{ReporterName: "C", Urgency: UrgencyHigh},
	}
	for i := range reports {
		if err := s.SubmitIncident(ctx, &reports[i]); err != nil {
			t.Fatalf("SubmitIncident: %v", err)
		}
	}
	if err := s.UpdateIncidentStatus(ctx, reports[0].ID, IncidentResolved, "Team dispatched"); err != nil {
		t.Fatalf("UpdateIncidentStatus: %v", err)
	}

	tests := []struct {
		filter IncidentFilter
		want   int
	}{
		{IncidentFilter{}, 3},
		{IncidentFilter{Urgency: UrgencyHigh}, 2},
		{IncidentFilter{Status: IncidentPending}, 2},
		{IncidentFilter{Status: IncidentPending, Urgency: UrgencyHigh}, 1},
	}
	for _, tt := range tests {
		got, err := s.ListIncidents(ctx, tt.filter)
		if err != nil {
			t.Fatalf("ListIncidents(%+v): %v", tt.filter, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListIncidents(%+v) = %d reports, want %d", tt.filter, len(got), tt.want)
		}
	}

	resolved, err := s.GetIncident(ctx, reports[0].ID)
	if err != nil {
		t.Fatalf("GetIncident: %v", err)
	}
	if resolved.AdminNotes != "Team dispatched" {
		t.Errorf("AdminNotes = %q, want %q", resolved.AdminNotes, "Team dispatched")
	}
}

func TestIncrementDownloads(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	r := Resource{Title: "Evacuation Plan", FileURL: "/public/files/plan.pdf", Status: StatusPublished}
	if err := s.CreateResource(ctx, &r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if err := s.IncrementDownloads(ctx, r.ID); err != nil {
		t.Fatalf("IncrementDownloads: %v", err)
	}
	got, err := s.GetResource(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if got.DownloadCount != 1 {
		t.Errorf("DownloadCount = %d, want 1", got.DownloadCount)
	}

	if err := s.IncrementDownloads(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGalleryFeaturedFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	plain := GalleryItem{Title: "Drill", Image: "/public/uploads/drill.webp", Status: StatusPublished}
	featured := GalleryItem{Title: "Rescue", Image: "/public/uploads/rescue.webp", Status: StatusPublished}
	for _, g := range []*GalleryItem{&plain, &featured} {
		if err := s.CreateGalleryItem(ctx, g); err != nil {
			t.Fatalf("CreateGalleryItem: %v", err)
		}
	}
	if err := s.SetGalleryFeatured(ctx, featured.ID, true); err != nil {
		t.Fatalf("SetGalleryFeatured: %v", err)
	}

	items, err := s.ListGallery(ctx, StatusPublished)
	if err != nil {
		t.Fatalf("ListGallery: %v", err)
	}
	if len(items) != 2 || items[0].ID != featured.ID {
		t.Fatalf("featured item should be listed first, got %+v", items)
	}
	if !items[0].Featured {
		t.Error("Featured flag not persisted")
	}
	if items[1].Featured {
		t.Error("featuring one item changed another")
	}

	if err := s.SetGalleryStatus(ctx, featured.ID, StatusDraft); err != nil {
		t.Fatalf("SetGalleryStatus: %v", err)
	}
	got, err := s.GetGalleryItem(ctx, plain.ID)
	if err != nil {
		t.Fatalf("GetGalleryItem: %v", err)
	}
	if got.Featured || got.Status != StatusPublished {
		t.Errorf("untouched item = featured %v, status %q; want false, %q", got.Featured, got.Status, StatusPublished)
	}
	got, _ = s.GetGalleryItem(ctx, featured.ID)
	if got.Status != StatusDraft || !got.Featured {
		t.Errorf("targeted item = featured %v, status %q; want true, %q", got.Featured, got.Status, StatusDraft)
	}
}

func TestSocialLinksActiveOnly(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	links := []SocialLink{
		{Platform: "Facebook", URL: "https://facebook.com/mdrrmo", Active: true},
		{Platform: "YouTube", URL: "https://youtube.com/@mdrrmo", Active: false},
	}
	for i := range links {
		if err := s.CreateSocialLink(ctx, &links[i]); err != nil {
			t.Fatalf("CreateSocialLink: %v", err)
		}
	}

	active, err := s.ListSocialLinks(ctx, true)
	if err != nil {
		t.Fatalf("ListSocialLinks: %v", err)
	}
	if len(active) != 1 || active[0].Platform != "Facebook" {
		t.Errorf("active links = %+v, want only Facebook", active)
	}
	all, _ := s.ListSocialLinks(ctx, false)
	if len(all) != 2 {
		t.Errorf("got %d links, want 2", len(all))
	}
}

func TestSaveAdminUserUpserts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	u := AdminUser{Email: " Admin@Example.gov.ph ", Name: "First", PasswordHash: "h1"}
	if err := s.SaveAdminUser(ctx, &u); err != nil {
		t.Fatalf("SaveAdminUser: %v", err)
	}
	again := AdminUser{Email: "admin@example.gov.ph", Name: "Second", PasswordHash: "h2"}
	if err := s.SaveAdminUser(ctx, &again); err != nil {
		t.Fatalf("SaveAdminUser again: %v", err)
	}
	if again.ID != u.ID {
		t.Errorf("ID = %q, want existing %q", again.ID, u.ID)
	}

	got, err := s.GetAdminUserByEmail(ctx, "ADMIN@example.gov.ph")
	if err != nil {
		t.Fatalf("GetAdminUserByEmail: %v", err)
	}
	if got.Name != "Second" || got.PasswordHash != "h2" {
		t.Errorf("got %+v, want updated name and hash", got)
	}
}

func TestCounts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := NewsItem{Title: "One", Status: StatusPublished, Date: "2024-01-01"}
	d := NewsItem{Title: "Two", Status: StatusDraft, Date: "2024-01-02"}
	s.CreateNews(ctx, &n)
	s.CreateNews(ctx, &d)
	r := IncidentReport{ReporterName: "X", Urgency: UrgencyLow}
	if err := s.SubmitIncident(ctx, &r); err != nil {
		t.Fatalf("SubmitIncident: %v", err)
	}
	res := Resource{Title: "Plan", FileURL: "/public/files/plan.pdf", Status: StatusPublished}
	s.CreateResource(ctx, &res)
	s.IncrementDownloads(ctx, res.ID)
	s.IncrementDownloads(ctx, res.ID)

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if c.News != 2 || c.PublishedNews != 1 {
		t.Errorf("news counts = %d/%d, want 2/1", c.News, c.PublishedNews)
	}
	if c.PendingIncidents != 1 {
		t.Errorf("PendingIncidents = %d, want 1", c.PendingIncidents)
	}
	if c.Downloads != 2 {
		t.Errorf("Downloads = %d, want 2", c.Downloads)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{",flood,typhoon,", []string{"flood", "typhoon"}},
		{"flood", []string{"flood"}},
		{"", nil},
		{",,", nil},
		{", a , b ,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		result := ParseTags(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, result, tt.expected)
			continue
		}
		for i := range result {
			if result[i] != tt.expected[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
			}
		}
	}
}

func TestJoinTags(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{[]string{"Flood", " Typhoon "}, ",flood,typhoon,"},
		{[]string{"", "  "}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := joinTags(tt.tags); got != tt.want {
			t.Errorf("joinTags(%v) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}
