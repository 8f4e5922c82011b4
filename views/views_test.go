package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

type testPage struct {
	Chrome
}

type testAdminPage struct {
	AdminChrome
	Email string
	Error string
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestHas(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"home", true},
		{"about", true},
		{"not_found", true},
		{"server_error", true},
		{"admin/dashboard", true},
		{"admin/login", true},
		{"partials", false},
		{"layout", false},
		{"admin/layout", false},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := Has(tt.name); got != tt.want {
			t.Errorf("Has(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPageWrapsContentInLayout(t *testing.T) {
	data := testPage{Chrome{
		Site:     Site{Name: "MDRRMO", Description: "Disaster office", OrgPhone: "(02) 123"},
		Meta:     Meta{Title: "About", URL: "https://example.gov.ph/about/", OGType: "website"},
		Nav:      "about",
		Hotlines: []Contact{{Name: "Fire", Number: "160"}},
		Social:   []Social{{Platform: "Facebook", URL: "https://facebook.com/mdrrmo"}},
		Year:     2026,
	}}
	out := render(t, Page("about", data))
	for _, want := range []string{
		"<title>About | MDRRMO</title>",
		`<a href="/about/" aria-current="page">About</a>`,
		"<h1>About MDRRMO</h1>",
		`<a href="tel:160">160</a>`,
		`href="https://facebook.com/mdrrmo"`,
		"&copy; 2026 MDRRMO. All rights reserved.",
		`<main id="main">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Page(about) missing %q", want)
		}
	}
}

func TestPageEscapesSiteName(t *testing.T) {
	data := testPage{Chrome{Site: Site{Name: `<script>x</script>`}}}
	out := render(t, Page("about", data))
	if strings.Contains(out, "<script>x</script>") {
		t.Error("site name was not escaped")
	}
}

func TestPageErrors(t *testing.T) {
	tests := []struct {
		name string
		page string
		data any
	}{
		{"unknown", "missing", testPage{}},
		{"admin page", "admin/login", testPage{}},
		{"no layout", "about", struct{ Site Site }{}},
	}
	for _, tt := range tests {
		var b strings.Builder
		if err := Page(tt.page, tt.data).Render(context.Background(), &b); err == nil {
			t.Errorf("%s: Page(%q) = nil error, want error", tt.name, tt.page)
		}
	}
}

func TestAdminPage(t *testing.T) {
	data := testAdminPage{
		AdminChrome: AdminChrome{Site: Site{Name: "MDRRMO"}, CSRF: "tok", Flash: "Saved."},
		Email:       "admin@example.gov.ph",
	}
	out := render(t, AdminPage("login", data))
	for _, want := range []string{
		"<title>Sign in | MDRRMO</title>",
		`<meta name="robots" content="noindex">`,
		`<p class="alert alert-info" role="status">Saved.</p>`,
		`value="admin@example.gov.ph"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("AdminPage(login) missing %q", want)
		}
	}
	if strings.Contains(out, "Sign out") {
		t.Error("admin navigation shown without a signed-in user")
	}

	data.User = "admin@example.gov.ph"
	data.Backend = "sqlite"
	out = render(t, AdminPage("login", data))
	if !strings.Contains(out, "Sign out") || !strings.Contains(out, `<span class="badge">sqlite</span>`) {
		t.Error("admin navigation missing for a signed-in user")
	}

	var b strings.Builder
	if err := AdminPage("login", testPage{}).Render(context.Background(), &b); err == nil {
		t.Error("AdminPage with public data = nil error, want error")
	}
}

func TestPartials(t *testing.T) {
	tests := []struct {
		name string
		c    templ.Component
		want []string
	}{
		{
			"delete button",
			DeleteButton("/admin/news/1/delete/", `a"b`),
			[]string{`action="/admin/news/1/delete/"`, `value="a&#34;b"`, ">Delete</button>"},
		},
		{
			"post button",
			PostButton("/admin/gallery/2/featured/", "tok", "featured", "1", "Feature"),
			[]string{`name="featured" value="1"`, ">Feature</button>"},
		},
		{
			"status select",
			StatusSelect("published", []string{"draft", "published"}),
			[]string{`<option value="draft">draft</option>`, `<option value="published" selected>published</option>`},
		},
		{
			"filters",
			Filters("category", "Flood", []string{"Flood", "Fire & Rescue"}),
			[]string{`class="pill" href="?">All</a>`, `class="pill pill-active" href="?category=Flood"`, `href="?category=Fire+%26+Rescue"`, ">Fire &amp; Rescue</a>"},
		},
	}
	for _, tt := range tests {
		out := render(t, tt.c)
		for _, want := range tt.want {
			if !strings.Contains(out, want) {
				t.Errorf("%s = %q, want it to contain %q", tt.name, out, want)
			}
		}
	}
}

func TestFiltersEmpty(t *testing.T) {
	if out := render(t, Filters("tag", "", nil)); out != "" {
		t.Errorf("Filters(no values) = %q, want %q", out, "")
	}
}

func TestPostButtonWithoutValue(t *testing.T) {
	out := render(t, PostButton("/admin/x/", "tok", "", "", "Go"))
	if strings.Contains(out, `name=""`) {
		t.Errorf("PostButton without name = %q, want no extra field", out)
	}
}
