// Package views renders the public site and the admin panel. The layouts
// and shared partials are templ components; page bodies are html/template
// files that define a "content" block (plus an optional "head" or "title")
// and are wrapped in the layout as components.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
)

//go:embed all:templates
var templateFS embed.FS

// partialsFile holds the html/template partials shared by public pages.
const partialsFile = "partials.html"

var pages = mustParse()

func mustParse() map[string]*template.Template {
	out := make(map[string]*template.Template)
	public := template.Must(template.New(partialsFile).Funcs(Funcs).
		ParseFS(templateFS, path.Join("templates", partialsFile)))
	admin := template.New("admin").Funcs(Funcs)

	sets := []struct {
		dir    string
		prefix string
		base   *template.Template
	}{
		{"templates", "", public},
		{"templates/admin", "admin/", admin},
	}
	for _, set := range sets {
		entries, err := fs.ReadDir(templateFS, set.dir)
		if err != nil {
			panic(err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == partialsFile || !strings.HasSuffix(name, ".html") {
				continue
			}
			t := template.Must(template.Must(set.base.Clone()).ParseFS(templateFS, path.Join(set.dir, name)))
			if t.Lookup("content") == nil {
				panic(fmt.Sprintf("views: %s/%s defines no content block", set.dir, name))
			}
			out[set.prefix+strings.TrimSuffix(name, ".html")] = t
		}
	}
	return out
}

// Has reports whether a page template exists. Admin pages are named with
// an "admin/" prefix.
func Has(name string) bool {
	_, ok := pages[name]
	return ok
}

type publicData interface{ chrome() Chrome }

type adminData interface{ adminChrome() AdminChrome }

// Page renders the public page name inside Layout. data must embed Chrome.
func Page(name string, data any) templ.Component {
	t, ok := pages[name]
	if !ok || strings.HasPrefix(name, "admin/") {
		return failed(fmt.Errorf("views: unknown page %q", name))
	}
	d, ok := data.(publicData)
	if !ok {
		return failed(fmt.Errorf("views: page %q data %T carries no layout", name, data))
	}
	return Layout(d.chrome(), block(t, "head", data), block(t, "content", data))
}

// AdminPage renders the admin page name inside AdminLayout. data must
// embed AdminChrome.
func AdminPage(name string, data any) templ.Component {
	t, ok := pages["admin/"+name]
	if !ok {
		return failed(fmt.Errorf("views: unknown admin page %q", name))
	}
	d, ok := data.(adminData)
	if !ok {
		return failed(fmt.Errorf("views: admin page %q data %T carries no layout", name, data))
	}
	return AdminLayout(d.adminChrome(), block(t, "title", data), block(t, "content", data))
}

// block returns the named template of a page as a component, or nil when
// the page does not define it.
func block(t *template.Template, name string, data any) templ.Component {
	sub := t.Lookup(name)
	if sub == nil {
		return nil
	}
	return templ.FromGoHTML(sub, data)
}

func failed(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return err
	})
}
