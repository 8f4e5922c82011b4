package views

import (
	"context"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

func csrfField(token string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<input type="hidden" name="_csrf" value="`)
		h.text(token)
		h.raw(`">`)
		return h.err
	})
}

// DeleteButton is a one-button form that posts to action after a confirm.
func DeleteButton(action, csrf string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form method="post" action="`)
		h.url(action)
		h.raw(`" class="inline" onsubmit="return confirm('Delete this item? This cannot be undone.')">`)
		h.component(ctx, csrfField(csrf))
		h.raw(`<button class="btn btn-small btn-danger" type="submit">Delete</button></form>`)
		return h.err
	})
}

// PostButton is a one-button form. When name is set the form also posts
// name=value.
func PostButton(action, csrf, name, value, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form method="post" action="`)
		h.url(action)
		h.raw(`" class="inline">`)
		h.component(ctx, csrfField(csrf))
		if name != "" {
			h.raw(`<input type="hidden" name="`)
			h.text(name)
			h.raw(`" value="`)
			h.text(value)
			h.raw(`">`)
		}
		h.raw(`<button class="btn btn-small" type="submit">`)
		h.text(label)
		h.raw(`</button></form>`)
		return h.err
	})
}

// StatusSelect is the status dropdown of admin forms.
func StatusSelect(current string, options []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<select name="status">`)
		for _, opt := range options {
			h.raw(`<option value="`)
			h.text(opt)
			h.raw(`"`)
			if opt == current {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(opt)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		return h.err
	})
}

// Filters renders the filter pills of a public listing. key is the query
// parameter each pill sets.
func Filters(key, active string, values []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(values) == 0 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<nav class="filters" aria-label="Filter"><a class="`, TagClass(active == ""), `" href="?">All</a>`)
		for _, v := range values {
			h.raw(`<a class="`, TagClass(v == active), `" href="`)
			h.url("?" + url.QueryEscape(key) + "=" + url.QueryEscape(v))
			h.raw(`">`)
			h.text(v)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// inline renders a component for use inside an html/template page.
func inline(c templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), c)
}
