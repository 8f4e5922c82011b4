// Package markdown renders news and page content written in Markdown.
// Raw HTML in the source is escaped; GitHub-flavoured tables, strikethrough
// and autolinks are enabled.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// Render writes the HTML representation of md to w.
func Render(w io.Writer, md string) error {
	if err := engine.Convert([]byte(md), w); err != nil {
		return fmt.Errorf("markdown render: %w", err)
	}
	return nil
}

// HTML renders md for use inside html/template. Render failures yield an
// empty fragment.
func HTML(md string) template.HTML {
	var buf bytes.Buffer
	if err := Render(&buf, md); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, content)
	})
}
