// Package sections renders the typed content blocks that make up CMS pages.
//
// Each section stores a JSON object whose shape depends on its type. Render
// dispatches on the type to a fixed template; unknown types and data that
// does not fit the type's shape produce no output and an error the caller
// can log.
package sections

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/mdrrmo/portal/markdown"
)

// Section types.
const (
	TypeHero      = "hero"
	TypeContent   = "content"
	TypeCards     = "cards"
	TypeStats     = "stats"
	TypeGrid      = "grid"
	TypeAccordion = "accordion"
)

// Types lists every renderable section type in the order offered to editors.
var Types = []string{TypeHero, TypeContent, TypeCards, TypeStats, TypeGrid, TypeAccordion}

// ErrUnknownType is returned for a section type with no template.
var ErrUnknownType = errors.New("sections: unknown section type")

// Hero is a banner with an optional call to action.
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	CTALabel string `json:"cta_label"`
	CTAURL   string `json:"cta_url"`
}

// Content is a heading and a markdown body.
type Content struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Card is one entry of a Cards section.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	URL         string `json:"url"`
}

// Cards is a row of linked cards.
type Cards struct {
	Heading string `json:"heading"`
	Items   []Card `json:"items"`
}

// StatValue accepts either a JSON string ("1,200+") or a number.
type StatValue string

func (v *StatValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = StatValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("stat value: %w", err)
	}
	*v = StatValue(n.String())
	return nil
}

// Stat is a labelled figure.
type Stat struct {
	Label string    `json:"label"`
	Value StatValue `json:"value"`
}

// Stats is a band of key figures.
type Stats struct {
	Heading string `json:"heading"`
	Items   []Stat `json:"items"`
}

// GridItem is one tile of a Grid section.
type GridItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Grid lays items out in a fixed number of columns.
type Grid struct {
	Heading string     `json:"heading"`
	Columns int        `json:"columns"`
	Items   []GridItem `json:"items"`
}

// ColumnClass returns the CSS class for the grid width, defaulting to 3.
func (g Grid) ColumnClass() string {
	cols := g.Columns
	if cols < 1 || cols > 6 {
		cols = 3
	}
	return "grid-cols-" + strconv.Itoa(cols)
}

// AccordionItem is one collapsible entry. Content is markdown.
type AccordionItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Accordion is a list of collapsible questions or topics.
type Accordion struct {
	Heading string          `json:"heading"`
	Items   []AccordionItem `json:"items"`
}

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("sections").Funcs(template.FuncMap{
	"markdown": markdown.HTML,
	"orTitle": func(heading, title string) string {
		if strings.TrimSpace(heading) != "" {
			return heading
		}
		return title
	},
}).ParseFS(templateFS, "templates/*.html"))

type view struct {
	Title string
	Data  any
}

// Decode parses data into the struct for typ.
func Decode(typ string, data json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("{}")
	}
	var target any
	switch typ {
	case TypeHero:
		target = &Hero{}
	case TypeContent:
		target = &Content{}
	case TypeCards:
		target = &Cards{}
	case TypeStats:
		target = &Stats{}
	case TypeGrid:
		target = &Grid{}
	case TypeAccordion:
		target = &Accordion{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("decode %s section: %w", typ, err)
	}
	return target, nil
}

// Render returns the HTML for one section. title is the section's own title,
// used when the data carries no heading. On any error the fragment is empty.
func Render(typ, title string, data json.RawMessage) (template.HTML, error) {
	decoded, err := Decode(typ, data)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, typ, view{Title: title, Data: decoded}); err != nil {
		return "", fmt.Errorf("render %s section: %w", typ, err)
	}
	return template.HTML(buf.String()), nil
}
