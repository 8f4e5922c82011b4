package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mdrrmo/portal/markdown"
)

// Funcs are the template helpers available to every view.
var Funcs = template.FuncMap{
	"markdown":     markdown.HTML,
	"bytes":        HumanBytes,
	"comma":        Comma,
	"ago":          humanize.Time,
	"date":         FormatDate,
	"datetime":     FormatDateTime,
	"join":         JoinTags,
	"pathEscape":   url.PathEscape,
	"queryEscape":  url.QueryEscape,
	"jsonld":       JSONLD,
	"prettyJSON":   PrettyJSON,
	"tagClass":     TagClass,
	"statusClass":  StatusClass,
	"urgencyClass": UrgencyClass,
	"add":          func(a, b int) int { return a + b },
	"truncate":     Truncate,
	"list":         func(vals ...string) []string { return vals },

	"filters": func(key, active string, values []string) (template.HTML, error) {
		return inline(Filters(key, active, values))
	},
	"deleteButton": func(action, csrf string) (template.HTML, error) {
		return inline(DeleteButton(action, csrf))
	},
	"postButton": func(action, csrf, name, value, label string) (template.HTML, error) {
		return inline(PostButton(action, csrf, name, value, label))
	},
	"statusSelect": func(current string, options []string) (template.HTML, error) {
		return inline(StatusSelect(current, options))
	},
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

// HumanBytes formats a byte count such as 1.2 MB. Non-positive sizes are "".
func HumanBytes(v any) string {
	n := toInt64(v)
	if n <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(n))
}

// Comma formats an integer with thousands separators.
func Comma(v any) string {
	return humanize.Comma(toInt64(v))
}

// FormatDate renders a YYYY-MM-DD date as "January 2, 2006". Unparseable
// input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatDateTime renders a timestamp in the office's reading format.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// JSONLD marks an already-marshalled JSON-LD document as safe script content.
func JSONLD(doc string) template.JS {
	return template.JS(doc)
}

// PrettyJSON indents raw JSON for editing. Invalid input is returned as is.
func PrettyJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(b)
}

// TagClass returns CSS classes for a filter pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "pill pill-active"
	}
	return "pill"
}

// StatusClass maps a record status to a badge class.
func StatusClass(status string) string {
	switch status {
	case "published", "active", "resolved":
		return "badge badge-green"
	case "in-progress":
		return "badge badge-blue"
	case "pending":
		return "badge badge-amber"
	default:
		return "badge"
	}
}

// UrgencyClass maps incident urgency to a badge class.
func UrgencyClass(urgency string) string {
	switch urgency {
	case "HIGH":
		return "badge badge-red"
	case "MEDIUM":
		return "badge badge-amber"
	default:
		return "badge badge-green"
	}
}

// Truncate shortens s to at most n runes, adding an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
