package portal

import (
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"
)

// Slugify converts a title to a URL-safe slug. It returns "" when nothing
// usable remains.
func Slugify(s string) string {
	out, err := slug.Normalize(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return out
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags parses a comma-separated form field into tags.
func SplitTags(field string) []string {
	return FilterEmpty(strings.Split(field, ","))
}

func uniqueSorted(vals []string) []string {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v = normalizeTag(v); v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// HotlineGroup is a category heading with its numbers.
type HotlineGroup struct {
	Category string
	Hotlines []Hotline
}

// GroupHotlines groups hotlines by category, keeping first-seen category order.
func GroupHotlines(hotlines []Hotline) []HotlineGroup {
	var groups []HotlineGroup
	index := make(map[string]int)
	for _, h := range hotlines {
		cat := strings.TrimSpace(h.Category)
		if cat == "" {
			cat = "General"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, HotlineGroup{Category: cat})
		}
		groups[i].Hotlines = append(groups[i].Hotlines, h)
	}
	return groups
}

// ShareLink is a social share button target.
type ShareLink struct {
	Network string
	URL     string
}

// ShareLinks returns share URLs for an article on the networks residents use.
func ShareLinks(pageURL, title string) []ShareLink {
	u := url.QueryEscape(pageURL)
	t := url.QueryEscape(title)
	return []ShareLink{
		{Network: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Network: "X", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Network: "Messenger", URL: "https://www.facebook.com/dialog/send?link=" + u},
		{Network: "Email", URL: "mailto:?subject=" + t + "&body=" + u},
	}
}

// OrganizationJsonLD returns a JSON-LD GovernmentOrganization block.
func OrganizationJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "GovernmentOrganization",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.OrgPhone != "" {
		data["telephone"] = cfg.OrgPhone
	}
	if cfg.OrgEmail != "" {
		data["email"] = cfg.OrgEmail
	}
	if cfg.OrgAddress != "" {
		data["address"] = cfg.OrgAddress
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// NewsArticleJsonLD returns a JSON-LD NewsArticle block for a news item.
func NewsArticleJsonLD(n NewsItem, cfg SiteConfig) string {
	articleURL := BuildURL(cfg.URL, "news", n.ID)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "NewsArticle",
		"headline":      n.Title,
		"description":   n.Excerpt,
		"datePublished": n.Date,
		"url":           articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
		"publisher": map[string]string{
			"@type": "GovernmentOrganization",
			"name":  cfg.Name,
		},
	}
	if n.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  n.Author,
		}
	}
	if n.Image != "" {
		data["image"] = n.Image
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
