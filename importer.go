package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
)

// newsNamespace derives stable ids for imported articles so importing the
// same directory twice updates instead of duplicating.
var newsNamespace = uuid.MustParse("8f6c2a4e-5d1b-4f0a-9a7e-3c2b1d0e4f56")

// newsFrontMatter is the YAML header of an imported article.
type newsFrontMatter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Excerpt string `yaml:"excerpt"`
	Author  string `yaml:"author"`
	Date    string `yaml:"date"`
	Status  string `yaml:"status"`
	Image   string `yaml:"image"`
	Draft   bool   `yaml:"draft"`
}

// ImportResult summarizes an import run. Failed files do not stop the run.
type ImportResult struct {
	Created int
	Updated int
	Errors  []error
}

// ParseNewsDocument turns a markdown file with YAML frontmatter into a news
// item. name is the file path, used for the fallback title and stable id.
func ParseNewsDocument(name string, source []byte) (NewsItem, error) {
	var meta newsFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return NewsItem{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	n := NewsItem{
		ID:      strings.TrimSpace(meta.ID),
		Title:   strings.TrimSpace(meta.Title),
		Excerpt: strings.TrimSpace(meta.Excerpt),
		Author:  strings.TrimSpace(meta.Author),
		Image:   strings.TrimSpace(meta.Image),
		Content: strings.TrimSpace(string(body)),
		Status:  strings.ToLower(strings.TrimSpace(meta.Status)),
	}
	if n.ID == "" {
		n.ID = uuid.NewSHA1(newsNamespace, []byte(base)).String()
	}
	if n.Title == "" {
		n.Title = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(base))
	}
	if n.Status == "" {
		n.Status = StatusPublished
	}
	if meta.Draft {
		n.Status = StatusDraft
	}
	if n.Date, err = normalizeDate(meta.Date); err != nil {
		return NewsItem{}, err
	}
	if n.Excerpt == "" {
		n.Excerpt = firstParagraph(n.Content, 280)
	}
	if err := n.Validate(); err != nil {
		return NewsItem{}, err
	}
	return n, nil
}

// normalizeDate accepts YYYY-MM-DD or RFC 3339 and returns YYYY-MM-DD.
// An empty date is today.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05 -0700 MST"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("date %q: use YYYY-MM-DD", s)
}

// firstParagraph returns the first non-heading paragraph of markdown,
// truncated to max runes.
func firstParagraph(md string, max int) string {
	for _, para := range strings.Split(md, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") || strings.HasPrefix(para, "!") {
			continue
		}
		para = strings.Join(strings.Fields(para), " ")
		if r := []rune(para); len(r) > max {
			return strings.TrimSpace(string(r[:max])) + "…"
		}
		return para
	}
	return ""
}

// ImportNews imports every .md file in fsys. Existing articles with the
// same id are overwritten; view counts are kept.
func (s *Store) ImportNews(ctx context.Context, fsys fs.FS) (ImportResult, error) {
	var res ImportResult
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".md") {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	sort.Strings(names)

	for _, name := range names {
		source, err := fs.ReadFile(fsys, name)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", name, err))
			continue
		}
		n, err := ParseNewsDocument(name, source)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", name, err))
			continue
		}
		_, err = s.GetNews(ctx, n.ID)
		switch {
		case err == nil:
			if err := s.UpdateNews(ctx, n); err != nil {
				return res, fmt.Errorf("%s: %w", name, err)
			}
			res.Updated++
		case errors.Is(err, ErrNotFound):
			if err := s.CreateNews(ctx, &n); err != nil {
				return res, fmt.Errorf("%s: %w", name, err)
			}
			res.Created++
		default:
			return res, err
		}
	}
	return res, nil
}
