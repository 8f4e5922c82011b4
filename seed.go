package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mdrrmo/portal/sections"
)

// SeedFile is the YAML document read by the seed command.
type SeedFile struct {
	Services []SeedService `yaml:"services"`
	Hotlines []SeedHotline `yaml:"hotlines"`
	Social   []SeedSocial  `yaml:"social"`
	Pages    []SeedPage    `yaml:"pages"`
}

type SeedService struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Tags        []string `yaml:"tags"`
	SortOrder   int      `yaml:"sort_order"`
	Inactive    bool     `yaml:"inactive"`
}

type SeedHotline struct {
	Name        string `yaml:"name"`
	Number      string `yaml:"number"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	SortOrder   int    `yaml:"sort_order"`
}

type SeedSocial struct {
	Platform  string `yaml:"platform"`
	URL       string `yaml:"url"`
	Handle    string `yaml:"handle"`
	SortOrder int    `yaml:"sort_order"`
	Hidden    bool   `yaml:"hidden"`
}

type SeedPage struct {
	Slug            string        `yaml:"slug"`
	Title           string        `yaml:"title"`
	Template        string        `yaml:"template"`
	HeroTitle       string        `yaml:"hero_title"`
	HeroSubtitle    string        `yaml:"hero_subtitle"`
	HeroImage       string        `yaml:"hero_image"`
	MetaDescription string        `yaml:"meta_description"`
	Draft           bool          `yaml:"draft"`
	Sections        []SeedSection `yaml:"sections"`
}

// SeedSection carries section data as plain YAML; it is converted to JSON
// and checked against the schema of its type.
type SeedSection struct {
	Type  string         `yaml:"type"`
	Title string         `yaml:"title"`
	Data  map[string]any `yaml:"data"`
}

// SeedResult counts what a seed run changed.
type SeedResult struct {
	Created int
	Updated int
}

func (r SeedResult) String() string {
	return fmt.Sprintf("%d created, %d updated", r.Created, r.Updated)
}

// ParseSeed decodes a seed document. Unknown keys are rejected so typos do
// not silently drop content.
func ParseSeed(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return SeedFile{}, fmt.Errorf("parse seed: %w", err)
	}
	return f, nil
}

// Seed upserts the records of f. Services match on title, hotlines on
// name and number, social links on platform and pages on slug. A seeded
// page replaces all sections of an existing page with the same slug.
func (s *Store) Seed(ctx context.Context, f SeedFile) (SeedResult, error) {
	var res SeedResult
	steps := []func(context.Context, SeedFile, *SeedResult) error{
		s.seedServices, s.seedHotlines, s.seedSocial, s.seedPages,
	}
	for _, step := range steps {
		if err := step(ctx, f, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Store) seedServices(ctx context.Context, f SeedFile, res *SeedResult) error {
	existing, err := s.ListServices(ctx, "")
	if err != nil {
		return err
	}
	byTitle := make(map[string]Service, len(existing))
	for _, sv := range existing {
		byTitle[strings.ToLower(sv.Title)] = sv
	}
	for _, in := range f.Services {
		sv := Service{
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			Icon:        in.Icon,
			Tags:        FilterEmpty(in.Tags),
			SortOrder:   in.SortOrder,
			Status:      ServiceActive,
		}
		if in.Inactive {
			sv.Status = ServiceInactive
		}
		if err := sv.Validate(); err != nil {
			return fmt.Errorf("service %q: %w", in.Title, err)
		}
		if old, ok := byTitle[strings.ToLower(sv.Title)]; ok {
			sv.ID = old.ID
			if err := s.UpdateService(ctx, sv); err != nil {
				return fmt.Errorf("update service %q: %w", sv.Title, err)
			}
			res.Updated++
			continue
		}
		if err := s.CreateService(ctx, &sv); err != nil {
			return fmt.Errorf("create service %q: %w", sv.Title, err)
		}
		res.Created++
	}
	return nil
}

func (s *Store) seedHotlines(ctx context.Context, f SeedFile, res *SeedResult) error {
	existing, err := s.ListHotlines(ctx)
	if err != nil {
		return err
	}
	key := func(name, number string) string {
		return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.TrimSpace(number)
	}
	byKey := make(map[string]Hotline, len(existing))
	for _, h := range existing {
		byKey[key(h.Name, h.Number)] = h
	}
	for _, in := range f.Hotlines {
		h := Hotline{
			Name:        strings.TrimSpace(in.Name),
			Number:      strings.TrimSpace(in.Number),
			Category:    in.Category,
			Description: in.Description,
			SortOrder:   in.SortOrder,
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("hotline %q: %w", in.Name, err)
		}
		if old, ok := byKey[key(h.Name, h.Number)]; ok {
			h.ID = old.ID
			if err := s.UpdateHotline(ctx, h); err != nil {
				return fmt.Errorf("update hotline %q: %w", h.Name, err)
			}
			res.Updated++
			continue
		}
		if err := s.CreateHotline(ctx, &h); err != nil {
			return fmt.Errorf("create hotline %q: %w", h.Name, err)
		}
		res.Created++
	}
	return nil
}

func (s *Store) seedSocial(ctx context.Context, f SeedFile, res *SeedResult) error {
	existing, err := s.ListSocialLinks(ctx, false)
	if err != nil {
		return err
	}
	byPlatform := make(map[string]SocialLink, len(existing))
	for _, l := range existing {
		byPlatform[strings.ToLower(l.Platform)] = l
	}
	for _, in := range f.Social {
		l := SocialLink{
			Platform:  strings.TrimSpace(in.Platform),
			URL:       strings.TrimSpace(in.URL),
			Handle:    in.Handle,
			SortOrder: in.SortOrder,
			Active:    !in.Hidden,
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("social link %q: %w", in.Platform, err)
		}
		if old, ok := byPlatform[strings.ToLower(l.Platform)]; ok {
			l.ID = old.ID
			if err := s.UpdateSocialLink(ctx, l); err != nil {
				return fmt.Errorf("update social link %q: %w", l.Platform, err)
			}
			res.Updated++
			continue
		}
		if err := s.CreateSocialLink(ctx, &l); err != nil {
			return fmt.Errorf("create social link %q: %w", l.Platform, err)
		}
		res.Created++
	}
	return nil
}

func (s *Store) seedPages(ctx context.Context, f SeedFile, res *SeedResult) error {
	for _, in := range f.Pages {
		p := Page{
			Slug:            strings.ToLower(strings.TrimSpace(in.Slug)),
			Title:           strings.TrimSpace(in.Title),
			Template:        in.Template,
			HeroTitle:       in.HeroTitle,
			HeroSubtitle:    in.HeroSubtitle,
			HeroImage:       in.HeroImage,
			MetaDescription: in.MetaDescription,
			Status:          StatusPublished,
		}
		if p.Slug == "" {
			p.Slug = Slugify(p.Title)
		}
		if in.Draft {
			p.Status = StatusDraft
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("page %q: %w", p.Slug, err)
		}
		secs, err := seedSections(in.Sections)
		if err != nil {
			return fmt.Errorf("page %q: %w", p.Slug, err)
		}

		old, err := s.GetPageBySlug(ctx, p.Slug)
		switch {
		case err == nil:
			p.ID = old.ID
			if err := s.UpdatePage(ctx, p); err != nil {
				return fmt.Errorf("update page %q: %w", p.Slug, err)
			}
			for _, sec := range old.Sections {
				if err := s.DeleteSection(ctx, sec.ID); err != nil {
					return fmt.Errorf("clear sections of %q: %w", p.Slug, err)
				}
			}
			res.Updated++
		case errors.Is(err, ErrNotFound):
			if err := s.CreatePage(ctx, &p); err != nil {
				return fmt.Errorf("create page %q: %w", p.Slug, err)
			}
			res.Created++
		default:
			return err
		}

		for i := range secs {
			secs[i].PageID = p.ID
			secs[i].OrderIndex = i + 1
			if err := s.CreateSection(ctx, &secs[i]); err != nil {
				return fmt.Errorf("create section %d of %q: %w", i+1, p.Slug, err)
			}
		}
	}
	return nil
}

func seedSections(in []SeedSection) ([]PageSection, error) {
	out := make([]PageSection, 0, len(in))
	for i, sec := range in {
		data := sec.Data
		if data == nil {
			data = map[string]any{}
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
		if err := sections.Validate(sec.Type, raw); err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
		out = append(out, PageSection{Type: sec.Type, Title: sec.Title, Data: raw})
	}
	return out, nil
}
