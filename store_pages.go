package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const pageColumns = `id, slug, title, template, hero_title, hero_subtitle, hero_image, meta_description, status, created_at, updated_at`

const sectionColumns = `id, page_id, type, title, data, order_index`

func scanPage(row rowScanner) (Page, error) {
	var p Page
	var created, updated string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Template, &p.HeroTitle, &p.HeroSubtitle,
		&p.HeroImage, &p.MetaDescription, &p.Status, &created, &updated)
	if err != nil {
		return Page{}, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func scanSection(row rowScanner) (PageSection, error) {
	var sec PageSection
	var data string
	if err := row.Scan(&sec.ID, &sec.PageID, &sec.Type, &sec.Title, &data, &sec.OrderIndex); err != nil {
		return PageSection{}, err
	}
	if data == "" {
		data = "{}"
	}
	sec.Data = json.RawMessage(data)
	return sec, nil
}

// ListPages returns pages by slug without their sections. An empty status returns all.
func (s *Store) ListPages(ctx context.Context, status string) ([]Page, error) {
	q := `SELECT ` + pageColumns + ` FROM pages`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY slug`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPage returns a page with its ordered sections by id.
func (s *Store) GetPage(ctx context.Context, id string) (Page, error) {
	p, err := scanPage(s.queryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
	if err != nil {
		return Page{}, err
	}
	return s.withSections(ctx, p)
}

// GetPageBySlug returns a page with its ordered sections by slug, regardless of status.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	p, err := scanPage(s.queryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug))
	if err != nil {
		return Page{}, err
	}
	return s.withSections(ctx, p)
}

func (s *Store) withSections(ctx context.Context, p Page) (Page, error) {
	secs, err := s.ListSections(ctx, p.ID)
	if err != nil {
		return Page{}, fmt.Errorf("load sections of %s: %w", p.Slug, err)
	}
	p.Sections = secs
	return p, nil
}

// CreatePage inserts p. Sections on p are ignored; add them with CreateSection.
func (s *Store) CreatePage(ctx context.Context, p *Page) error {
	if p.ID == "" {
		p.ID = newID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.exec(ctx, `INSERT INTO pages (`+pageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, p.Template, p.HeroTitle, p.HeroSubtitle, p.HeroImage,
		p.MetaDescription, p.Status, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	return err
}

// UpdatePage overwrites the page row. Sections are not touched.
func (s *Store) UpdatePage(ctx context.Context, p Page) error {
	_, err := s.exec(ctx, `UPDATE pages SET slug = ?, title = ?, template = ?, hero_title = ?, hero_subtitle = ?, hero_image = ?, meta_description = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.Slug, p.Title, p.Template, p.HeroTitle, p.HeroSubtitle, p.HeroImage, p.MetaDescription,
		p.Status, formatTime(time.Now()), p.ID)
	return err
}

// DeletePage removes a page and its sections in one transaction.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM page_sections WHERE page_id = ?`), id); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM pages WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return tx.Commit()
}

// ListSections returns the sections of a page ordered by order_index.
func (s *Store) ListSections(ctx context.Context, pageID string) ([]PageSection, error) {
	rows, err := s.query(ctx, `SELECT `+sectionColumns+` FROM page_sections WHERE page_id = ? ORDER BY order_index, id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PageSection
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// GetSection returns one section by id.
func (s *Store) GetSection(ctx context.Context, id string) (PageSection, error) {
	return scanSection(s.queryRow(ctx, `SELECT `+sectionColumns+` FROM page_sections WHERE id = ?`, id))
}

// CreateSection appends sec to its page. A zero OrderIndex places it last.
func (s *Store) CreateSection(ctx context.Context, sec *PageSection) error {
	if sec.ID == "" {
		sec.ID = newID()
	}
	if sec.OrderIndex == 0 {
		next, err := s.count(ctx, `SELECT COALESCE(MAX(order_index), 0) + 1 FROM page_sections WHERE page_id = ?`, sec.PageID)
		if err != nil {
			return err
		}
		sec.OrderIndex = next
	}
	_, err := s.exec(ctx, `INSERT INTO page_sections (`+sectionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		sec.ID, sec.PageID, sec.Type, sec.Title, sectionData(sec.Data), sec.OrderIndex)
	return err
}

// UpdateSection overwrites type, title and data of a section.
func (s *Store) UpdateSection(ctx context.Context, sec PageSection) error {
	_, err := s.exec(ctx, `UPDATE page_sections SET type = ?, title = ?, data = ? WHERE id = ?`,
		sec.Type, sec.Title, sectionData(sec.Data), sec.ID)
	return err
}

// DeleteSection removes one section.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM page_sections WHERE id = ?`, id)
	return err
}

// MoveSection swaps a section with its neighbour. delta is -1 (up) or +1
// (down); moving past either end is a no-op.
func (s *Store) MoveSection(ctx context.Context, id string, delta int) error {
	sec, err := s.GetSection(ctx, id)
	if err != nil {
		return err
	}
	secs, err := s.ListSections(ctx, sec.PageID)
	if err != nil {
		return err
	}
	pos := -1
	for i := range secs {
		if secs[i].ID == id {
			pos = i
			break
		}
	}
	target := pos + delta
	if pos < 0 || target < 0 || target >= len(secs) {
		return nil
	}
	secs[pos], secs[target] = secs[target], secs[pos]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	// Renumber the whole page so duplicate or sparse indexes heal on first move.
	for i, item := range secs {
		if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE page_sections SET order_index = ? WHERE id = ?`), i+1, item.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func sectionData(data json.RawMessage) string {
	if len(data) == 0 {
		return "{}"
	}
	return string(data)
}
