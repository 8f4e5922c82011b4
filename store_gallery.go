package portal

import (
	"context"
	"time"
)

const galleryColumns = `id, title, description, image, category, tags, featured, status, created_at`

func scanGallery(row rowScanner) (GalleryItem, error) {
	var g GalleryItem
	var tags, created string
	var featured int
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Image, &g.Category, &tags, &featured, &g.Status, &created); err != nil {
		return GalleryItem{}, err
	}
	g.Tags = ParseTags(tags)
	g.Featured = featured == 1
	g.CreatedAt = parseTime(created)
	return g, nil
}

// ListGallery returns gallery items, featured first then newest. An empty
// status returns every item.
func (s *Store) ListGallery(ctx context.Context, status string) ([]GalleryItem, error) {
	q := `SELECT ` + galleryColumns + ` FROM gallery`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY featured DESC, created_at DESC`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GalleryItem
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGalleryItem returns a gallery item by id.
func (s *Store) GetGalleryItem(ctx context.Context, id string) (GalleryItem, error) {
	return scanGallery(s.queryRow(ctx, `SELECT `+galleryColumns+` FROM gallery WHERE id = ?`, id))
}

// CreateGalleryItem inserts g, assigning an id and timestamp when missing.
func (s *Store) CreateGalleryItem(ctx context.Context, g *GalleryItem) error {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec(ctx, `INSERT INTO gallery (`+galleryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, g.Image, g.Category, joinTags(g.Tags), boolInt(g.Featured), g.Status, formatTime(g.CreatedAt))
	return err
}

// UpdateGalleryItem overwrites the editable fields of g.
func (s *Store) UpdateGalleryItem(ctx context.Context, g GalleryItem) error {
	_, err := s.exec(ctx, `UPDATE gallery SET title = ?, description = ?, image = ?, category = ?, tags = ?, featured = ?, status = ? WHERE id = ?`,
		g.Title, g.Description, g.Image, g.Category, joinTags(g.Tags), boolInt(g.Featured), g.Status, g.ID)
	return err
}

// SetGalleryFeatured flips the featured flag of one item.
func (s *Store) SetGalleryFeatured(ctx context.Context, id string, featured bool) error {
	_, err := s.exec(ctx, `UPDATE gallery SET featured = ? WHERE id = ?`, boolInt(featured), id)
	return err
}

// SetGalleryStatus publishes or hides one item.
func (s *Store) SetGalleryStatus(ctx context.Context, id, status string) error {
	_, err := s.exec(ctx, `UPDATE gallery SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteGalleryItem removes a gallery item by id.
func (s *Store) DeleteGalleryItem(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM gallery WHERE id = ?`, id)
	return err
}
