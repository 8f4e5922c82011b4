package portal

import (
	"context"
	"time"
)

const resourceColumns = `id, title, description, file_url, file_type, file_size, category, tags, status, download_count, created_at`

func scanResource(row rowScanner) (Resource, error) {
	var r Resource
	var tags, created string
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.FileURL, &r.FileType, &r.FileSize,
		&r.Category, &tags, &r.Status, &r.DownloadCount, &created)
	if err != nil {
		return Resource{}, err
	}
	r.Tags = ParseTags(tags)
	r.CreatedAt = parseTime(created)
	return r, nil
}

// ListResources returns resources newest first. An empty status returns all.
func (s *Store) ListResources(ctx context.Context, status string) ([]Resource, error) {
	q := `SELECT ` + resourceColumns + ` FROM resources`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetResource returns a resource by id.
func (s *Store) GetResource(ctx context.Context, id string) (Resource, error) {
	return scanResource(s.queryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
}

// CreateResource inserts r, assigning an id and timestamp when missing.
func (s *Store) CreateResource(ctx context.Context, r *Resource) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec(ctx, `INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Description, r.FileURL, r.FileType, r.FileSize, r.Category,
		joinTags(r.Tags), r.Status, r.DownloadCount, formatTime(r.CreatedAt))
	return err
}

// UpdateResource overwrites the editable fields of r. The download counter is left untouched.
func (s *Store) UpdateResource(ctx context.Context, r Resource) error {
	_, err := s.exec(ctx, `UPDATE resources SET title = ?, description = ?, file_url = ?, file_type = ?, file_size = ?, category = ?, tags = ?, status = ? WHERE id = ?`,
		r.Title, r.Description, r.FileURL, r.FileType, r.FileSize, r.Category, joinTags(r.Tags), r.Status, r.ID)
	return err
}

// DeleteResource removes a resource by id.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM resources WHERE id = ?`, id)
	return err
}

// IncrementDownloads bumps the download counter in a single statement so
// concurrent downloads are not lost.
func (s *Store) IncrementDownloads(ctx context.Context, id string) error {
	return requireRow(s.exec(ctx, `UPDATE resources SET download_count = download_count + 1 WHERE id = ?`, id))
}
