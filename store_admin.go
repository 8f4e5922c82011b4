package portal

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ListImages returns the media library, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.query(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// ImageExists reports whether filename is already recorded.
func (s *Store) ImageExists(ctx context.Context, filename string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM images WHERE filename = ?`, filename)
	return n > 0, err
}

// SaveImage records image metadata after the file has been written.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.exec(ctx, `INSERT INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.exec(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// GetAdminUserByEmail looks up an admin by case-insensitive email.
func (s *Store) GetAdminUserByEmail(ctx context.Context, email string) (AdminUser, error) {
	var u AdminUser
	var created string
	err := s.queryRow(ctx, `SELECT id, email, name, password_hash, created_at FROM admin_users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created)
	if err != nil {
		return AdminUser{}, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

// SaveAdminUser creates the admin or replaces name and password of an
// existing admin with the same email.
func (s *Store) SaveAdminUser(ctx context.Context, u *AdminUser) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	existing, err := s.GetAdminUserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		_, err = s.exec(ctx, `UPDATE admin_users SET name = ?, password_hash = ? WHERE id = ?`, u.Name, u.PasswordHash, u.ID)
		return err
	case !errors.Is(err, ErrNotFound):
		return err
	}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err = s.exec(ctx, `INSERT INTO admin_users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, formatTime(u.CreatedAt))
	return err
}

// DashboardCounts summarizes table sizes for the admin dashboard.
type DashboardCounts struct {
	News             int
	PublishedNews    int
	Services         int
	PendingIncidents int
	Incidents        int
	Gallery          int
	Resources        int
	Pages            int
	Downloads        int
}

// Counts gathers the dashboard numbers.
func (s *Store) Counts(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	queries := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&c.News, `SELECT COUNT(*) FROM news`, nil},
		{&c.PublishedNews, `SELECT COUNT(*) FROM news WHERE status = ?`, []any{StatusPublished}},
		{&c.Services, `SELECT COUNT(*) FROM services`, nil},
		{&c.PendingIncidents, `SELECT COUNT(*) FROM incident_reports WHERE status = ?`, []any{IncidentPending}},
		{&c.Incidents, `SELECT COUNT(*) FROM incident_reports`, nil},
		{&c.Gallery, `SELECT COUNT(*) FROM gallery`, nil},
		{&c.Resources, `SELECT COUNT(*) FROM resources`, nil},
		{&c.Pages, `SELECT COUNT(*) FROM pages`, nil},
		{&c.Downloads, `SELECT COALESCE(SUM(download_count), 0) FROM resources`, nil},
	}
	for _, q := range queries {
		n, err := s.count(ctx, q.query, q.args...)
		if err != nil {
			return DashboardCounts{}, err
		}
		*q.dst = n
	}
	return c, nil
}
