package portal

import (
	"context"
	"time"
)

const newsColumns = `id, title, excerpt, content, image, author, status, date, view_count, created_at, updated_at`

func scanNews(row rowScanner) (NewsItem, error) {
	var n NewsItem
	var created, updated string
	err := row.Scan(&n.ID, &n.Title, &n.Excerpt, &n.Content, &n.Image, &n.Author,
		&n.Status, &n.Date, &n.ViewCount, &created, &updated)
	if err != nil {
		return NewsItem{}, err
	}
	n.CreatedAt = parseTime(created)
	n.UpdatedAt = parseTime(updated)
	return n, nil
}

// ListNews returns news ordered by date descending. An empty status returns
// every item (admin view); otherwise only items with that status.
func (s *Store) ListNews(ctx context.Context, status string) ([]NewsItem, error) {
	q := `SELECT ` + newsColumns + ` FROM news`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY date DESC, created_at DESC`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NewsItem
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNews returns a news item by id regardless of status.
func (s *Store) GetNews(ctx context.Context, id string) (NewsItem, error) {
	return scanNews(s.queryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id))
}

// CreateNews inserts n, assigning an id and timestamps when missing.
func (s *Store) CreateNews(ctx context.Context, n *NewsItem) error {
	if n.ID == "" {
		n.ID = newID()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	if n.Date == "" {
		n.Date = now.Format("2006-01-02")
	}
	_, err := s.exec(ctx, `INSERT INTO news (`+newsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Excerpt, n.Content, n.Image, n.Author, n.Status, n.Date, n.ViewCount,
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	return err
}

// UpdateNews overwrites the editable fields of n. The view counter is left untouched.
func (s *Store) UpdateNews(ctx context.Context, n NewsItem) error {
	_, err := s.exec(ctx, `UPDATE news SET title = ?, excerpt = ?, content = ?, image = ?, author = ?, status = ?, date = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Excerpt, n.Content, n.Image, n.Author, n.Status, n.Date, formatTime(time.Now()), n.ID)
	return err
}

// SetNewsStatus publishes or unpublishes a single item.
func (s *Store) SetNewsStatus(ctx context.Context, id, status string) error {
	_, err := s.exec(ctx, `UPDATE news SET status = ?, updated_at = ? WHERE id = ?`, status, formatTime(time.Now()), id)
	return err
}

// DeleteNews removes a news item by id.
func (s *Store) DeleteNews(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM news WHERE id = ?`, id)
	return err
}

// IncrementNewsViews bumps the view counter in a single statement.
func (s *Store) IncrementNewsViews(ctx context.Context, id string) error {
	return requireRow(s.exec(ctx, `UPDATE news SET view_count = view_count + 1 WHERE id = ?`, id))
}
