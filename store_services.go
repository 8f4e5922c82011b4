package portal

import "context"

const serviceColumns = `id, title, description, icon, tags, status, sort_order`

func scanService(row rowScanner) (Service, error) {
	var sv Service
	var tags string
	if err := row.Scan(&sv.ID, &sv.Title, &sv.Description, &sv.Icon, &tags, &sv.Status, &sv.SortOrder); err != nil {
		return Service{}, err
	}
	sv.Tags = ParseTags(tags)
	return sv, nil
}

// ListServices returns services by sort order. An empty status returns all.
func (s *Store) ListServices(ctx context.Context, status string) ([]Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY sort_order, title`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

// GetService returns a service by id.
func (s *Store) GetService(ctx context.Context, id string) (Service, error) {
	return scanService(s.queryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id))
}

// CreateService inserts sv, assigning an id when missing.
func (s *Store) CreateService(ctx context.Context, sv *Service) error {
	if sv.ID == "" {
		sv.ID = newID()
	}
	_, err := s.exec(ctx, `INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sv.ID, sv.Title, sv.Description, sv.Icon, joinTags(sv.Tags), sv.Status, sv.SortOrder)
	return err
}

// UpdateService overwrites every field of sv.
func (s *Store) UpdateService(ctx context.Context, sv Service) error {
	_, err := s.exec(ctx, `UPDATE services SET title = ?, description = ?, icon = ?, tags = ?, status = ?, sort_order = ? WHERE id = ?`,
		sv.Title, sv.Description, sv.Icon, joinTags(sv.Tags), sv.Status, sv.SortOrder, sv.ID)
	return err
}

// SetServiceStatus activates or deactivates a single service.
func (s *Store) SetServiceStatus(ctx context.Context, id, status string) error {
	_, err := s.exec(ctx, `UPDATE services SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteService removes a service by id.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM services WHERE id = ?`, id)
	return err
}
