package portal

import "context"

// Social links and hotlines: the office's contact directory shown in the
// footer and on the hotlines page.

const socialColumns = `id, platform, url, handle, active, sort_order`

func scanSocial(row rowScanner) (SocialLink, error) {
	var l SocialLink
	var active int
	if err := row.Scan(&l.ID, &l.Platform, &l.URL, &l.Handle, &active, &l.SortOrder); err != nil {
		return SocialLink{}, err
	}
	l.Active = active == 1
	return l, nil
}

// ListSocialLinks returns social links by sort order. activeOnly hides disabled links.
func (s *Store) ListSocialLinks(ctx context.Context, activeOnly bool) ([]SocialLink, error) {
	q := `SELECT ` + socialColumns + ` FROM social_links`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY sort_order, platform`
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SocialLink
	for rows.Next() {
		l, err := scanSocial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetSocialLink returns a social link by id.
func (s *Store) GetSocialLink(ctx context.Context, id string) (SocialLink, error) {
	return scanSocial(s.queryRow(ctx, `SELECT `+socialColumns+` FROM social_links WHERE id = ?`, id))
}

// CreateSocialLink inserts l, assigning an id when missing.
func (s *Store) CreateSocialLink(ctx context.Context, l *SocialLink) error {
	if l.ID == "" {
		l.ID = newID()
	}
	_, err := s.exec(ctx, `INSERT INTO social_links (`+socialColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.Platform, l.URL, l.Handle, boolInt(l.Active), l.SortOrder)
	return err
}

// UpdateSocialLink overwrites every field of l.
func (s *Store) UpdateSocialLink(ctx context.Context, l SocialLink) error {
	_, err := s.exec(ctx, `UPDATE social_links SET platform = ?, url = ?, handle = ?, active = ?, sort_order = ? WHERE id = ?`,
		l.Platform, l.URL, l.Handle, boolInt(l.Active), l.SortOrder, l.ID)
	return err
}

// DeleteSocialLink removes a social link by id.
func (s *Store) DeleteSocialLink(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM social_links WHERE id = ?`, id)
	return err
}

const hotlineColumns = `id, name, number, category, description, sort_order`

func scanHotline(row rowScanner) (Hotline, error) {
	var h Hotline
	if err := row.Scan(&h.ID, &h.Name, &h.Number, &h.Category, &h.Description, &h.SortOrder); err != nil {
		return Hotline{}, err
	}
	return h, nil
}

// ListHotlines returns hotlines grouped by category then sort order.
func (s *Store) ListHotlines(ctx context.Context) ([]Hotline, error) {
	rows, err := s.query(ctx, `SELECT `+hotlineColumns+` FROM hotlines ORDER BY category, sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hotline
	for rows.Next() {
		h, err := scanHotline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetHotline returns a hotline by id.
func (s *Store) GetHotline(ctx context.Context, id string) (Hotline, error) {
	return scanHotline(s.queryRow(ctx, `SELECT `+hotlineColumns+` FROM hotlines WHERE id = ?`, id))
}

// CreateHotline inserts h, assigning an id when missing.
func (s *Store) CreateHotline(ctx context.Context, h *Hotline) error {
	if h.ID == "" {
		h.ID = newID()
	}
	_, err := s.exec(ctx, `INSERT INTO hotlines (`+hotlineColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Number, h.Category, h.Description, h.SortOrder)
	return err
}

// UpdateHotline overwrites every field of h.
func (s *Store) UpdateHotline(ctx context.Context, h Hotline) error {
	_, err := s.exec(ctx, `UPDATE hotlines SET name = ?, number = ?, category = ?, description = ?, sort_order = ? WHERE id = ?`,
		h.Name, h.Number, h.Category, h.Description, h.SortOrder, h.ID)
	return err
}

// DeleteHotline removes a hotline by id.
func (s *Store) DeleteHotline(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM hotlines WHERE id = ?`, id)
	return err
}
