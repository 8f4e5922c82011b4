package portal

import (
	"context"
	"time"
)

const incidentColumns = `id, reference_number, reporter_name, contact_number, email, location, incident_type, urgency, description, status, admin_notes, created_at, updated_at`

func scanIncident(row rowScanner) (IncidentReport, error) {
	var r IncidentReport
	var created, updated string
	err := row.Scan(&r.ID, &r.ReferenceNumber, &r.ReporterName, &r.ContactNumber, &r.Email,
		&r.Location, &r.IncidentType, &r.Urgency, &r.Description, &r.Status, &r.AdminNotes,
		&created, &updated)
	if err != nil {
		return IncidentReport{}, err
	}
	r.CreatedAt = parseTime(created)
	r.UpdatedAt = parseTime(updated)
	return r, nil
}

// IncidentFilter narrows the admin incident list. Empty fields match everything.
type IncidentFilter struct {
	Status  string
	Urgency string
}

// ListIncidents returns reports newest first.
func (s *Store) ListIncidents(ctx context.Context, f IncidentFilter) ([]IncidentReport, error) {
	q := `SELECT ` + incidentColumns + ` FROM incident_reports WHERE 1 = 1`
	var args []any
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Urgency != "" {
		q += ` AND urgency = ?`
		args = append(args, f.Urgency)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IncidentReport
	for rows.Next() {
		r, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetIncident returns a report by id.
func (s *Store) GetIncident(ctx context.Context, id string) (IncidentReport, error) {
	return scanIncident(s.queryRow(ctx, `SELECT `+incidentColumns+` FROM incident_reports WHERE id = ?`, id))
}

// GetIncidentByReference returns a report by its public reference number.
func (s *Store) GetIncidentByReference(ctx context.Context, ref string) (IncidentReport, error) {
	return scanIncident(s.queryRow(ctx, `SELECT `+incidentColumns+` FROM incident_reports WHERE reference_number = ?`, ref))
}

// CreateIncident inserts r. The reference number must already be set; a
// duplicate reference fails with a unique violation.
func (s *Store) CreateIncident(ctx context.Context, r *IncidentReport) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = IncidentPending
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	_, err := s.exec(ctx, `INSERT INTO incident_reports (`+incidentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReferenceNumber, r.ReporterName, r.ContactNumber, r.Email, r.Location,
		r.IncidentType, r.Urgency, r.Description, r.Status, r.AdminNotes,
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	return err
}

// UpdateIncidentStatus records triage progress on one report.
func (s *Store) UpdateIncidentStatus(ctx context.Context, id, status, notes string) error {
	_, err := s.exec(ctx, `UPDATE incident_reports SET status = ?, admin_notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, formatTime(time.Now()), id)
	return err
}

// DeleteIncident removes a report by id.
func (s *Store) DeleteIncident(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `DELETE FROM incident_reports WHERE id = ?`, id)
	return err
}

// CountIncidents returns the number of reports with status, or all when empty.
func (s *Store) CountIncidents(ctx context.Context, status string) (int, error) {
	if status == "" {
		return s.count(ctx, `SELECT COUNT(*) FROM incident_reports`)
	}
	return s.count(ctx, `SELECT COUNT(*) FROM incident_reports WHERE status = ?`, status)
}
