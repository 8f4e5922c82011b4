package portal

import (
	"context"
	"strings"
)

// schemaStatements creates every table. {{key}} marks columns that are
// primary keys, unique or compared for ordering: MySQL cannot index TEXT
// without a prefix length, so they become VARCHAR there.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS news (
    id {{key}} PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    image TEXT NOT NULL,
    author TEXT NOT NULL,
    status {{key}} NOT NULL,
    date {{key}} NOT NULL,
    view_count INTEGER NOT NULL DEFAULT 0,
    created_at {{key}} NOT NULL,
    updated_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS services (
    id {{key}} PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    icon TEXT NOT NULL,
    tags TEXT NOT NULL,
    status {{key}} NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS incident_reports (
    id {{key}} PRIMARY KEY,
    reference_number {{key}} NOT NULL UNIQUE,
    reporter_name TEXT NOT NULL,
    contact_number TEXT NOT NULL,
    email TEXT NOT NULL,
    location TEXT NOT NULL,
    incident_type {{key}} NOT NULL,
    urgency {{key}} NOT NULL,
    description TEXT NOT NULL,
    status {{key}} NOT NULL,
    admin_notes TEXT NOT NULL,
    created_at {{key}} NOT NULL,
    updated_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS gallery (
    id {{key}} PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    image TEXT NOT NULL,
    category {{key}} NOT NULL,
    tags TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0,
    status {{key}} NOT NULL,
    created_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS pages (
    id {{key}} PRIMARY KEY,
    slug {{key}} NOT NULL UNIQUE,
    title TEXT NOT NULL,
    template {{key}} NOT NULL,
    hero_title TEXT NOT NULL,
    hero_subtitle TEXT NOT NULL,
    hero_image TEXT NOT NULL,
    meta_description TEXT NOT NULL,
    status {{key}} NOT NULL,
    created_at {{key}} NOT NULL,
    updated_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS page_sections (
    id {{key}} PRIMARY KEY,
    page_id {{key}} NOT NULL,
    type {{key}} NOT NULL,
    title TEXT NOT NULL,
    data TEXT NOT NULL,
    order_index INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS resources (
    id {{key}} PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    file_url TEXT NOT NULL,
    file_type {{key}} NOT NULL,
    file_size BIGINT NOT NULL DEFAULT 0,
    category {{key}} NOT NULL,
    tags TEXT NOT NULL,
    status {{key}} NOT NULL,
    download_count INTEGER NOT NULL DEFAULT 0,
    created_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS social_links (
    id {{key}} PRIMARY KEY,
    platform {{key}} NOT NULL,
    url TEXT NOT NULL,
    handle TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS hotlines (
    id {{key}} PRIMARY KEY,
    name TEXT NOT NULL,
    number TEXT NOT NULL,
    category {{key}} NOT NULL,
    description TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS images (
    filename {{key}} PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at {{key}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
    id {{key}} PRIMARY KEY,
    email {{key}} NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at {{key}} NOT NULL
)`,
}

func (s *Store) ddlReplacer() *strings.Replacer {
	key := "TEXT"
	if s.driver == DriverMySQL {
		key = "VARCHAR(191)"
	}
	return strings.NewReplacer("{{key}}", key)
}

// ensureSchema creates missing tables. Statements run one at a time because
// the MySQL driver rejects multi-statement Exec by default.
func (s *Store) ensureSchema(ctx context.Context) error {
	r := s.ddlReplacer()
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return err
		}
	}
	return nil
}

// Migrate re-runs the idempotent schema creation. Used by the CLI.
func (s *Store) Migrate(ctx context.Context) error {
	return s.ensureSchema(ctx)
}
