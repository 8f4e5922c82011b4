package portal

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mdrrmo/portal/views"
)

// SiteConfig holds all configuration for the portal.
type SiteConfig struct {
	Name        string // Office name (default "MDRRMO")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Tagline     string // Home hero subtitle when no "home" page exists

	OrgAddress string
	OrgPhone   string
	OrgEmail   string

	Addr      string // Listen address (default ":3000")
	StaticDir string // Static assets and uploads (default "public")

	DatabaseDriver string // Active backend at startup: postgres, mysql or sqlite (default sqlite)
	SupabaseDBURL  string // Postgres connection string of the Supabase project
	MySQLDSN       string // Alternate MySQL backend
	SQLitePath     string // Local backend (default "data/portal.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	LogLevel string        // debug, info, warn, error (default info)
	CacheTTL time.Duration // Published content cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "MDRRMO"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Municipal Disaster Risk Reduction and Management Office"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverSQLite
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/portal.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// Backends returns the DSN of every configured backend keyed by driver.
// The sqlite backend is always available.
func (c SiteConfig) Backends() map[string]string {
	out := map[string]string{DriverSQLite: c.SQLitePath}
	if c.SupabaseDBURL != "" {
		out[DriverPostgres] = c.SupabaseDBURL
	}
	if c.MySQLDSN != "" {
		out[DriverMySQL] = c.MySQLDSN
	}
	return out
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()

	cfg := SiteConfig{
		Name:           os.Getenv("SITE_NAME"),
		URL:            strings.TrimRight(os.Getenv("SITE_URL"), "/"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Tagline:        os.Getenv("SITE_TAGLINE"),
		OrgAddress:     os.Getenv("ORG_ADDRESS"),
		OrgPhone:       os.Getenv("ORG_PHONE"),
		OrgEmail:       os.Getenv("ORG_EMAIL"),
		Addr:           os.Getenv("SITE_ADDR"),
		StaticDir:      os.Getenv("STATIC_DIR"),
		DatabaseDriver: strings.ToLower(os.Getenv("DB_DRIVER")),
		SupabaseDBURL:  os.Getenv("SUPABASE_DB_URL"),
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		SQLitePath:     os.Getenv("SQLITE_PATH"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		CookieSecure:   envBool("COOKIE_SECURE"),
		LogLevel:       strings.ToLower(os.Getenv("LOG_LEVEL")),
	}
	if ttl, err := time.ParseDuration(os.Getenv("CACHE_TTL")); err == nil {
		cfg.CacheTTL = ttl
	}
	cfg.setDefaults()
	return cfg
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithViews replaces the built-in views. Nil fields keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		if v.Page != nil {
			a.Views.Page = v.Page
		}
		if v.Admin != nil {
			a.Views.Admin = v.Admin
		}
		if v.NotFound != nil {
			a.Views.NotFound = v.NotFound
		}
		if v.ServerError != nil {
			a.Views.ServerError = v.ServerError
		}
	}
}

// Public returns the settings templates may show.
func (c SiteConfig) Public() views.Site {
	return views.Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Tagline:     c.Tagline,
		OrgAddress:  c.OrgAddress,
		OrgPhone:    c.OrgPhone,
		OrgEmail:    c.OrgEmail,
	}
}
