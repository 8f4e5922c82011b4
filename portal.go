// Package portal is the public website and admin panel of a municipal
// disaster risk reduction and management office (MDRRMO).
//
// It serves news, services, downloadable resources, a photo gallery,
// emergency hotlines, CMS pages built from typed sections and a public
// incident report form. Admins manage all of it from /admin/. Content lives
// in Postgres (Supabase), MySQL or SQLite; the active backend can be
// switched at runtime.
package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/mdrrmo/portal/views"
)

// ViewFuncs holds the components handlers render. Page and Admin take the
// template name and its view data; the data embeds the layout chrome.
// DefaultViews serves the embedded templates, and WithViews replaces any
// subset of them.
type ViewFuncs struct {
	Page        func(name string, data any) templ.Component
	Admin       func(name string, data any) templ.Component
	NotFound    func(data any) templ.Component
	ServerError func(data any) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Page:  views.Page,
		Admin: views.AdminPage,
		NotFound: func(data any) templ.Component {
			return views.Page("not_found", data)
		},
		ServerError: func(data any) templ.Component {
			return views.Page("server_error", data)
		},
	}
}

// App is the central portal application. It wires together the datastores,
// cache, views, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	DB     *Datastores
	Cache  *ContentCache
	Views  ViewFuncs

	loginLimiter  *Limiter
	reportLimiter *Limiter
	customRoutes  []func(*App)
	staticDir     string
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: cfg.StaticDir,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the datastores and registers middleware and routes. Start
// calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("portal: SessionSecret is required")
	}

	a.Echo.Logger.SetLevel(ParseLogLevel(a.Config.LogLevel))

	if a.DB == nil {
		db, err := NewDatastores(a.Config.Backends(), a.Config.DatabaseDriver)
		if err != nil {
			return fmt.Errorf("portal: open datastore: %w", err)
		}
		a.DB = db
	}

	a.Cache = NewContentCache(a.DB.Active, a.Config.CacheTTL)
	a.loginLimiter = NewLimiter(5, time.Minute)
	a.reportLimiter = NewLimiter(5, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving %s on %s (backend %s)", a.Config.Name, a.Config.Addr, a.DB.ActiveDriver())
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.reportLimiter != nil {
		a.reportLimiter.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// store returns the backend currently serving requests.
func (a *App) store() *Store {
	return a.DB.Active()
}

// ParseLogLevel maps a LOG_LEVEL value to a gommon level, defaulting to INFO.
func ParseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
