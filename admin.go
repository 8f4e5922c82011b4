package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest admin password accepted.
const MinPasswordLength = 8

const recentIncidentLimit = 5

// dummyHash is compared against when the email is unknown so failed
// sign-ins take the same time either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CreateAdmin creates an admin account, or resets the password of the
// admin with the same email.
func CreateAdmin(ctx context.Context, s *Store, email, name, password string) (AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return AdminUser{}, fmt.Errorf("invalid email %q", email)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return AdminUser{}, err
	}
	u := AdminUser{Email: email, Name: strings.TrimSpace(name), PasswordHash: hash}
	if err := s.SaveAdminUser(ctx, &u); err != nil {
		return AdminUser{}, err
	}
	return u, nil
}

// authenticate returns the admin with email when password matches.
func (a *App) authenticate(ctx context.Context, email, password string) (AdminUser, bool, error) {
	u, err := a.store().GetAdminUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return AdminUser{}, false, nil
	}
	if err != nil {
		return AdminUser{}, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return AdminUser{}, false, nil
	}
	return u, true, nil
}

func (a *App) handleLoginForm(c echo.Context) error {
	if IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.Admin("login", loginView{adminLayout: a.admin(c, "")}))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	email := strings.TrimSpace(c.FormValue("email"))
	view := loginView{adminLayout: a.admin(c, ""), Email: email}

	// Every attempt holds a slot until it succeeds, so parallel guesses
	// cannot slip past the limit.
	release, allowed := a.loginLimiter.Reserve(ip)
	if !allowed {
		view.Error = "Too many sign-in attempts. Try again in a minute."
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Admin("login", view))
	}

	user, ok, err := a.authenticate(c.Request().Context(), email, c.FormValue("password"))
	if err != nil {
		release()
		return err
	}
	if !ok {
		c.Logger().Warnf("failed admin sign-in for %q from %s", email, ip)
		view.Error = "Invalid email or password."
		return RenderStatus(c, http.StatusUnauthorized, a.Views.Admin("login", view))
	}

	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c, user); err != nil {
		return err
	}
	c.Logger().Infof("admin %s signed in", user.Email)
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	counts, err := a.store().Counts(ctx)
	if err != nil {
		return err
	}
	recent, err := a.store().ListIncidents(ctx, IncidentFilter{})
	if err != nil {
		return err
	}
	return Render(c, a.Views.Admin("dashboard", dashboardView{
		adminLayout: a.admin(c, "dashboard"),
		Counts:      counts,
		Recent:      firstN(recent, recentIncidentLimit),
	}))
}

// redirectMsg sends the admin back to path with a flash message.
func redirectMsg(c echo.Context, path, msg string) error {
	if msg != "" {
		path += "?msg=" + url.QueryEscape(msg)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// changed invalidates the public cache after an admin write and redirects.
func (a *App) changed(c echo.Context, path, msg string) error {
	a.Cache.Invalidate()
	return redirectMsg(c, path, msg)
}

// formInt parses an integer form field. Blank or malformed input is 0.
func formInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	if err != nil {
		return 0
	}
	return n
}

func formBool(c echo.Context, name string) bool {
	switch strings.ToLower(c.FormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func formString(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

// validateForm validates view.Item and renders page with status 422 when it
// fails. ok is false when a response was written.
func validateForm[T interface{ Validate() error }](a *App, c echo.Context, page string, view formView[T]) (bool, error) {
	errs, err := fieldErrors(view.Item.Validate())
	if err != nil {
		return false, err
	}
	for k, v := range view.Errors {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[k] = v
	}
	if len(errs) == 0 {
		return true, nil
	}
	view.Errors = errs
	return false, RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Admin(page, view))
}
