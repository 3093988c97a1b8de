package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/forms"
	"github.com/iliyamo/store-directory/internal/repository"
	"github.com/iliyamo/store-directory/internal/utils"
)

// AuthHandler bundles dependencies for signup, login and logout.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", viewData(c, h.Users, "Login", nil))
}

// SignupForm renders the registration page.
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", viewData(c, h.Users, "Sign Up", nil))
}

// Signup validates the registration form, creates the account and logs the
// new user straight in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var f forms.SignupForm
	if err := c.Bind(&f); err != nil {
		flash.Set(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/signup")
	}
	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Render(http.StatusOK, "signup",
			viewData(c, h.Users, "Sign Up", echo.Map{"Name": f.Name, "Email": f.Email}))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, f.Email, strings.TrimSpace(f.Name), f.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			flash.Set(c, "error", "An account with that email already exists.")
			return c.Redirect(http.StatusSeeOther, "/signup")
		}
		return err
	}
	if err := setSessionCookie(c, h.Cfg, uid); err != nil {
		return err
	}
	flash.Set(c, "success", "You are now logged in!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Login verifies credentials and establishes a session. The notice never
// says whether the email or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	if strings.TrimSpace(email) == "" || password == "" {
		flash.Set(c, "error", "Login failed")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flash.Set(c, "error", "Login failed")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		flash.Set(c, "error", "Login failed")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := setSessionCookie(c, h.Cfg, u.ID); err != nil {
		return err
	}
	flash.Set(c, "success", "You are now logged in!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout discards the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookie(c)
	flash.Set(c, "success", "You are now logged out!")
	return c.Redirect(http.StatusSeeOther, "/")
}
