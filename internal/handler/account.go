package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/forms"
	"github.com/iliyamo/store-directory/internal/queue"
	"github.com/iliyamo/store-directory/internal/repository"
	queue_publisher "github.com/iliyamo/store-directory/internal/service"
	"github.com/iliyamo/store-directory/internal/utils"
)

// AccountHandler covers the profile page and the password-reset flow.
type AccountHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAccountHandler(cfg config.Config, users *repository.UserRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: users}
}

// resetNotice is sent for every forgot-password submission so responses do
// not reveal whether an account exists.
const resetNotice = "If an account with that email exists, an email will be sent with instructions for resetting your password."

// invalidResetNotice is the single message for every failed reset attempt;
// expired and unknown tokens are deliberately indistinguishable.
const invalidResetNotice = "Invalid password reset URL or it has expired"

// Show renders the account page.
func (h *AccountHandler) Show(c echo.Context) error {
	return c.Render(http.StatusOK, "account", viewData(c, h.Users, "Edit Your Account", nil))
}

// Update changes the profile's name and email.
func (h *AccountHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return echo.ErrUnauthorized
	}
	var f forms.AccountForm
	if err := c.Bind(&f); err != nil {
		flash.Set(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/account")
	}
	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Redirect(http.StatusSeeOther, "/account")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, f.Name, f.Email); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			flash.Set(c, "error", "An account with that email already exists.")
			return c.Redirect(http.StatusSeeOther, "/account")
		}
		return err
	}
	flash.Set(c, "success", "Your account info has been updated")
	return c.Redirect(http.StatusSeeOther, "/account")
}

// Forgot issues a reset token for the submitted email and queues the mail.
// Unknown emails take the same path outward as known ones.
func (h *AccountHandler) Forgot(c echo.Context) error {
	email := c.FormValue("email")

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		flash.Set(c, "info", resetNotice)
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	tok, err := utils.NewResetToken(h.Cfg.ResetTTLMin)
	if err != nil {
		return err
	}
	if err := h.Users.SetResetToken(ctx, u.ID, utils.HashResetRaw(tok.Raw), tok.Exp); err != nil {
		return err
	}

	// The mail leaves through the broker; a publish failure is logged and
	// swallowed so the response stays uniform.
	ev := queue.PasswordResetRequestedEvent{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		ResetURL:    h.Cfg.BaseURL + "/account/reset/" + tok.Raw,
		ExpiresAt:   tok.Exp.Format(time.RFC3339),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishPasswordReset(ctx, ev); err != nil {
		log.Printf("account: queue reset mail for user %d failed: %v", u.ID, err)
	}

	flash.Set(c, "info", resetNotice)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ResetForm renders the new-password page, but only for a token that still
// matches and has not expired.
func (h *AccountHandler) ResetForm(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	token := c.Param("token")
	if _, err := h.Users.FindByResetToken(ctx, utils.HashResetRaw(token), time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flash.Set(c, "error", invalidResetNotice)
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}
	return c.Render(http.StatusOK, "reset",
		viewData(c, h.Users, "Reset your Password", echo.Map{"Token": token}))
}

// Reset consumes a valid token: the password changes, the token fields are
// cleared, and the user is transparently logged in.
func (h *AccountHandler) Reset(c echo.Context) error {
	token := c.Param("token")
	var f forms.ResetForm
	if err := c.Bind(&f); err != nil {
		flash.Set(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/account/reset/"+token)
	}
	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Redirect(http.StatusSeeOther, "/account/reset/"+token)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByResetToken(ctx, utils.HashResetRaw(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flash.Set(c, "error", invalidResetNotice)
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}

	hash, err := utils.HashPassword(f.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := h.Users.CompleteReset(ctx, u.ID, hash); err != nil {
		return err
	}
	if err := setSessionCookie(c, h.Cfg, u.ID); err != nil {
		return err
	}
	flash.Set(c, "success", "Your password has been reset.")
	return c.Redirect(http.StatusSeeOther, "/")
}
