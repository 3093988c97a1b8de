package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/middleware"
	"github.com/iliyamo/store-directory/internal/repository"
	"github.com/iliyamo/store-directory/internal/utils"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id placed in the context by the session
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// viewData assembles the base payload every page template expects: title,
// pending flash notices and the logged-in user (nil for guests). Extra
// key/values are merged on top.
func viewData(c echo.Context, users *repository.UserRepo, title string, extra echo.Map) echo.Map {
	data := echo.Map{
		"Title":   title,
		"Flashes": flash.Take(c),
		"User":    (*repository.User)(nil),
	}
	if uid, err := getUserID(c); err == nil && users != nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		if u, err := users.GetByID(ctx, uid); err == nil {
			data["User"] = &u
		}
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// setSessionCookie issues a signed session token for the user and attaches
// it as an HTTP-only cookie.
func setSessionCookie(c echo.Context, cfg config.Config, userID uint64) error {
	tok, err := utils.NewSessionToken(cfg.JWTSecret, userID, cfg.SessionTTLMin)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
