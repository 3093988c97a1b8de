package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/utils"
)

// SessionCookie is the name of the HTTP-only cookie holding the signed
// session token.
const SessionCookie = "session"

// Session resolves the session cookie on every request and, when it carries
// a valid token, stores the user id in the context under "user_id". It
// never rejects: anonymous requests simply proceed without the key, and
// RequireLogin decides what that means per route.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
				if uid, err := utils.ParseSessionToken(secret, ck.Value); err == nil {
					c.Set("user_id", uid)
				}
			}
			return next(c)
		}
	}
}

// RequireLogin guards page routes: unauthenticated requests are flashed a
// notice and redirected to the login form.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("user_id").(uint64); !ok {
			flash.Set(c, "error", "Please log in first.")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireLoginJSON guards API routes: unauthenticated requests get a 401
// JSON error instead of a redirect.
func RequireLoginJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("user_id").(uint64); !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return next(c)
	}
}
