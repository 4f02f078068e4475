package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

const currentUserKey = "currentUser"

// LoadUser resolves the session identity into a full user document on
// every request. A stale session (deleted user, invalid id) degrades to
// anonymous rather than failing the request.
func LoadUser(sess *session.Manager, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := sess.UserID(c); ok {
				if user, err := users.GetUserByID(c.Request().Context(), id); err == nil {
					c.Set(currentUserKey, user)
				}
			}
			return next(c)
		}
	}
}

// RequireLogin rejects anonymous requests with a flash and a redirect to
// the login page.
func RequireLogin(sess *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				sess.Error(c, "You need to be logged in to do that.")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user loaded by LoadUser, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}
