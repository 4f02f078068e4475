package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// Context keys under which the guards stash the resource they already
// fetched, so handlers don't hit the store twice.
const (
	GuardedBlogKey    = "guardedBlog"
	GuardedCommentKey = "guardedComment"
	GuardedUserKey    = "guardedUser"
)

// RedirectBack sends the client to the page it came from, or to fallback
// when no referer is present.
func RedirectBack(c echo.Context, fallback string) error {
	if ref := c.Request().Referer(); ref != "" {
		return c.Redirect(http.StatusSeeOther, ref)
	}
	return c.Redirect(http.StatusSeeOther, fallback)
}

// RequireBlogOwner approves mutation of a blog for its author or an
// admin. Missing blog flashes NotFound; anyone else gets Forbidden. The
// fetched blog is stored in the context.
func RequireBlogOwner(sess *session.Manager, blogs repositories.BlogRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				sess.Error(c, "You don't have permission to do that.")
				return c.Redirect(http.StatusSeeOther, "/blogs")
			}
			id, err := primitive.ObjectIDFromHex(c.Param("id"))
			if err != nil {
				sess.Error(c, "Blog not found")
				return c.Redirect(http.StatusSeeOther, "/blogs")
			}
			blog, err := blogs.GetBlogByID(c.Request().Context(), id)
			if err != nil {
				sess.Error(c, "Blog not found")
				return c.Redirect(http.StatusSeeOther, "/blogs")
			}
			if blog.Author.ID != user.ID && !user.IsAdmin {
				sess.Error(c, "You don't have permission to do that.")
				return c.Redirect(http.StatusSeeOther, "/blogs")
			}
			c.Set(GuardedBlogKey, blog)
			return next(c)
		}
	}
}

// RequireCommentOwner approves mutation of a comment for its author or an
// admin.
func RequireCommentOwner(sess *session.Manager, comments repositories.CommentRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				sess.Error(c, "You don't have permission to do that")
				return RedirectBack(c, "/blogs")
			}
			id, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
			if err != nil {
				sess.Error(c, "Something went wrong!")
				return RedirectBack(c, "/blogs")
			}
			comment, err := comments.GetCommentByID(c.Request().Context(), id)
			if err != nil {
				sess.Error(c, "Something went wrong!")
				return RedirectBack(c, "/blogs")
			}
			if comment.Author.ID != user.ID && !user.IsAdmin {
				sess.Error(c, "You don't have permission to do that")
				return RedirectBack(c, "/blogs")
			}
			c.Set(GuardedCommentKey, comment)
			return next(c)
		}
	}
}

// RequireProfileOwner approves mutation of a profile for the user
// themselves or an admin.
func RequireProfileOwner(sess *session.Manager, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				sess.Error(c, "You don't have permission to do that")
				return RedirectBack(c, "/blogs")
			}
			id, err := primitive.ObjectIDFromHex(c.Param("id"))
			if err != nil {
				sess.Error(c, "User not found.")
				return RedirectBack(c, "/blogs")
			}
			target, err := users.GetUserByID(c.Request().Context(), id)
			if err != nil {
				sess.Error(c, "User not found.")
				return RedirectBack(c, "/blogs")
			}
			if target.ID != user.ID && !user.IsAdmin {
				sess.Error(c, "You don't have permission to do that")
				return RedirectBack(c, "/blogs")
			}
			c.Set(GuardedUserKey, target)
			return next(c)
		}
	}
}
