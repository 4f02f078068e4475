package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// FeedHandler serves the followed-authors feed.
type FeedHandler struct {
	blogRepository repositories.BlogRepository
	userRepository repositories.UserRepository
	sessions       *session.Manager
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, sess *session.Manager) *FeedHandler {
	return &FeedHandler{blogRepository: blogRepo, userRepository: userRepo, sessions: sess}
}

// RegisterFeedRoutes registers the feed route. The :id segment is the
// viewing user's id.
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/blogs/:id/feed", h.GetFeed, requireLogin)
}

// GetFeed returns the blogs of every author the user follows, newest
// first, in a single store query. An empty follow set redirects with a
// flash instead of rendering an empty feed.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	if len(user.IsFollowerOf) == 0 {
		h.sessions.Error(c, "You don't follow anyone Yet!")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}

	blogs, err := h.blogRepository.GetBlogsByAuthors(ctx, user.IsFollowerOf)
	if err != nil {
		logrus.WithError(err).Error("feed")
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blogs": blogs,
		"flash": h.sessions.DrainFlashes(c),
	})
}
