package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/notify"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// FollowHandler handles the follow/unfollow relation toggle.
type FollowHandler struct {
	userRepository repositories.UserRepository
	fanout         *notify.Fanout
	sessions       *session.Manager
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(userRepo repositories.UserRepository, fanout *notify.Fanout, sess *session.Manager) *FollowHandler {
	return &FollowHandler{userRepository: userRepo, fanout: fanout, sessions: sess}
}

// RegisterFollowRoutes registers follow-related routes.
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/follow/:id", h.Follow, requireLogin)
	e.GET("/unfollow/:id", h.Unfollow, requireLogin)
}

// Follow adds the current user to the target's followers. Re-following an
// already-followed target flashes an error and writes nothing; the
// request still succeeds with a redirect.
func (h *FollowHandler) Follow(c echo.Context) error {
	user := middleware.CurrentUser(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}

	if target.IsFollowedBy(user.ID) {
		h.sessions.Error(c, "You already follow "+target.Username+"!")
		return c.Redirect(http.StatusSeeOther, "/users/"+target.ID.Hex())
	}

	if err := h.userRepository.AddFollower(ctx, target.ID, user.ID); err != nil {
		logrus.WithError(err).Error("follow")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	h.sessions.Success(c, "Successfully followed "+target.Username+"!")

	if err := h.fanout.Followed(ctx, user, target); err != nil {
		logrus.WithError(err).Error("follow fan-out")
	}

	return c.Redirect(http.StatusSeeOther, "/users/"+target.ID.Hex())
}

// Unfollow pulls both sides of the relation. Unfollowing someone never
// followed is a quiet success.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	user := middleware.CurrentUser(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}

	if err := h.userRepository.RemoveFollower(ctx, target.ID, user.ID); err != nil {
		logrus.WithError(err).Error("unfollow")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}

	h.sessions.Success(c, "Successfully unfollowed "+target.Username+"!")
	return c.Redirect(http.StatusSeeOther, "/users/"+target.ID.Hex())
}
