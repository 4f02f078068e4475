package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// NotificationHandler serves the notification list and the single
// notification click-through routes.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	sessions               *session.Manager
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifRepo repositories.NotificationRepository, sess *session.Manager) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo, sessions: sess}
}

// RegisterNotificationRoutes registers notification routes.
func (h *NotificationHandler) RegisterNotificationRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/notifications", h.Index, requireLogin)
	e.GET("/notifications/:id", h.OpenPostNotification, requireLogin)
	e.GET("/commentNotifications/:id", h.OpenCommentNotification, requireLogin)
	e.GET("/followerNotifications/:id", h.OpenFollowerNotification, requireLogin)
}

// Index lists all three notification kinds newest first, then marks every
// fetched item read. The mutation on read is deliberate: the unread flags
// in the returned payload reflect the state before the visit, and a
// second visit shows everything read.
func (h *NotificationHandler) Index(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	posts, err := h.notificationRepository.GetPostNotifications(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("notifications: posts")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	comments, err := h.notificationRepository.GetCommentNotifications(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("notifications: comments")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	followers, err := h.notificationRepository.GetFollowerNotifications(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("notifications: followers")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}

	unread := 0
	for _, n := range posts {
		if !n.IsBlogRead {
			unread++
		}
	}
	for _, n := range comments {
		if !n.IsCommentRead {
			unread++
		}
	}
	for _, n := range followers {
		if !n.IsFollowerSeen {
			unread++
		}
	}

	if err := h.notificationRepository.MarkAllRead(ctx, user.ID); err != nil {
		logrus.WithError(err).Error("notifications: mark read")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications":         posts,
		"commentNotifications":  comments,
		"followerNotifications": followers,
		"unreadCount":           unread,
		"flash":                 h.sessions.DrainFlashes(c),
	})
}

func (h *NotificationHandler) param(c echo.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

// OpenPostNotification marks a post-notification read and redirects to
// the blog it references.
func (h *NotificationHandler) OpenPostNotification(c echo.Context) error {
	id, err := h.param(c)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	n, err := h.notificationRepository.GetPostNotificationByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	if err := h.notificationRepository.MarkPostNotificationRead(ctx, n.ID); err != nil {
		logrus.WithError(err).Error("post notification: mark read")
	}
	return c.Redirect(http.StatusSeeOther, "/blogs/"+n.BlogID.Hex())
}

// OpenCommentNotification marks a comment-notification read and redirects
// to the commented blog.
func (h *NotificationHandler) OpenCommentNotification(c echo.Context) error {
	id, err := h.param(c)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	n, err := h.notificationRepository.GetCommentNotificationByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	if err := h.notificationRepository.MarkCommentNotificationRead(ctx, n.ID); err != nil {
		logrus.WithError(err).Error("comment notification: mark read")
	}
	return c.Redirect(http.StatusSeeOther, "/blogs/"+n.BlogID.Hex())
}

// OpenFollowerNotification marks a follower-notification seen and
// redirects to the new follower's profile.
func (h *NotificationHandler) OpenFollowerNotification(c echo.Context) error {
	id, err := h.param(c)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	n, err := h.notificationRepository.GetFollowerNotificationByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	if err := h.notificationRepository.MarkFollowerNotificationSeen(ctx, n.ID); err != nil {
		logrus.WithError(err).Error("follower notification: mark seen")
	}
	return c.Redirect(http.StatusSeeOther, "/users/"+n.FollowerID.Hex())
}
