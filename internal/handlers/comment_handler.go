package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/monitoring"
	"github.com/anvesh42/foodblog/internal/notify"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// CommentHandler handles comment CRUD on blogs.
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	fanout                 *notify.Fanout
	sessions               *session.Manager
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	fanout *notify.Fanout,
	sess *session.Manager,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		fanout:                 fanout,
		sessions:               sess,
	}
}

// RegisterCommentRoutes registers comment-related routes.
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo, requireLogin, requireOwner echo.MiddlewareFunc) {
	e.GET("/blogs/:id/comments/new", h.NewForm, requireLogin)
	e.POST("/blogs/:id/comments", h.Create, requireLogin)
	e.GET("/blogs/:id/comments/:comment_id/edit", h.EditForm, requireLogin, requireOwner)
	e.PUT("/blogs/:id/comments/:comment_id", h.Update, requireLogin, requireOwner)
	e.DELETE("/blogs/:id/comments/:comment_id", h.Delete, requireLogin, requireOwner)
}

func (h *CommentHandler) loadBlog(c echo.Context) (*models.Blog, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return h.blogRepository.GetBlogByID(c.Request().Context(), id)
}

// NewForm renders the comment-form payload for a blog.
func (h *CommentHandler) NewForm(c echo.Context) error {
	blog, err := h.loadBlog(c)
	if err != nil {
		h.sessions.Error(c, "That blog doesn't exist.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blog":  blog,
		"flash": h.sessions.DrainFlashes(c),
	})
}

// Create adds a comment to a blog: create the comment, record the
// commenter on the blog author, notify the author unless they commented
// themselves, then append the comment to the blog's list. The steps are
// sequential and untransacted; a crash mid-sequence leaves a partial
// state the join path tolerates.
func (h *CommentHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)

	blog, err := h.loadBlog(c)
	if err != nil {
		h.sessions.Error(c, "That blog doesn't exist.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid comment form.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Comment body is required.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}

	ctx := c.Request().Context()
	comment := &models.Comment{
		Body:   sanitizeBody(req.Body),
		Author: models.Author{ID: user.ID, Username: user.Username},
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		logrus.WithError(err).Error("comment create")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}

	if err := h.userRepository.AddCommenter(ctx, blog.Author.ID, user.ID); err != nil {
		logrus.WithError(err).Error("comment create: record commenter")
	}
	if err := h.fanout.CommentAdded(ctx, user, blog, comment); err != nil {
		logrus.WithError(err).Error("comment fan-out")
	}
	if err := h.blogRepository.AddComment(ctx, blog.ID, comment.ID); err != nil {
		logrus.WithError(err).Error("comment create: attach to blog")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}
	monitoring.CommentsCreated.Inc()

	h.sessions.Success(c, "Successfully added a new comment!")
	return c.Redirect(http.StatusSeeOther, "/blogs/"+blog.ID.Hex())
}

// EditForm renders the edit-form payload for the guarded comment.
func (h *CommentHandler) EditForm(c echo.Context) error {
	comment := c.Get(middleware.GuardedCommentKey).(*models.Comment)
	return c.JSON(http.StatusOK, echo.Map{
		"blog_id": c.Param("id"),
		"comment": comment,
		"flash":   h.sessions.DrainFlashes(c),
	})
}

// Update edits the comment body.
func (h *CommentHandler) Update(c echo.Context) error {
	comment := c.Get(middleware.GuardedCommentKey).(*models.Comment)

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid comment form.")
		return middleware.RedirectBack(c, "/blogs/"+c.Param("id"))
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Comment body is required.")
		return middleware.RedirectBack(c, "/blogs/"+c.Param("id"))
	}

	if err := h.commentRepository.UpdateComment(c.Request().Context(), comment.ID, sanitizeBody(req.Body)); err != nil {
		logrus.WithError(err).Error("comment update")
		return middleware.RedirectBack(c, "/blogs/"+c.Param("id"))
	}
	return c.Redirect(http.StatusSeeOther, "/blogs/"+c.Param("id"))
}

// Delete removes a comment, its matching comment-notifications, and the
// blog's list entry.
func (h *CommentHandler) Delete(c echo.Context) error {
	comment := c.Get(middleware.GuardedCommentKey).(*models.Comment)
	ctx := c.Request().Context()

	if err := h.notificationRepository.DeleteCommentNotificationsByComment(ctx, comment.ID); err != nil {
		logrus.WithError(err).Error("comment delete: notifications")
	}
	if blogID, err := primitive.ObjectIDFromHex(c.Param("id")); err == nil {
		if err := h.blogRepository.RemoveComment(ctx, blogID, comment.ID); err != nil {
			logrus.WithError(err).Error("comment delete: detach from blog")
		}
	}
	if err := h.commentRepository.DeleteComment(ctx, comment.ID); err != nil {
		logrus.WithError(err).Error("comment delete")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs/"+c.Param("id"))
	}
	return c.Redirect(http.StatusSeeOther, "/blogs/"+c.Param("id"))
}
