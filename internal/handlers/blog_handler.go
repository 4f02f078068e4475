package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/monitoring"
	"github.com/anvesh42/foodblog/internal/notify"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// BlogHandler handles the blog CRUD surface.
type BlogHandler struct {
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
	uploader               media.Uploader
	fanout                 *notify.Fanout
	sessions               *session.Manager
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	notifRepo repositories.NotificationRepository,
	uploader media.Uploader,
	fanout *notify.Fanout,
	sess *session.Manager,
) *BlogHandler {
	return &BlogHandler{
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		commentRepository:      commentRepo,
		notificationRepository: notifRepo,
		uploader:               uploader,
		fanout:                 fanout,
		sessions:               sess,
	}
}

// RegisterBlogRoutes registers blog-related routes. requireLogin and
// requireOwner are applied per the mutation rules; shows stay open.
func (h *BlogHandler) RegisterBlogRoutes(e *echo.Echo, requireLogin, requireOwner echo.MiddlewareFunc) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/blogs")
	})
	e.GET("/blogs", h.Index)
	e.GET("/blogs/new", h.NewForm, requireLogin)
	e.POST("/blogs", h.Create, requireLogin)
	e.GET("/blogs/:id", h.Show)
	e.GET("/blogs/:id/edit", h.EditForm, requireLogin, requireOwner)
	e.PUT("/blogs/:id", h.Update, requireLogin, requireOwner)
	e.DELETE("/blogs/:id", h.Delete, requireLogin, requireOwner)
}

// Index lists blogs newest first. With a search query it matches blog
// titles and usernames as a case-insensitive literal substring; an empty
// result redirects with a flash instead of rendering an empty list.
func (h *BlogHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()

	if query := sanitizeText(c.QueryParam("search")); query != "" {
		blogs, err := h.blogRepository.SearchBlogs(ctx, query)
		if err != nil {
			logrus.WithError(err).Error("blog search")
			h.sessions.Error(c, "Something went wrong.")
			return c.Redirect(http.StatusSeeOther, "/blogs")
		}
		users, err := h.userRepository.SearchUsers(ctx, query)
		if err != nil {
			logrus.WithError(err).Error("user search")
			h.sessions.Error(c, "Something went wrong.")
			return c.Redirect(http.StatusSeeOther, "/blogs")
		}
		if len(blogs) == 0 && len(users) == 0 {
			h.sessions.Error(c, "No Users/Blogs match your search")
			return c.Redirect(http.StatusSeeOther, "/blogs")
		}
		compact := make([]models.UserCompact, len(users))
		for i := range users {
			compact[i] = users[i].ToCompact()
		}
		return c.JSON(http.StatusOK, echo.Map{
			"blogs": blogs,
			"users": compact,
			"flash": h.sessions.DrainFlashes(c),
		})
	}

	blogs, err := h.blogRepository.GetAllBlogs(ctx)
	if err != nil {
		logrus.WithError(err).Error("blog list")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load blogs")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blogs": blogs,
		"users": []models.UserCompact{},
		"flash": h.sessions.DrainFlashes(c),
	})
}

// NewForm renders the create-form payload.
func (h *BlogHandler) NewForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": h.sessions.DrainFlashes(c)})
}

// Create makes a blog from the multipart form. The image, when present,
// is uploaded before any document is written so a failed upload aborts
// the whole operation. Followers are notified after the blog exists.
func (h *BlogHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid blog form.")
		return middleware.RedirectBack(c, "/blogs")
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Title and body are required.")
		return middleware.RedirectBack(c, "/blogs")
	}

	blog := &models.Blog{
		Title:  sanitizeText(req.Title),
		Body:   sanitizeBody(req.Body),
		Author: models.Author{ID: user.ID, Username: user.Username},
	}

	if fh := formFile(c, "image"); fh != nil {
		asset, err := uploadFormFile(c.Request().Context(), h.uploader, fh)
		if err != nil {
			h.sessions.Error(c, uploadErrorMessage(err))
			return middleware.RedirectBack(c, "/blogs")
		}
		blog.Image = asset.URL
		blog.ImageID = asset.PublicID
	}

	ctx := c.Request().Context()
	if err := h.blogRepository.CreateBlog(ctx, blog); err != nil {
		logrus.WithError(err).Error("blog create")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}
	monitoring.BlogsCreated.Inc()

	if err := h.fanout.BlogPosted(ctx, user, blog); err != nil {
		// The blog exists; fan-out failure must not unwind it.
		logrus.WithError(err).Error("blog fan-out")
	}

	return c.Redirect(http.StatusSeeOther, "/blogs/"+blog.ID.Hex())
}

// Show renders a blog with its comments joined.
func (h *BlogHandler) Show(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.sessions.Error(c, "That blog doesn't exist.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	ctx := c.Request().Context()
	blog, err := h.blogRepository.GetBlogByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "That blog doesn't exist.")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	comments, err := h.commentRepository.GetCommentsByIDs(ctx, blog.Comments)
	if err != nil {
		logrus.WithError(err).Error("blog show: comments")
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blog":  models.BlogDetail{Blog: *blog, Comments: comments},
		"flash": h.sessions.DrainFlashes(c),
	})
}

// EditForm renders the edit-form payload for the guarded blog.
func (h *BlogHandler) EditForm(c echo.Context) error {
	blog := c.Get(middleware.GuardedBlogKey).(*models.Blog)
	return c.JSON(http.StatusOK, echo.Map{
		"blog":  blog,
		"flash": h.sessions.DrainFlashes(c),
	})
}

// Update edits title and body, and optionally replaces the image: the new
// asset is uploaded first (failure aborts), then the old one is destroyed
// best-effort. The author never changes.
func (h *BlogHandler) Update(c echo.Context) error {
	blog := c.Get(middleware.GuardedBlogKey).(*models.Blog)

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid blog form.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Title and body are required.")
		return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
	}

	ctx := c.Request().Context()
	if fh := formFile(c, "image"); fh != nil {
		asset, err := uploadFormFile(ctx, h.uploader, fh)
		if err != nil {
			h.sessions.Error(c, uploadErrorMessage(err))
			return middleware.RedirectBack(c, "/blogs/"+blog.ID.Hex())
		}
		if blog.ImageID != "" {
			if err := h.uploader.Destroy(ctx, blog.ImageID); err != nil {
				logrus.WithError(err).Warn("blog update: destroy old image")
			}
		}
		blog.Image = asset.URL
		blog.ImageID = asset.PublicID
	}

	blog.Title = sanitizeText(req.Title)
	blog.Body = sanitizeBody(req.Body)
	if err := h.blogRepository.UpdateBlog(ctx, blog); err != nil {
		logrus.WithError(err).Error("blog update")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/blogs")
	}

	h.sessions.Success(c, "Successfully Updated!")
	return c.Redirect(http.StatusSeeOther, "/blogs/"+blog.ID.Hex())
}

// Delete removes a blog, its image asset when one exists, and any
// post-notifications referencing it. Comment documents and the other
// notification kinds are left in place.
func (h *BlogHandler) Delete(c echo.Context) error {
	blog := c.Get(middleware.GuardedBlogKey).(*models.Blog)
	ctx := c.Request().Context()

	if blog.ImageID != "" {
		if err := h.uploader.Destroy(ctx, blog.ImageID); err != nil {
			h.sessions.Error(c, "Something went wrong")
			return middleware.RedirectBack(c, "/blogs")
		}
	}

	if err := h.notificationRepository.DeletePostNotificationsByBlog(ctx, blog.ID); err != nil {
		logrus.WithError(err).Error("blog delete: notifications")
	}

	if err := h.blogRepository.DeleteBlog(ctx, blog.ID); err != nil {
		logrus.WithError(err).Error("blog delete")
		h.sessions.Error(c, "Something went wrong")
		return middleware.RedirectBack(c, "/blogs")
	}

	h.sessions.Success(c, "Blog deleted successfully!")
	return c.Redirect(http.StatusSeeOther, "/blogs")
}
