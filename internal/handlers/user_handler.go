package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// UserHandler handles profile pages and profile edits.
type UserHandler struct {
	userRepository repositories.UserRepository
	blogRepository repositories.BlogRepository
	uploader       media.Uploader
	sessions       *session.Manager
	adminCode      string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, blogRepo repositories.BlogRepository, uploader media.Uploader, sess *session.Manager, adminCode string) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		blogRepository: blogRepo,
		uploader:       uploader,
		sessions:       sess,
		adminCode:      adminCode,
	}
}

// RegisterProfileRoutes registers user profile routes.
func (h *UserHandler) RegisterProfileRoutes(e *echo.Echo, requireLogin, requireOwner echo.MiddlewareFunc) {
	e.GET("/users/:id", h.Show)
	e.GET("/users/:id/edit", h.EditForm, requireLogin, requireOwner)
	e.PUT("/users/:id", h.Update, requireLogin, requireOwner)
	e.GET("/users/:id/followers", h.Followers, requireLogin)
}

// Show renders a profile with the user's blogs and followers.
func (h *UserHandler) Show(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.sessions.Error(c, "Something went wrong")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		h.sessions.Error(c, "Something went wrong")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	blogs, err := h.blogRepository.GetBlogsByAuthor(ctx, user.ID)
	if err != nil {
		h.sessions.Error(c, "Something went wrong")
		return c.Redirect(http.StatusSeeOther, "/blogs")
	}
	followers, err := h.userRepository.GetUsersByIDs(ctx, user.Followers)
	if err != nil {
		logrus.WithError(err).Error("profile: followers")
		followers = []models.User{}
	}
	compact := make([]models.UserCompact, len(followers))
	for i := range followers {
		compact[i] = followers[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":      user,
		"blogs":     blogs,
		"followers": compact,
		"flash":     h.sessions.DrainFlashes(c),
	})
}

// EditForm renders the profile edit payload for the guarded user.
func (h *UserHandler) EditForm(c echo.Context) error {
	target := c.Get(middleware.GuardedUserKey).(*models.User)
	return c.JSON(http.StatusOK, echo.Map{
		"user":  target,
		"flash": h.sessions.DrainFlashes(c),
	})
}

// Update edits profile fields, replaces the profile image when a new one
// is uploaded (old asset destroyed best-effort), and honors the admin
// invite code the same way registration does.
func (h *UserHandler) Update(c echo.Context) error {
	target := c.Get(middleware.GuardedUserKey).(*models.User)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid profile form.")
		return middleware.RedirectBack(c, "/users/"+target.ID.Hex())
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Invalid profile form.")
		return middleware.RedirectBack(c, "/users/"+target.ID.Hex())
	}

	ctx := c.Request().Context()
	if fh := formFile(c, "image"); fh != nil {
		asset, err := uploadFormFile(ctx, h.uploader, fh)
		if err != nil {
			h.sessions.Error(c, uploadErrorMessage(err))
			return middleware.RedirectBack(c, "/users/"+target.ID.Hex())
		}
		if target.ImageID != "" {
			if err := h.uploader.Destroy(ctx, target.ImageID); err != nil {
				logrus.WithError(err).Warn("profile update: destroy old image")
			}
		}
		target.Image = asset.URL
		target.ImageID = asset.PublicID
	}

	if req.Username != "" {
		target.Username = sanitizeText(req.Username)
	}
	if req.Email != "" {
		target.Email = sanitizeText(req.Email)
	}
	target.FirstName = sanitizeText(req.FirstName)
	target.LastName = sanitizeText(req.LastName)
	if h.adminCode != "" && req.AdminCode == h.adminCode {
		target.IsAdmin = true
	}

	if err := h.userRepository.UpdateUser(ctx, target); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			h.sessions.Error(c, "That username or email is already taken.")
		} else {
			logrus.WithError(err).Error("profile update")
			h.sessions.Error(c, "Something went wrong.")
		}
		return middleware.RedirectBack(c, "/users/"+target.ID.Hex())
	}

	h.sessions.Success(c, "Successfully Updated!")
	return c.Redirect(http.StatusSeeOther, "/users/"+target.ID.Hex())
}

// Followers lists a user's followers, most recent first. A user with no
// followers redirects with a flash.
func (h *UserHandler) Followers(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return middleware.RedirectBack(c, "/blogs")
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return middleware.RedirectBack(c, "/blogs")
	}
	if len(user.Followers) == 0 {
		h.sessions.Success(c, "This user has no followers yet")
		return middleware.RedirectBack(c, "/users/"+user.ID.Hex())
	}

	followers, err := h.userRepository.GetUsersByIDs(ctx, user.Followers)
	if err != nil {
		logrus.WithError(err).Error("followers list")
		return middleware.RedirectBack(c, "/users/"+user.ID.Hex())
	}
	// The $in query returns documents in storage order; re-key them so the
	// follower-array order (oldest first) drives the listing.
	byID := make(map[primitive.ObjectID]models.User, len(followers))
	for _, f := range followers {
		byID[f.ID] = f
	}
	list := make([]models.UserCompact, 0, len(followers))
	for i := len(user.Followers) - 1; i >= 0; i-- {
		if f, ok := byID[user.Followers[i]]; ok {
			list = append(list, f.ToCompact())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":      user.ToCompact(),
		"followers": list,
		"flash":     h.sessions.DrainFlashes(c),
	})
}
