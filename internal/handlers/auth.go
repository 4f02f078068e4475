package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/monitoring"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	userRepository repositories.UserRepository
	uploader       media.Uploader
	sessions       *session.Manager
	adminCode      string
}

// NewAuthHandler creates a new AuthHandler. adminCode is the configured
// invite secret that escalates a registration to admin.
func NewAuthHandler(userRepo repositories.UserRepository, uploader media.Uploader, sess *session.Manager, adminCode string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		uploader:       uploader,
		sessions:       sess,
		adminCode:      adminCode,
	}
}

// RegisterAuthRoutes registers authentication-related routes.
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
}

// RegisterForm renders the registration form payload.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": h.sessions.DrainFlashes(c)})
}

// Register creates an account from the multipart registration form,
// uploading the optional profile image first so a failed upload never
// leaves a half-created user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid registration form.")
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Please fill in all required fields correctly.")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	user := &models.User{
		Username:  sanitizeText(req.Username),
		Email:     sanitizeText(req.Email),
		FirstName: sanitizeText(req.FirstName),
		LastName:  sanitizeText(req.LastName),
	}
	if h.adminCode != "" && req.AdminCode == h.adminCode {
		user.IsAdmin = true
	}

	if fh := formFile(c, "image"); fh != nil {
		asset, err := uploadFormFile(c.Request().Context(), h.uploader, fh)
		if err != nil {
			h.sessions.Error(c, uploadErrorMessage(err))
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		user.Image = asset.URL
		user.ImageID = asset.PublicID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	user.Password = string(hash)

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			h.sessions.Error(c, "A user with that username or email already exists.")
		} else {
			logrus.WithError(err).Error("register: create user")
			h.sessions.Error(c, "Something went wrong.")
		}
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	monitoring.RegisterSuccess.Inc()
	if err := h.sessions.SignIn(c, user.ID); err != nil {
		logrus.WithError(err).Error("register: sign in")
	}
	h.sessions.Success(c, "Welcome to the Food Blog "+user.Username)
	return c.Redirect(http.StatusSeeOther, "/blogs")
}

// LoginForm renders the login form payload.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": h.sessions.DrainFlashes(c)})
}

// Login verifies credentials and creates a server-side session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid login form.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Username and password are required.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		monitoring.LoginFailure.WithLabelValues("unknown_user").Inc()
		h.sessions.Error(c, "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		monitoring.LoginFailure.WithLabelValues("bad_password").Inc()
		h.sessions.Error(c, "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := h.sessions.SignIn(c, user.ID); err != nil {
		logrus.WithError(err).Error("login: sign in")
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	monitoring.LoginSuccess.Inc()
	return c.Redirect(http.StatusSeeOther, "/blogs")
}

// Logout deletes the server-side session, invalidating it immediately.
func (h *AuthHandler) Logout(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		if err := h.sessions.SignOut(c); err != nil {
			logrus.WithError(err).Error("logout")
		}
	}
	h.sessions.Success(c, "You Logged Out!")
	return c.Redirect(http.StatusSeeOther, "/blogs")
}

// uploadErrorMessage maps adapter failures onto user-visible flashes.
func uploadErrorMessage(err error) string {
	if errors.Is(err, media.ErrUnsupportedType) {
		return "Only image files are allowed!"
	}
	logrus.WithError(err).Error("media upload")
	return "Image upload failed, please try again."
}
