package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/anvesh42/foodblog/internal/mailer"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
)

const resetTokenTTL = time.Hour

// PasswordResetHandler implements the two-step password reset flow.
type PasswordResetHandler struct {
	userRepository repositories.UserRepository
	mail           mailer.Mailer
	sessions       *session.Manager
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(userRepo repositories.UserRepository, mail mailer.Mailer, sess *session.Manager) *PasswordResetHandler {
	return &PasswordResetHandler{userRepository: userRepo, mail: mail, sessions: sess}
}

// RegisterResetRoutes registers password reset routes.
func (h *PasswordResetHandler) RegisterResetRoutes(e *echo.Echo) {
	e.GET("/forgot", h.ForgotForm)
	e.POST("/forgot", h.Forgot)
	e.GET("/reset/:token", h.ResetForm)
	e.POST("/reset/:token", h.Reset)
}

// ForgotForm renders the forgot-password form payload.
func (h *PasswordResetHandler) ForgotForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": h.sessions.DrainFlashes(c)})
}

// Forgot issues a reset token for a known email and mails the reset link.
// An unknown email flashes an error and creates no token.
func (h *PasswordResetHandler) Forgot(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid form.")
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "A valid email address is required.")
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}

	token, err := newResetToken()
	if err != nil {
		logrus.WithError(err).Error("reset token generation")
		h.sessions.Error(c, "Something went wrong.")
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}

	ctx := c.Request().Context()
	email := sanitizeText(req.Email)
	user, err := h.userRepository.SetResetToken(ctx, email, token, time.Now().Add(resetTokenTTL))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.sessions.Error(c, "No account with that email address exists.")
		} else {
			logrus.WithError(err).Error("reset token store")
			h.sessions.Error(c, "Something went wrong.")
		}
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}

	link := "http://" + c.Request().Host + "/reset/" + token
	body := "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
		"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
		link + "\n\n" +
		"If you did not request this, please ignore this email and your password will remain unchanged.\n"
	if err := h.mail.Send(ctx, user.Email, "The Food Blog Password Reset", body); err != nil {
		logrus.WithError(err).Error("reset mail")
		h.sessions.Error(c, "Could not send the reset email, please try again later.")
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}

	h.sessions.Success(c, "An e-mail has been sent to "+user.Email+" with further instructions.")
	return c.Redirect(http.StatusSeeOther, "/forgot")
}

// ResetForm validates the token and renders the reset form payload.
func (h *PasswordResetHandler) ResetForm(c echo.Context) error {
	token := c.Param("token")
	if _, err := h.userRepository.GetUserByResetToken(c.Request().Context(), token); err != nil {
		h.sessions.Error(c, "Password reset token is invalid or has expired.")
		return c.Redirect(http.StatusSeeOther, "/forgot")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"flash": h.sessions.DrainFlashes(c),
	})
}

// Reset completes the flow: the token must exist and be unexpired, the
// two password fields must match exactly. Success replaces the hash and
// clears the token in one update, then signs the user in.
func (h *PasswordResetHandler) Reset(c echo.Context) error {
	token := c.Param("token")
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByResetToken(ctx, token)
	if err != nil {
		h.sessions.Error(c, "Password reset token is invalid or has expired.")
		return middleware.RedirectBack(c, "/forgot")
	}

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		h.sessions.Error(c, "Invalid form.")
		return middleware.RedirectBack(c, "/forgot")
	}
	if err := c.Validate(&req); err != nil {
		h.sessions.Error(c, "Password must be at least 8 characters.")
		return middleware.RedirectBack(c, "/forgot")
	}
	if req.Password != req.Confirm {
		// Token stays valid and unconsumed.
		h.sessions.Error(c, "Passwords do not match.")
		return middleware.RedirectBack(c, "/reset/"+token)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/forgot")
	}
	if err := h.userRepository.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		logrus.WithError(err).Error("password reset")
		h.sessions.Error(c, "Something went wrong.")
		return middleware.RedirectBack(c, "/forgot")
	}

	if err := h.sessions.SignIn(c, user.ID); err != nil {
		logrus.WithError(err).Error("reset: sign in")
	}

	body := "Hello,\n\nThis is a confirmation that the password for your account " +
		user.Email + " has just been changed.\n"
	if err := h.mail.Send(ctx, user.Email, "Your password has been changed", body); err != nil {
		logrus.WithError(err).Warn("reset confirmation mail")
	}

	h.sessions.Success(c, "Success! Your password has been changed.")
	return c.Redirect(http.StatusSeeOther, "/blogs")
}

// newResetToken returns 20 random bytes hex-encoded.
func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
