package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anvesh42/foodblog/internal/handlers"
	"github.com/anvesh42/foodblog/internal/mailer"
	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/notify"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
	"github.com/anvesh42/foodblog/pkg/config"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	logrus.Debug("global middleware configured")
}

// SetupRoutes wires repositories, handlers, and guards onto the Echo
// instance. Reads stay open; every mutation goes through the session
// guard, ownership-sensitive mutations additionally through an owner
// guard.
func SetupRoutes(e *echo.Echo, db *mongo.Database, uploader media.Uploader, mail mailer.Mailer, sess *session.Manager, cfg *config.Config) {
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	userRepo := repositories.NewMongoUserRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	notifRepo := repositories.NewMongoNotificationRepository(db)

	fanout := notify.NewFanout(userRepo, notifRepo)

	e.Use(middleware.LoadUser(sess, userRepo))

	requireLogin := middleware.RequireLogin(sess)
	requireBlogOwner := middleware.RequireBlogOwner(sess, blogRepo)
	requireCommentOwner := middleware.RequireCommentOwner(sess, commentRepo)
	requireProfileOwner := middleware.RequireProfileOwner(sess, userRepo)

	authHandler := handlers.NewAuthHandler(userRepo, uploader, sess, cfg.AdminInviteCode)
	authHandler.RegisterAuthRoutes(e)

	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo, commentRepo, notifRepo, uploader, fanout, sess)
	blogHandler.RegisterBlogRoutes(e, requireLogin, requireBlogOwner)

	feedHandler := handlers.NewFeedHandler(blogRepo, userRepo, sess)
	feedHandler.RegisterFeedRoutes(e, requireLogin)

	commentHandler := handlers.NewCommentHandler(commentRepo, blogRepo, userRepo, notifRepo, fanout, sess)
	commentHandler.RegisterCommentRoutes(e, requireLogin, requireCommentOwner)

	userHandler := handlers.NewUserHandler(userRepo, blogRepo, uploader, sess, cfg.AdminInviteCode)
	userHandler.RegisterProfileRoutes(e, requireLogin, requireProfileOwner)

	followHandler := handlers.NewFollowHandler(userRepo, fanout, sess)
	followHandler.RegisterFollowRoutes(e, requireLogin)

	notificationHandler := handlers.NewNotificationHandler(notifRepo, sess)
	notificationHandler.RegisterNotificationRoutes(e, requireLogin)

	resetHandler := handlers.NewPasswordResetHandler(userRepo, mail, sess)
	resetHandler.RegisterResetRoutes(e)

	logrus.Debug("routes configured")
}
