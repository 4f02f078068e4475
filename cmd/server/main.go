package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anvesh42/foodblog/internal/logger"
	"github.com/anvesh42/foodblog/internal/mailer"
	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/router"
	"github.com/anvesh42/foodblog/internal/session"
	"github.com/anvesh42/foodblog/pkg/config"
	"github.com/anvesh42/foodblog/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(cfg.Env)

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()
	database := db.Client.Database(cfg.MongoDB)

	// Server-side sessions backed by Mongo
	store := session.NewMongoStore(database, []byte(cfg.SessionSecret))
	sess := session.NewManager(store, cfg.SessionName)
	if err := store.PurgeExpired(context.Background(), 14*24*time.Hour); err != nil {
		logrus.WithError(err).Warn("session purge")
	}

	// Image storage
	uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Outbound mail for password resets
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, database, uploader, mail, sess, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
