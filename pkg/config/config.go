package config

import "os"

// Config carries every externally supplied setting. The admin invite code
// is the shared-secret escalation path and must never appear as a literal
// in source.
type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	SessionSecret   string
	SessionName     string
	AdminInviteCode string
	CloudinaryURL   string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	MailFrom        string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "foodblog"),
		SessionSecret:   getEnv("SESSION_SECRET", "development-key"),
		SessionName:     getEnv("SESSION_NAME", "foodblog_session"),
		AdminInviteCode: os.Getenv("ADMIN_INVITE_CODE"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "25"),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		MailFrom:        getEnv("MAIL_FROM", "noreply@foodblog.local"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
