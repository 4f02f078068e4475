package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the process-wide logrus instance. Development gets
// human-readable output, everything else JSON.
func InitLogger(env string) {
	logrus.SetOutput(os.Stdout)
	if env == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	}
	logrus.Info("Logger initialized")
}
