package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service logger. JSON output is used in production
// unless a format is configured explicitly.
func NewLogger(server ServerConfig, cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	format := cfg.Format
	if format == "" {
		format = "text"
		if server.Environment == "production" {
			format = "json"
		}
	}

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
