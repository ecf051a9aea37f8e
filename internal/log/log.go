package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel overrides the configured log level
const EnvLevel = "PLN_LOG_LEVEL"

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	// stdout is reserved for command output and --json
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if level := os.Getenv(EnvLevel); level != "" {
		SetLevel(level)
	}
}

// GetLogger returns the shared logger instance
func GetLogger() *logrus.Logger {
	return logger
}

// SetLevel sets the logger level by name (debug, info, warn, error).
// Unknown names leave the level unchanged and return false.
func SetLevel(name string) bool {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return false
	}
	logger.SetLevel(level)
	return true
}

// Configure applies the configured level unless the environment overrides it
func Configure(level string) {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	if level == "" {
		return
	}
	if !SetLevel(level) {
		logger.Warnf("ignoring unknown log level %q", level)
	}
}

// ValidLevel reports whether name is a level SetLevel accepts
func ValidLevel(name string) bool {
	_, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	return err == nil
}
