package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// InitLogger sets up the shared structured logger. The level comes from
// LOG_LEVEL (debug, info, warn, error); anything unset or unknown means info.
func InitLogger() {
	Log = logrus.New()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	level := logrus.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			Log.Warnf("Unknown LOG_LEVEL %q, falling back to info", raw)
		} else {
			level = parsed
		}
	}
	Log.SetLevel(level)

	// Keep the package-level logrus calls consistent with the shared logger.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(level)
}
