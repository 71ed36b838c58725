package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	TokenExpiry time.Duration
}

// LoadConfig reads configuration from the environment, with a .env file as
// fallback for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	expiryHours := 24
	if raw := os.Getenv("TOKEN_EXPIRY_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			expiryHours = parsed
		} else {
			logrus.Warnf("Invalid TOKEN_EXPIRY_HOURS %q, using default", raw)
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "social_circle"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
