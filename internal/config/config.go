package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"policyqa/internal/database"
	"policyqa/internal/utils"
)

// Config carries process-wide settings resolved from the environment.
type Config struct {
	ServiceURL string
	DBPath     string
	LogLevel   zerolog.Level
}

// Load resolves configuration from a .env file (when present) and the
// POLICYQA_* environment variables. Unset variables fall back to defaults
// that match a local answering service on its stock port.
func Load() Config {
	// A missing .env file is fine; the process environment still applies.
	_ = utils.LoadEnv()

	return Config{
		ServiceURL: getEnvOrDefault("POLICYQA_SERVICE_URL", "http://127.0.0.1:5000"),
		DBPath:     getEnvOrDefault("POLICYQA_DB_PATH", database.GetDefaultDBPath()),
		LogLevel:   parseLogLevel(os.Getenv("POLICYQA_LOG_LEVEL")),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
