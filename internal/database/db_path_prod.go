//go:build prod

package database

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get user config dir, using fallback")
		return "policyqa.db"
	}

	appDir := filepath.Join(configDir, "policyqa")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create app config dir, using fallback")
		return "policyqa.db"
	}

	dbPath := filepath.Join(appDir, "policyqa.db")

	return dbPath
}

func IsDevelopment() bool {
	return false
}
