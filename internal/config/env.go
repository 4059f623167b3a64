package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/ralog/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads each present env file from the working directory.
// Variables already set in the process environment are never overwritten.
func LoadEnvFiles() {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", logfields.File(name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Failed to load environment file", logfields.File(name), logfields.Error(err))
		}
	}
}
