package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps debug, info, warn or error (any case) to a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

// LogLevelFromEnv returns the level named by RALOG_LOG_LEVEL, or fallback
// when the variable is unset or invalid.
func LogLevelFromEnv(fallback slog.Level) slog.Level {
	raw := os.Getenv(EnvLogLevel)
	if raw == "" {
		return fallback
	}
	level, err := ParseLogLevel(raw)
	if err != nil {
		return fallback
	}
	return level
}
