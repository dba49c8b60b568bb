package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application configuration
// Note: the bridge is stateless - no database and no auth secrets. It
// serves one user on localhost; bank files are re-read on reload.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Bank sources
	BankFiles          []string // explicit .reabank paths, colon-separated in CUBBY_BANK_FILES
	ReaperResourcePath string   // REAPER resource dir; used to locate the default bank file

	// Transport
	AllowedOrigin string // origin allowed for browser WebSocket/CORS; empty allows any

	// Observability
	SentryDSN string // Sentry DSN for error tracking
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8437"),
		BankFiles:          splitPaths(getEnv("CUBBY_BANK_FILES", "")),
		ReaperResourcePath: getEnv("REAPER_RESOURCE_PATH", ""),
		AllowedOrigin:      getEnv("CUBBY_ALLOWED_ORIGIN", ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}
}

// DefaultBankFile returns the Reaticulate bank file under the configured
// REAPER resource path, or "" when no resource path is set.
func (c *Config) DefaultBankFile() string {
	if c.ReaperResourcePath == "" {
		return ""
	}
	return filepath.Join(c.ReaperResourcePath, "Data", "Reaticulate.reabank")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitPaths(v string) []string {
	if v == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
