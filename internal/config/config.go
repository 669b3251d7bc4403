package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Session markers
	SessionBackend string
	SQLiteDBPath   string

	// Presentation
	CurrencyPrefix string
	ViewCacheSize  int
	ViewCacheTTL   time.Duration

	// Google sign-in
	GoogleClientID string

	LogLevel string
}

var (
	validBackends  = []string{"memory", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/dompet.db"),

		CurrencyPrefix: getEnvRaw("CURRENCY_PREFIX", "Rp "),
		ViewCacheSize:  getEnvInt("VIEW_CACHE_SIZE", 100),
		ViewCacheTTL:   getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.SessionBackend) {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SessionBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if c.ViewCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at least 1", c.ViewCacheSize))
	} else if c.ViewCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at most 10000", c.ViewCacheSize))
	}

	if c.ViewCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid view cache ttl %v: must be at least 1 second", c.ViewCacheTTL))
	} else if c.ViewCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid view cache ttl %v: must be at most 24 hours", c.ViewCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// GoogleSignInEnabled reports whether the login view offers Google sign-in.
func (c *Config) GoogleSignInEnabled() bool {
	return c.GoogleClientID != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw keeps surrounding whitespace, which matters for prefixes.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
