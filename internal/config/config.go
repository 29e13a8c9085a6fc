package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Backend REST API
	BackendURL     string
	BackendTimeout time.Duration

	// Session store
	SessionDBPath string
	SessionTTL    time.Duration
	SessionSweep  time.Duration
	SecureCookies bool

	// Category cache
	CategoryCacheSize int
	CategoryCacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),

		SessionDBPath: getEnv("SESSION_DB_PATH", "./data/sessions.db"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SessionSweep:  getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		SecureCookies: getEnvBool("SECURE_COOKIES", false),

		CategoryCacheSize: getEnvInt("CATEGORY_CACHE_SIZE", 100),
		CategoryCacheTTL:  getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if parsed, err := url.Parse(c.BackendURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid backend URL '%s': %v", c.BackendURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid backend URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	} else if parsed.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid backend URL '%s': missing host", c.BackendURL))
	}

	if c.BackendTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid backend timeout %v: must be at least 1 second", c.BackendTimeout))
	} else if c.BackendTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid backend timeout %v: must be at most 1 minute", c.BackendTimeout))
	}

	if c.SessionDBPath == "" {
		errs = append(errs, "session database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SessionDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create session database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionSweep < time.Second {
		errs = append(errs, fmt.Sprintf("invalid session sweep interval %v: must be at least 1 second", c.SessionSweep))
	}

	if c.CategoryCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid category cache size %d: must be at least 1", c.CategoryCacheSize))
	}
	if c.CategoryCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid category cache TTL %v: must be at least 1 second", c.CategoryCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
