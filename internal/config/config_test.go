package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:              "8080",
		BackendURL:        "http://localhost:5000",
		BackendTimeout:    10 * time.Second,
		SessionDBPath:     filepath.Join(t.TempDir(), "sessions.db"),
		SessionTTL:        24 * time.Hour,
		SessionSweep:      10 * time.Minute,
		CategoryCacheSize: 100,
		CategoryCacheTTL:  5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid backend scheme",
			mutate:      func(c *Config) { c.BackendURL = "ftp://localhost:5000" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "backend URL missing host",
			mutate:      func(c *Config) { c.BackendURL = "http://" },
			wantErr:     true,
			errorString: "missing host",
		},
		{
			name:        "backend timeout too small",
			mutate:      func(c *Config) { c.BackendTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "empty session db path",
			mutate:      func(c *Config) { c.SessionDBPath = "" },
			wantErr:     true,
			errorString: "session database path cannot be empty",
		},
		{
			name:        "session TTL too small",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid session TTL",
		},
		{
			name:        "category cache size zero",
			mutate:      func(c *Config) { c.CategoryCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid category cache size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.BackendURL = "not-a-url"
	cfg.CategoryCacheSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid port", "backend URL", "category cache size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("combined error missing %q: %v", want, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Fatalf("default backend URL = %s", cfg.BackendURL)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("default session TTL = %v", cfg.SessionTTL)
	}
}
